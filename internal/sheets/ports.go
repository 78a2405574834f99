package sheets

import (
	"context"

	"doctab/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// TableWriter mirrors one extracted table to a spreadsheet and
	// returns an adapter-specific reference to the written range.
	TableWriter interface {
		AppendTable(ctx context.Context, t core.Table) (ref string, err error)
	}
)
