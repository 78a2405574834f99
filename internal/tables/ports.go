// Package tables defines the ports for table storage.
package tables

import (
	"context"

	"doctab/internal/core"
)

// Repository is the outbound port for the extracted-table store. Tables
// are written once by the extraction pipeline and read-only afterwards.
type Repository interface {
	// SaveTable stores one extracted table. Saving an existing id
	// replaces it (extraction re-runs overwrite their earlier output).
	SaveTable(ctx context.Context, t core.Table) error

	// ListTables returns the tables of a document in registration order.
	// page 0 returns all pages.
	ListTables(ctx context.Context, documentID string, page int) ([]core.Table, error)

	// GetTableByID resolves a table by its id across all documents.
	// Returns core.ErrTableNotFound when the id does not resolve.
	GetTableByID(ctx context.Context, tableID string) (core.Table, error)
}
