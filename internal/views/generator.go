package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"doctab/internal/core"
)

// TableResolver resolves table ids to tables. Satisfied by every
// tables.Repository implementation.
type TableResolver interface {
	GetTableByID(ctx context.Context, tableID string) (core.Table, error)
}

// Options tune view generation.
type Options struct {
	// Name overrides the generated view's display name.
	Name string

	// Normalize, when set, is applied to category keys before comparison
	// matching. Nil keeps exact-match semantics.
	Normalize func(string) string
}

// DefaultViewName is the display name for default (pass-through) views.
const DefaultViewName = "תצוגת טבלאות"

// Generate resolves the requested table ids and dispatches to the builder
// for the requested format. Unknown table ids are dropped silently; an
// empty tableIDs slice is an error. Resolution failures other than
// not-found propagate to the caller.
func Generate(ctx context.Context, resolver TableResolver, tableIDs []string, format core.ViewFormat, opts Options) (core.View, error) {
	if len(tableIDs) == 0 {
		return nil, core.ErrNoTablesGiven
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownFormat, format)
	}

	tables, err := resolveTables(ctx, resolver, tableIDs)
	if err != nil {
		return nil, err
	}

	switch format {
	case core.FormatSummary:
		return Summary(tables, opts), nil
	case core.FormatComparison:
		return Comparison(tables, opts), nil
	default:
		return Default(tables, opts), nil
	}
}

// Default wraps the resolved tables unchanged under a fresh view header.
func Default(tables []core.Table, opts Options) core.DefaultView {
	name := opts.Name
	if name == "" {
		name = DefaultViewName
	}
	if tables == nil {
		tables = []core.Table{}
	}
	return core.DefaultView{
		ViewMeta: core.NewViewMeta(core.FormatDefault, name),
		Tables:   tables,
	}
}

func resolveTables(ctx context.Context, resolver TableResolver, tableIDs []string) ([]core.Table, error) {
	tables := make([]core.Table, 0, len(tableIDs))
	for _, id := range tableIDs {
		t, err := resolver.GetTableByID(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrTableNotFound) {
				slog.DebugContext(ctx, "Dropping unknown table id from view request", "table_id", id)
				continue
			}
			return nil, fmt.Errorf("resolve table %s: %w", id, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
