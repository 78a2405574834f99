// Package views derives aggregate projections (default, summary,
// comparison) from extracted document tables.
package views

import (
	"strings"

	"doctab/internal/core"
)

// DefaultSummaryName is the display name used when the caller does not
// supply one ("data summary").
const DefaultSummaryName = "תקציר נתונים"

// Summary flattens the given tables into a flat list of labeled metrics.
// Tables are visited in input order; tables with an empty header or no
// rows contribute nothing. Each row with at least two cells yields exactly
// one metric; shorter rows are skipped silently. Duplicate
// (category, name) pairs are preserved as-is.
func Summary(tables []core.Table, opts Options) core.SummaryView {
	name := opts.Name
	if name == "" {
		name = DefaultSummaryName
	}

	view := core.SummaryView{
		ViewMeta:     core.NewViewMeta(core.FormatSummary, name),
		Metrics:      []core.Metric{},
		SourceTables: make([]string, 0, len(tables)),
	}

	for _, t := range tables {
		view.SourceTables = append(view.SourceTables, t.ID)
		if len(t.Header) == 0 || len(t.Rows) == 0 {
			continue
		}
		for _, row := range t.Rows {
			if len(row) < 2 {
				continue
			}
			view.Metrics = append(view.Metrics, core.Metric{
				Category:   t.Name,
				Name:       row[0],
				Value:      row[1],
				Additional: joinAdditional(row),
			})
		}
	}

	return view
}

// joinAdditional joins the cells beyond name and value with ", ".
// Returns the empty string when the row has no extra cells.
func joinAdditional(row []string) string {
	if len(row) <= 2 {
		return ""
	}
	return strings.Join(row[2:], ", ")
}
