package views

import (
	"doctab/internal/core"
)

const (
	// DefaultComparisonName is the display name used when the caller does
	// not supply one ("data comparison").
	DefaultComparisonName = "השוואת נתונים"

	// NoValue marks a category a table has no row for. The matrix is
	// dense: every category appears in every table column.
	NoValue = "N/A"

	// ErrNotEnoughTables is the payload-level message for a comparison
	// requested with fewer than two tables. It is carried in the view's
	// Error field rather than returned as a Go error so the caller can
	// still render an explanatory message.
	ErrNotEnoughTables = "נדרשות לפחות שתי טבלאות להשוואה"
)

// Comparison aligns the tables on their shared category axis: the first
// column of every row. Categories keep first-seen order across all tables;
// no sorting or normalization is applied unless opts.Normalize is set.
// Matching is exact string equality on the (possibly normalized) key,
// case- and whitespace-sensitive.
func Comparison(tables []core.Table, opts Options) core.ComparisonView {
	name := opts.Name
	if name == "" {
		name = DefaultComparisonName
	}

	view := core.ComparisonView{
		ViewMeta:       core.NewViewMeta(core.FormatComparison, name),
		Tables:         []core.TableRef{},
		Categories:     []string{},
		ComparisonData: []core.ComparisonRow{},
	}

	if len(tables) < 2 {
		view.Error = ErrNotEnoughTables
		return view
	}

	norm := opts.Normalize
	if norm == nil {
		norm = func(s string) string { return s }
	}

	for _, t := range tables {
		view.Tables = append(view.Tables, t.Ref())
	}

	// Category axis: first-seen order across all tables.
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, row := range t.Rows {
			if len(row) == 0 {
				continue
			}
			cat := norm(row[0])
			if _, ok := seen[cat]; ok {
				continue
			}
			seen[cat] = struct{}{}
			view.Categories = append(view.Categories, cat)
		}
	}

	for _, cat := range view.Categories {
		cmp := core.ComparisonRow{
			Category: cat,
			Values:   make([]core.ComparisonValue, 0, len(tables)),
		}
		for _, t := range tables {
			cmp.Values = append(cmp.Values, categoryValue(t, cat, norm))
		}
		view.ComparisonData = append(view.ComparisonData, cmp)
	}

	return view
}

// categoryValue locates the first row of t whose category equals cat and
// projects it into a comparison cell. Only a category absent from t
// yields NoValue; a matched single-cell row keeps an empty value, since
// the table did list the category, just without a figure.
func categoryValue(t core.Table, cat string, norm func(string) string) core.ComparisonValue {
	for _, row := range t.Rows {
		if len(row) == 0 || norm(row[0]) != cat {
			continue
		}
		v := core.ComparisonValue{Table: t.Name, Value: "", Additional: joinAdditional(row)}
		if len(row) > 1 {
			v.Value = row[1]
		}
		return v
	}
	return core.ComparisonValue{Table: t.Name, Value: NoValue, Additional: ""}
}
