package views

import (
	"testing"

	"doctab/internal/core"
)

func metricsTable(id, name string, rows [][]string) core.Table {
	return core.Table{
		ID:         id,
		DocumentID: "doc1",
		Name:       name,
		Page:       1,
		Header:     []string{"סעיף", "2023", "2022"},
		Rows:       rows,
	}
}

func TestSummaryMetricPerRow(t *testing.T) {
	tab := metricsTable("t1", "מאזן", [][]string{
		{"הכנסות", "1,250,000", "980,000"},
		{"הוצאות", "870,000", "760,000"},
	})

	view := Summary([]core.Table{tab}, Options{})

	if view.Type != core.FormatSummary {
		t.Fatalf("type = %v", view.Type)
	}
	if view.Name != DefaultSummaryName {
		t.Fatalf("name = %q, want default label", view.Name)
	}
	if len(view.Metrics) != 2 {
		t.Fatalf("metrics = %d, want 2", len(view.Metrics))
	}
	m := view.Metrics[0]
	if m.Category != "מאזן" || m.Name != "הכנסות" || m.Value != "1,250,000" || m.Additional != "980,000" {
		t.Fatalf("unexpected metric: %+v", m)
	}
	if len(view.SourceTables) != 1 || view.SourceTables[0] != "t1" {
		t.Fatalf("source tables = %v", view.SourceTables)
	}
}

func TestSummarySkipsShortRows(t *testing.T) {
	tab := metricsTable("t1", "מאזן", [][]string{
		{"סה\"כ"},                   // one cell: skipped
		{},                          // empty row: skipped
		{"רווח נקי", "380,000"},     // exactly two cells: metric, empty additional
		{"הון עצמי", "2,100,000", "1,900,000", "מבוקר"},
	})

	view := Summary([]core.Table{tab}, Options{})

	if len(view.Metrics) != 2 {
		t.Fatalf("metrics = %d, want 2", len(view.Metrics))
	}
	if view.Metrics[0].Additional != "" {
		t.Fatalf("two-cell row additional = %q, want empty", view.Metrics[0].Additional)
	}
	if view.Metrics[1].Additional != "1,900,000, מבוקר" {
		t.Fatalf("additional = %q", view.Metrics[1].Additional)
	}
}

func TestSummarySkipsEmptyTables(t *testing.T) {
	empty := core.Table{ID: "t0", DocumentID: "doc1", Name: "ריק", Page: 1}
	noHeader := core.Table{ID: "tn", DocumentID: "doc1", Name: "בלי כותרת", Page: 1,
		Rows: [][]string{{"a", "b"}}}
	tab := metricsTable("t1", "מאזן", [][]string{{"הכנסות", "100"}})

	view := Summary([]core.Table{empty, noHeader, tab}, Options{})

	if len(view.Metrics) != 1 {
		t.Fatalf("metrics = %d, want 1", len(view.Metrics))
	}
	// Skipped tables still appear as sources.
	if len(view.SourceTables) != 3 {
		t.Fatalf("source tables = %v", view.SourceTables)
	}
}

func TestSummaryKeepsDuplicates(t *testing.T) {
	a := metricsTable("t1", "רבעון 1", [][]string{{"הכנסות", "100"}})
	b := metricsTable("t2", "רבעון 2", [][]string{{"הכנסות", "120"}})

	view := Summary([]core.Table{a, b}, Options{Name: "תקציר רבעוני"})

	if view.Name != "תקציר רבעוני" {
		t.Fatalf("name = %q", view.Name)
	}
	if len(view.Metrics) != 2 {
		t.Fatalf("metrics = %d, want both duplicates kept", len(view.Metrics))
	}
	if view.Metrics[0].Name != view.Metrics[1].Name {
		t.Fatalf("expected duplicate metric names, got %q and %q", view.Metrics[0].Name, view.Metrics[1].Name)
	}
}
