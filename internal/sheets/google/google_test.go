package google

import (
	"context"
	"os"
	"testing"

	"doctab/internal/core"
)

func TestNewRequiresSpreadsheetID(t *testing.T) {
	for _, id := range []string{"", "   "} {
		if _, err := New(context.Background(), id, "Tables"); err == nil {
			t.Fatalf("expected error for spreadsheet id %q", id)
		}
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	for _, k := range []string{
		"GOOGLE_SERVICE_ACCOUNT_JSON",
		"GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	// The empty sheet name would fall back to DefaultSheetName; the
	// missing credentials fail first.
	if _, err := New(context.Background(), "sheet-id", ""); err == nil {
		t.Fatal("expected error without service account credentials")
	}
}

func TestAppendTableRequiresService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-id", sheetName: "Tables"}
	tab := core.Table{ID: "t1", DocumentID: "doc1", Name: "מאזן", Page: 1}
	if _, err := c.AppendTable(context.Background(), tab); err == nil {
		t.Fatal("expected error with nil service")
	}
}

func TestBuildRowsLayout(t *testing.T) {
	tab := core.Table{
		ID:         "t1",
		DocumentID: "doc1",
		Name:       "מאזן",
		Page:       2,
		Header:     []string{"סעיף", "2023"},
		Rows:       [][]string{{"הכנסות", "100"}},
	}

	rows := buildRows(tab)

	// title + header + 1 data row + separator
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "מאזן" || rows[0][3] != "page 2" {
		t.Fatalf("title row = %v", rows[0])
	}
	if rows[1][0] != "סעיף" {
		t.Fatalf("header row = %v", rows[1])
	}
	if len(rows[3]) != 0 {
		t.Fatalf("separator row = %v, want empty", rows[3])
	}
}

func TestBuildRowsNoHeader(t *testing.T) {
	tab := core.Table{ID: "t1", DocumentID: "doc1", Name: "x", Page: 1,
		Rows: [][]string{{"a", "1"}}}
	rows := buildRows(tab)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want title + data + separator", len(rows))
	}
}
