package memory

import (
	"context"
	"testing"

	"doctab/internal/core"
)

func sample(id string) core.Table {
	return core.Table{
		ID:         id,
		DocumentID: "doc1",
		Name:       "מאזן",
		Page:       1,
		Header:     []string{"סעיף", "2023"},
		Rows:       [][]string{{"הכנסות", "100"}},
	}
}

func TestAppendTable(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendTable(ctx, sample("t1"))
	if err != nil {
		t.Fatalf("AppendTable: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	ref, err = s.AppendTable(ctx, sample("t2"))
	if err != nil {
		t.Fatalf("AppendTable: %v", err)
	}
	if ref != "mem:2" {
		t.Errorf("ref = %q, want mem:2", ref)
	}

	got := s.Tables()
	if len(got) != 2 {
		t.Fatalf("Tables() = %d entries, want 2", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("tables out of order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestAppendTableInvalid(t *testing.T) {
	s := New()
	bad := sample("t1")
	bad.ID = ""
	if _, err := s.AppendTable(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if len(s.Tables()) != 0 {
		t.Fatal("invalid table must not be stored")
	}
}
