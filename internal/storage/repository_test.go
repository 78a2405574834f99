package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"doctab/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "doctab_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testTable(id string, page int) core.Table {
	return core.Table{
		ID:         id,
		DocumentID: "doc1",
		Name:       "מאזן",
		Page:       page,
		Header:     []string{"סעיף", "2023"},
		Rows:       [][]string{{"הכנסות", "1,000"}, {"הוצאות", "800"}},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := testTable("t1", 1)
	if err := repo.SaveTable(ctx, want); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	got, err := repo.GetTableByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTableByID: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetTableNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetTableByID(context.Background(), "missing")
	if !errors.Is(err, core.ErrTableNotFound) {
		t.Fatalf("err = %v, want ErrTableNotFound", err)
	}
}

func TestListTablesOrderAndPageFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, tab := range []core.Table{testTable("a", 1), testTable("b", 2), testTable("c", 2)} {
		if err := repo.SaveTable(ctx, tab); err != nil {
			t.Fatalf("SaveTable: %v", err)
		}
	}

	all, err := repo.ListTables(ctx, "doc1", 0)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(all) != 3 || all[0].ID != "a" || all[2].ID != "c" {
		t.Fatalf("unexpected listing: %+v", all)
	}

	p2, err := repo.ListTables(ctx, "doc1", 2)
	if err != nil {
		t.Fatalf("ListTables page 2: %v", err)
	}
	if len(p2) != 2 {
		t.Fatalf("page 2 = %d tables", len(p2))
	}

	other, err := repo.ListTables(ctx, "doc-other", 0)
	if err != nil {
		t.Fatalf("ListTables other doc: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("unknown document should list empty, got %d", len(other))
	}
}

func TestUpsertReplacesAndResetsSync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tab := testTable("t1", 1)
	if err := repo.SaveTable(ctx, tab); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := repo.MarkSynced(ctx, "t1"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	pending, err := repo.GetPendingSyncTables(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTables: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after MarkSynced = %d", len(pending))
	}

	// Re-saving makes the table pending again.
	tab.Name = "מאזן מעודכן"
	if err := repo.SaveTable(ctx, tab); err != nil {
		t.Fatalf("SaveTable (upsert): %v", err)
	}
	pending, err = repo.GetPendingSyncTables(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTables: %v", err)
	}
	if len(pending) != 1 || pending[0].Table.Name != "מאזן מעודכן" {
		t.Fatalf("pending after upsert = %+v", pending)
	}

	n, err := repo.CountTables(ctx, "doc1")
	if err != nil {
		t.Fatalf("CountTables: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want upsert not insert", n)
	}
}

func TestMarkSyncErrorCountsAttempts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveTable(ctx, testTable("t1", 1)); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := repo.MarkSyncError(ctx, "t1"); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}
	if err := repo.MarkSyncError(ctx, "t1"); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}

	pending, err := repo.GetPendingSyncTables(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTables: %v", err)
	}
	if len(pending) != 1 || pending[0].SyncAttempts != 2 {
		t.Fatalf("pending = %+v, want 2 attempts", pending)
	}
}

func TestSaveTableValidates(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SaveTable(context.Background(), core.Table{DocumentID: "doc1", Page: 1})
	if !errors.Is(err, core.ErrEmptyTableID) {
		t.Fatalf("err = %v, want ErrEmptyTableID", err)
	}
}
