package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"doctab/internal/core"
	"doctab/internal/tables"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements tables.Repository on a local SQLite file.
// It also tracks per-table sync state for the sheets mirror worker.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ tables.Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveTable implements tables.Repository. Re-saving an id replaces the
// stored table and resets its sync state.
func (r *SQLiteRepository) SaveTable(ctx context.Context, t core.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	headerJSON, rowsJSON, err := marshalCells(t)
	if err != nil {
		return err
	}

	err = r.queries.UpsertTable(ctx, UpsertTableParams{
		ID:         t.ID,
		DocumentID: t.DocumentID,
		Name:       t.Name,
		Page:       int64(t.Page),
		HeaderJSON: headerJSON,
		RowsJSON:   rowsJSON,
	})
	if err != nil {
		return fmt.Errorf("upsert table: %w", err)
	}

	slog.InfoContext(ctx, "Table saved to SQLite",
		"table_id", t.ID,
		"document_id", t.DocumentID,
		"page", t.Page,
		"rows", len(t.Rows))

	return nil
}

// ListTables implements tables.Repository.
func (r *SQLiteRepository) ListTables(ctx context.Context, documentID string, page int) ([]core.Table, error) {
	dbTables, err := r.queries.ListByDocument(ctx, documentID, int64(page))
	if err != nil {
		return nil, fmt.Errorf("list tables for document %s: %w", documentID, err)
	}

	out := make([]core.Table, 0, len(dbTables))
	for _, dt := range dbTables {
		t, err := toCoreTable(dt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTableByID implements tables.Repository.
func (r *SQLiteRepository) GetTableByID(ctx context.Context, tableID string) (core.Table, error) {
	dt, err := r.queries.GetTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Table{}, core.ErrTableNotFound
		}
		return core.Table{}, fmt.Errorf("get table %s: %w", tableID, err)
	}
	return toCoreTable(dt)
}

// PendingSyncTable carries what the mirror worker needs per queued table.
type PendingSyncTable struct {
	Table        core.Table
	SyncAttempts int64
}

// GetPendingSyncTables returns tables not yet mirrored to the spreadsheet.
func (r *SQLiteRepository) GetPendingSyncTables(ctx context.Context, limit int) ([]PendingSyncTable, error) {
	dbTables, err := r.queries.GetPendingSyncTables(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync tables: %w", err)
	}

	out := make([]PendingSyncTable, 0, len(dbTables))
	for _, dt := range dbTables {
		t, err := toCoreTable(dt)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingSyncTable{Table: t, SyncAttempts: dt.SyncAttempts})
	}
	return out, nil
}

// MarkSynced records a successful spreadsheet mirror for a table.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, tableID string) error {
	if err := r.queries.MarkTableSynced(ctx, tableID); err != nil {
		return fmt.Errorf("mark table synced: %w", err)
	}
	slog.InfoContext(ctx, "Table marked as synced", "table_id", tableID)
	return nil
}

// MarkSyncError bumps the attempt counter after a failed mirror.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, tableID string) error {
	if err := r.queries.MarkTableSyncError(ctx, tableID); err != nil {
		return fmt.Errorf("mark table sync error: %w", err)
	}
	slog.WarnContext(ctx, "Table marked with sync error", "table_id", tableID)
	return nil
}

// CountTables returns how many tables a document has, all pages.
func (r *SQLiteRepository) CountTables(ctx context.Context, documentID string) (int64, error) {
	n, err := r.queries.CountByDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	return n, nil
}

func marshalCells(t core.Table) (headerJSON, rowsJSON string, err error) {
	header := t.Header
	if header == nil {
		header = []string{}
	}
	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}

	h, err := json.Marshal(header)
	if err != nil {
		return "", "", fmt.Errorf("marshal header: %w", err)
	}
	rw, err := json.Marshal(rows)
	if err != nil {
		return "", "", fmt.Errorf("marshal rows: %w", err)
	}
	return string(h), string(rw), nil
}

func toCoreTable(dt DocumentTable) (core.Table, error) {
	t := core.Table{
		ID:         dt.ID,
		DocumentID: dt.DocumentID,
		Name:       dt.Name,
		Page:       int(dt.Page),
	}
	if err := json.Unmarshal([]byte(dt.HeaderJSON), &t.Header); err != nil {
		return core.Table{}, fmt.Errorf("unmarshal header of table %s: %w", dt.ID, err)
	}
	if err := json.Unmarshal([]byte(dt.RowsJSON), &t.Rows); err != nil {
		return core.Table{}, fmt.Errorf("unmarshal rows of table %s: %w", dt.ID, err)
	}
	return t, nil
}
