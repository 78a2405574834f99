package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the raw SQL against the document_tables schema.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// DocumentTable is the row shape of document_tables.
type DocumentTable struct {
	ID           string
	DocumentID   string
	Name         string
	Page         int64
	HeaderJSON   string
	RowsJSON     string
	Synced       int64
	SyncAttempts int64
	CreatedAt    time.Time
}

const upsertTable = `
INSERT INTO document_tables (id, document_id, name, page, header_json, rows_json, synced, updated_at)
VALUES (?, ?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
    document_id = excluded.document_id,
    name        = excluded.name,
    page        = excluded.page,
    header_json = excluded.header_json,
    rows_json   = excluded.rows_json,
    synced      = 0,
    updated_at  = CURRENT_TIMESTAMP`

type UpsertTableParams struct {
	ID         string
	DocumentID string
	Name       string
	Page       int64
	HeaderJSON string
	RowsJSON   string
}

func (q *Queries) UpsertTable(ctx context.Context, p UpsertTableParams) error {
	_, err := q.db.ExecContext(ctx, upsertTable,
		p.ID, p.DocumentID, p.Name, p.Page, p.HeaderJSON, p.RowsJSON)
	return err
}

const getTable = `
SELECT id, document_id, name, page, header_json, rows_json, synced, sync_attempts, created_at
FROM document_tables WHERE id = ?`

func (q *Queries) GetTable(ctx context.Context, id string) (DocumentTable, error) {
	var t DocumentTable
	err := q.db.QueryRowContext(ctx, getTable, id).Scan(
		&t.ID, &t.DocumentID, &t.Name, &t.Page, &t.HeaderJSON, &t.RowsJSON,
		&t.Synced, &t.SyncAttempts, &t.CreatedAt)
	return t, err
}

const listByDocument = `
SELECT id, document_id, name, page, header_json, rows_json, synced, sync_attempts, created_at
FROM document_tables WHERE document_id = ? ORDER BY rowid`

const listByDocumentPage = `
SELECT id, document_id, name, page, header_json, rows_json, synced, sync_attempts, created_at
FROM document_tables WHERE document_id = ? AND page = ? ORDER BY rowid`

// ListByDocument returns a document's tables in registration order.
// page 0 returns all pages.
func (q *Queries) ListByDocument(ctx context.Context, documentID string, page int64) ([]DocumentTable, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if page > 0 {
		rows, err = q.db.QueryContext(ctx, listByDocumentPage, documentID, page)
	} else {
		rows, err = q.db.QueryContext(ctx, listByDocument, documentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentTable
	for rows.Next() {
		var t DocumentTable
		if err := rows.Scan(&t.ID, &t.DocumentID, &t.Name, &t.Page, &t.HeaderJSON,
			&t.RowsJSON, &t.Synced, &t.SyncAttempts, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const countByDocument = `SELECT COUNT(*) FROM document_tables WHERE document_id = ?`

func (q *Queries) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countByDocument, documentID).Scan(&n)
	return n, err
}

const getPendingSync = `
SELECT id, document_id, name, page, header_json, rows_json, synced, sync_attempts, created_at
FROM document_tables WHERE synced = 0 ORDER BY rowid LIMIT ?`

func (q *Queries) GetPendingSyncTables(ctx context.Context, limit int64) ([]DocumentTable, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSync, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentTable
	for rows.Next() {
		var t DocumentTable
		if err := rows.Scan(&t.ID, &t.DocumentID, &t.Name, &t.Page, &t.HeaderJSON,
			&t.RowsJSON, &t.Synced, &t.SyncAttempts, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const markSynced = `
UPDATE document_tables SET synced = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) MarkTableSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markSynced, id)
	return err
}

const markSyncError = `
UPDATE document_tables SET sync_attempts = sync_attempts + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) MarkTableSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markSyncError, id)
	return err
}
