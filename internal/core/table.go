package core

import (
	"errors"
	"strings"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrEmptyTableID  = errors.New("empty table id")
	ErrEmptyDocument = errors.New("empty document id")
	ErrNoTablesGiven = errors.New("no table ids given")
	ErrInvalidPage   = errors.New("invalid page number")
	ErrUnknownFormat = errors.New("unknown view format")
	ErrUnknownExport = errors.New("unknown export format")
)

type (
	// Table is one extracted table from a document page. Header and Rows
	// arrive from the extraction pipeline as-is; rows may be shorter than
	// the header and consumers must tolerate that.
	Table struct {
		ID         string     `json:"id"`
		DocumentID string     `json:"document_id"`
		Name       string     `json:"name"`
		Page       int        `json:"page"`
		Header     []string   `json:"header"`
		Rows       [][]string `json:"rows"`
	}

	// TableRef identifies a table inside a derived view payload.
	TableRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
)

func (t Table) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyTableID
	}
	if strings.TrimSpace(t.DocumentID) == "" {
		return ErrEmptyDocument
	}
	if t.Page < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Ref returns the lightweight reference used by comparison payloads.
func (t Table) Ref() TableRef {
	return TableRef{ID: t.ID, Name: t.Name}
}

// RowCount returns the number of data rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the header width.
func (t Table) ColCount() int {
	return len(t.Header)
}
