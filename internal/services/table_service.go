package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"doctab/internal/core"
	"doctab/internal/export"
	"doctab/internal/tables"
	"doctab/internal/views"
)

// SyncPublisher queues a saved table for spreadsheet mirroring.
// Satisfied by *amqp.Client; nil disables publishing.
type SyncPublisher interface {
	PublishTableSync(ctx context.Context, tableID, documentID string) error
}

// TableService orchestrates table operations across the repository and AMQP
type TableService struct {
	repo      tables.Repository
	publisher SyncPublisher
}

func NewTableService(repo tables.Repository, publisher SyncPublisher) *TableService {
	return &TableService{
		repo:      repo,
		publisher: publisher,
	}
}

// IngestTable saves a table locally and publishes a sync message
func (s *TableService) IngestTable(ctx context.Context, t core.Table) error {
	// Save to the repository first (fast, reliable)
	if err := s.repo.SaveTable(ctx, t); err != nil {
		return fmt.Errorf("save table: %w", err)
	}

	// Publish async sync message (non-blocking)
	if err := s.publishSyncMessage(ctx, t.ID, t.DocumentID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"table_id", t.ID, "error", err)
		// Don't fail the request - table is saved locally
	}

	return nil
}

// ListTables returns the tables of a document, optionally filtered by page.
// Page 0 means all pages.
func (s *TableService) ListTables(ctx context.Context, documentID string, page int) ([]core.Table, error) {
	return s.repo.ListTables(ctx, documentID, page)
}

// GetTable returns a single table by id.
func (s *TableService) GetTable(ctx context.Context, tableID string) (core.Table, error) {
	return s.repo.GetTableByID(ctx, tableID)
}

// GenerateView builds a view over the given table ids.
func (s *TableService) GenerateView(ctx context.Context, tableIDs []string, format core.ViewFormat, opts views.Options) (core.View, error) {
	return views.Generate(ctx, s.repo, tableIDs, format, opts)
}

// ExportTable renders one table in the requested export format.
func (s *TableService) ExportTable(ctx context.Context, tableID string, format core.ExportFormat) ([]byte, error) {
	t, err := s.repo.GetTableByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return export.Table(t, format)
}

func (s *TableService) publishSyncMessage(ctx context.Context, tableID, documentID string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message")
		return nil
	}

	return s.publisher.PublishTableSync(ctx, tableID, documentID)
}

// Close closes the repository and publisher when they hold resources
func (s *TableService) Close() error {
	var errs []error

	if c, ok := s.repo.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close table service: %v", errs)
	}

	return nil
}
