package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"doctab/internal/core"
	applog "doctab/internal/log"
	"doctab/internal/views"
)

// handleTables dispatches /tables: GET lists a document's tables,
// POST ingests one.
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTables(w, r)
	case http.MethodPost:
		s.handleIngestTable(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	documentID := sanitizeInput(r.URL.Query().Get("document_id"))
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "document_id is required")
		return
	}

	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := listCacheKey(documentID, page)
	if tabs, found := s.listCache.Get(key); found {
		slog.DebugContext(r.Context(), "Table list cache hit",
			applog.FieldDocumentID, documentID, applog.FieldPage, page)
		writeJSON(w, http.StatusOK, tabs)
		return
	}

	tabs, err := s.service.ListTables(r.Context(), documentID, page)
	if err != nil {
		slog.ErrorContext(r.Context(), "List tables error",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err,
			applog.FieldDocumentID, documentID,
			applog.FieldPage, page)
		writeError(w, http.StatusInternalServerError, "failed to list tables")
		return
	}

	s.listCache.Set(key, tabs)
	writeJSON(w, http.StatusOK, tabs)
}

func (s *Server) handleIngestTable(w http.ResponseWriter, r *http.Request) {
	var t core.Table
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t.ID = sanitizeInput(t.ID)
	t.DocumentID = sanitizeInput(t.DocumentID)
	t.Name = sanitizeInput(t.Name)

	if err := s.service.IngestTable(r.Context(), t); err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Ingest table error", applog.NewFields().
			WithOperation(applog.OpIngest).
			WithError(err).
			WithTable(t.ID, t.DocumentID, t.Page).
			ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to save table")
		return
	}

	s.invalidateTable(t.ID)
	writeJSON(w, http.StatusCreated, t.Ref())
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tableID := sanitizeInput(r.URL.Query().Get("id"))
	if tableID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if t, found := s.tableCache.Get(tableID); found {
		slog.DebugContext(r.Context(), "Table cache hit", applog.FieldTableID, tableID)
		writeJSON(w, http.StatusOK, t)
		return
	}

	t, err := s.service.GetTable(r.Context(), tableID)
	if err != nil {
		if errors.Is(err, core.ErrTableNotFound) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		slog.ErrorContext(r.Context(), "Get table error",
			applog.FieldOperation, applog.OpRead,
			applog.FieldError, err,
			applog.FieldTableID, tableID)
		writeError(w, http.StatusInternalServerError, "failed to get table")
		return
	}

	s.tableCache.Set(tableID, t)
	writeJSON(w, http.StatusOK, t)
}

// viewRequest is the POST /views payload.
type viewRequest struct {
	TableIDs []string `json:"table_ids"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
}

func (s *Server) handleGenerateView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Unrecognized view types fall back to the default projection
	format, err := core.ParseViewFormat(strings.TrimSpace(req.Type))
	if err != nil {
		slog.WarnContext(r.Context(), "Unknown view type, using default",
			"requested_type", req.Type)
		format = core.FormatDefault
	}

	view, err := s.service.GenerateView(r.Context(), req.TableIDs, format, views.Options{
		Name: sanitizeInput(req.Name),
	})
	if err != nil {
		if errors.Is(err, core.ErrNoTablesGiven) {
			writeError(w, http.StatusBadRequest, "table_ids is required")
			return
		}
		slog.ErrorContext(r.Context(), "Generate view error",
			applog.FieldOperation, applog.OpGenerate,
			applog.FieldError, err,
			applog.FieldViewType, format.String(),
			"table_count", len(req.TableIDs))
		writeError(w, http.StatusInternalServerError, "failed to generate view")
		return
	}

	fields := applog.NewFields().
		WithOperation(applog.OpGenerate).
		WithView(view.ViewID(), view.ViewType().String())
	fields["table_count"] = len(req.TableIDs)
	slog.InfoContext(r.Context(), "View generated", fields.ToSlice()...)

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tableID := sanitizeInput(r.URL.Query().Get("table_id"))
	if tableID == "" {
		writeError(w, http.StatusBadRequest, "table_id is required")
		return
	}

	format, err := core.ParseExportFormat(strings.TrimSpace(r.URL.Query().Get("format")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.service.ExportTable(r.Context(), tableID, format)
	if err != nil {
		if errors.Is(err, core.ErrTableNotFound) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		slog.ErrorContext(r.Context(), "Export table error",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err,
			applog.FieldTableID, tableID,
			applog.FieldFormat, format.String())
		writeError(w, http.StatusInternalServerError, "failed to export table")
		return
	}

	filename := fmt.Sprintf("%s.%s", tableID, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)

	slog.InfoContext(r.Context(), "Table exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldTableID, tableID,
		applog.FieldFormat, format.String(),
		"bytes", len(data))
}

func listCacheKey(documentID string, page int) string {
	return documentID + "|" + strconv.Itoa(page)
}

// invalidateTable drops cached entries touched by an ingest. Table lists
// are keyed by document and page, so the whole list cache goes.
func (s *Server) invalidateTable(tableID string) {
	s.tableCache.Delete(tableID)
	s.listCache.Clear()
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyTableID) ||
		errors.Is(err, core.ErrEmptyDocument) ||
		errors.Is(err, core.ErrInvalidPage)
}
