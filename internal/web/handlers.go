package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bookshophere/bookshop/internal/core"
	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/bookshophere/bookshop/internal/logging"
	"github.com/go-chi/chi/v5"
)

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.Ping(ctx); err != nil {
		s.respondError(w, r, fmt.Errorf("database ping: %w", err), http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

// uploadResponse is the envelope for a successful upload preview.
type uploadResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *importer.Outcome `json:"data"`
}

// handleUpload parses an uploaded file and returns the classified preview:
// detected format, per-sheet record types with confidence, suggested column
// mappings, and the parsed records grouped by type. Nothing is persisted.
// Partial per-sheet failures still return 200 with the errors embedded.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, r, errors.New("file too large"), http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		s.respondError(w, r, errors.New("empty file"), http.StatusBadRequest)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("parsing uploaded file",
		"filename", header.Filename,
		"size", len(data),
	)

	outcome, err := importer.Process(importer.RawFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		s.respondError(w, r, err, status)
		return
	}

	logger.Info("file parsed",
		"filename", header.Filename,
		"file_type", outcome.FileType,
		"sheets", len(outcome.Sheets),
	)

	respondJSON(w, r, uploadResponse{
		Success: true,
		Message: fmt.Sprintf("parsed %d sheet(s) from %s", len(outcome.Sheets), header.Filename),
		Data:    outcome,
	}, http.StatusOK)
}

// handleProcess validates a confirmed import and persists it.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req core.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode request: %w", err), http.StatusBadRequest)
		return
	}

	total := 0
	for _, records := range req.DataByType {
		total += len(records)
	}
	if total == 0 {
		s.respondError(w, r, errors.New("no records to import"), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	result, err := s.service.ProcessImport(ctx, req)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("import processed",
		"filename", req.Filename,
		"file_type", req.FileType,
		"records", total,
		"successful", result.Summary.Successful,
		"failed", result.Summary.Failed,
	)

	respondJSON(w, r, result, http.StatusOK)
}

// handleTemplate streams a generated XLSX import template for one record type.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	recordType := importer.DomainType(chi.URLParam(r, "recordType"))
	if !validDomainType(recordType) {
		s.respondError(w, r, fmt.Errorf("unknown record type: %s", recordType), http.StatusNotFound)
		return
	}

	data, err := core.BuildTemplate(recordType)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", core.TemplateFilename(recordType)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleListImports returns recent import runs, newest first.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("invalid limit: %q", raw), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := s.service.RecentRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []core.ImportRun{}
	}

	respondJSON(w, r, map[string]any{"imports": runs}, http.StatusOK)
}

func validDomainType(t importer.DomainType) bool {
	for _, known := range importer.DomainTypes {
		if t == known {
			return true
		}
	}
	return false
}
