package web

// handlers.go implements the export/import endpoints. Handlers translate
// HTTP into engine calls: the interchange package does the format work, the
// Inventory collaborator does the persistence work, and everything else here
// is request plumbing.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nestory-app/nestory/internal/interchange"
	"github.com/nestory-app/nestory/internal/logging"
	"github.com/nestory-app/nestory/internal/store"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExport snapshots the inventory and serves it as a downloadable
// archive. ?format=json (default) or ?format=csv.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format))
		return
	}

	collections, err := s.inventory.Snapshot(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read inventory")
		return
	}

	now := time.Now()
	var (
		body        []byte
		contentType string
	)
	switch format {
	case "json":
		body, err = interchange.ExportJSON(collections, s.cfg.Export.AppVersion, now)
		contentType = "application/json"
	case "csv":
		body, err = interchange.ExportCSV(collections.Items)
		contentType = "text/csv"
	}
	if err != nil {
		logging.FromContext(ctx).Error("export failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build archive")
		return
	}

	filename := interchange.ExportFilename(format, now)
	logging.FromContext(ctx).Info("export served",
		"format", format, "filename", filename, "items", len(collections.Items))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// analyzeRequest is the body of POST /api/import/analyze.
type analyzeRequest struct {
	Headers []string `json:"headers"`
}

// handleAnalyze maps a header row to target fields and returns the full
// mapping result, confidences included, for the caller to review and
// correct before committing to a CSV import.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSONBody(w, r, s.cfg.Import.MaxFileSize, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Headers) == 0 {
		writeError(w, http.StatusBadRequest, "headers must not be empty")
		return
	}

	result := interchange.AnalyzeHeaders(req.Headers)
	logging.FromContext(r.Context()).Info("headers analyzed",
		"columns", len(result.Columns), "unmapped", len(result.UnmappedColumns), "valid", result.Valid)
	writeJSON(w, http.StatusOK, result)
}

// importResponse is the body returned by both import endpoints.
type importResponse struct {
	Summary string                   `json:"summary"`
	Result  interchange.ImportResult `json:"result"`
	Applied store.ApplyStats         `json:"applied"`
}

// handleImportJSON validates a JSON archive and applies the importable
// records. ?strategy=merge (default) or ?strategy=replace.
func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	strategy, err := store.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := readBody(w, r, s.cfg.Import.MaxFileSize)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	result, err := interchange.ImportJSON(body)
	if err != nil {
		writeError(w, importStatus(err), err.Error())
		return
	}

	s.applyAndRespond(w, r, result, strategy)
}

// handleImportCSV parses an uploaded CSV through a caller-finalized mapping
// and applies the importable rows. Multipart form: "file" is the CSV,
// "mapping" is the JSON MappingResult from a prior analyze call (plus any
// manual corrections).
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	strategy, err := store.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading file: "+err.Error())
		return
	}

	mappingJSON := r.FormValue("mapping")
	if mappingJSON == "" {
		writeError(w, http.StatusBadRequest, "missing mapping field")
		return
	}
	var mapping interchange.MappingResult
	if err := unmarshalStrict([]byte(mappingJSON), &mapping); err != nil {
		writeError(w, http.StatusBadRequest, "invalid mapping: "+err.Error())
		return
	}

	result, err := interchange.ImportCSV(data, mapping)
	if err != nil {
		writeError(w, importStatus(err), err.Error())
		return
	}

	s.applyAndRespond(w, r, result, strategy)
}

// applyAndRespond persists an import result and writes the combined
// response. Per-record errors ride along in the body; they never block the
// records that did validate.
func (s *Server) applyAndRespond(w http.ResponseWriter, r *http.Request, result interchange.ImportResult, strategy store.RestoreStrategy) {
	ctx := r.Context()
	log := logging.WithFields(ctx, "strategy", string(strategy))

	stats, err := s.inventory.Apply(ctx, result, strategy)
	if err != nil {
		log.Error("apply failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist import")
		return
	}

	log.Info("import applied",
		"items", stats.Items, "categories", stats.Categories,
		"rooms", stats.Rooms, "receipts", stats.Receipts,
		"errors", len(result.Errors))

	writeJSON(w, http.StatusOK, importResponse{
		Summary: result.Summary(),
		Result:  result,
		Applied: stats,
	})
}

// importStatus maps engine import failures to HTTP status codes.
func importStatus(err error) int {
	switch {
	case errors.Is(err, interchange.ErrInvalidArchive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interchange.ErrInvalidMapping):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// readBody reads a request body under a byte limit.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("request body too large or unreadable (limit %d bytes)", limit)
	}
	return data, nil
}

// decodeJSONBody decodes a size-limited JSON request body into dst,
// rejecting unknown top-level fields.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	data, err := readBody(w, r, limit)
	if err != nil {
		return err
	}
	return unmarshalStrict(data, dst)
}

// unmarshalStrict is json.Unmarshal with unknown fields rejected, so typos
// in client payloads fail loudly instead of silently dropping data.
func unmarshalStrict(data []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
