package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/retype/internal/analysis"
	"github.com/verte-zerg/retype/internal/model"
	"github.com/verte-zerg/retype/internal/report"
	"github.com/verte-zerg/retype/internal/stats"
	"github.com/verte-zerg/retype/internal/store"
	"github.com/verte-zerg/retype/internal/textsource"
)

// Store is the persistence used by the handlers.
type Store interface {
	InsertTest(ctx context.Context, rec model.TestRecord) (string, error)
	GetTest(ctx context.Context, id string) (model.TestRecord, error)
	ListTests(ctx context.Context, cfg model.HistoryConfig) ([]model.TestRecord, error)
	DeleteTest(ctx context.Context, id string) (bool, error)
}

type analyzeRequest struct {
	Reference      string  `json:"reference"`
	Typed          string  `json:"typed"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

type diffRequest struct {
	Reference string `json:"reference"`
	Typed     string `json:"typed"`
}

type createTestRequest struct {
	Title          string  `json:"title"`
	Source         string  `json:"source"`
	Filename       string  `json:"filename"`
	Reference      string  `json:"reference"`
	Typed          string  `json:"typed"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

type summaryResponse struct {
	model.Summary
	WeakChars []stats.CharCount `json:"weakChars"`
	TopWords  []string          `json:"topWords"`
}

// Handler serves the JSON API.
type Handler struct {
	store       Store
	baselineWPM int
	now         func() time.Time
}

// NewHandler builds API handlers. st may be nil, which disables /api/tests.
func NewHandler(st Store, baselineWPM int) *Handler {
	if baselineWPM <= 0 {
		baselineWPM = analysis.DefaultBaselineWPM
	}
	return &Handler{store: st, baselineWPM: baselineWPM, now: time.Now}
}

// Analyze handles POST /api/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ElapsedSeconds < 0 {
		WriteError(w, http.StatusBadRequest, "elapsedSeconds must not be negative")
		return
	}
	JSONResponse(w, http.StatusOK, analysis.AnalyzeWithBaseline(req.Reference, req.Typed, req.ElapsedSeconds, h.baselineWPM))
}

// Diff handles POST /api/diff.
func (h *Handler) Diff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	JSONResponse(w, http.StatusOK, analysis.ComputeDiff(req.Reference, req.Typed))
}

// CreateTest handles POST /api/tests.
func (h *Handler) CreateTest(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	var req createTestRequest
	if err := parseJSONBody(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ElapsedSeconds < 0 {
		WriteError(w, http.StatusBadRequest, "elapsedSeconds must not be negative")
		return
	}
	if strings.TrimSpace(req.Reference) == "" {
		WriteError(w, http.StatusBadRequest, "reference is required")
		return
	}
	source := req.Source
	if source == "" {
		source = model.SourcePasted
	}
	title := req.Title
	if title == "" {
		title = textsource.TitleFor(req.Filename)
	}
	rec := model.TestRecord{
		Title:       title,
		Source:      source,
		Filename:    req.Filename,
		Reference:   req.Reference,
		Typed:       req.Typed,
		Result:      analysis.AnalyzeWithBaseline(req.Reference, req.Typed, req.ElapsedSeconds, h.baselineWPM),
		CompletedAt: h.now().UTC(),
	}
	id, err := h.store.InsertTest(r.Context(), rec)
	if err != nil {
		slog.Error("failed to insert test", "error", err)
		WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	rec.ID = id
	JSONResponse(w, http.StatusCreated, rec)
}

// ListTests handles GET /api/tests.
func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	cfg, err := historyConfigFromQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.store.ListTests(r.Context(), cfg)
	if err != nil {
		slog.Error("failed to list tests", "error", err)
		WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	JSONResponse(w, http.StatusOK, records)
}

// Summary handles GET /api/tests/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	cfg, err := historyConfigFromQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.store.ListTests(r.Context(), cfg)
	if err != nil {
		slog.Error("failed to list tests", "error", err)
		WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	JSONResponse(w, http.StatusOK, summaryResponse{
		Summary:   stats.Summarize(records),
		WeakChars: stats.WeakChars(records, 8),
		TopWords:  stats.TopMistakeWords(records, 5),
	})
}

// GetTest handles GET /api/tests/{id}.
func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadTest(w, r)
	if !ok {
		return
	}
	JSONResponse(w, http.StatusOK, rec)
}

// DeleteTest handles DELETE /api/tests/{id}.
func (h *Handler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	deleted, err := h.store.DeleteTest(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("failed to delete test", "error", err)
		WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Test not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Report handles GET /api/tests/{id}/report.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadTest(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = report.FormatText
	}
	contentType := "text/plain; charset=utf-8"
	switch format {
	case report.FormatText:
	case report.FormatJSON:
		contentType = "application/json"
	case report.FormatYAML:
		contentType = "application/yaml"
	default:
		WriteError(w, http.StatusBadRequest, "format must be text, json or yaml")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(rec.CompletedAt, format)+`"`)
	if err := report.Write(w, format, rec); err != nil {
		slog.Error("failed to write report", "error", err, "id", rec.ID)
	}
}

func (h *Handler) loadTest(w http.ResponseWriter, r *http.Request) (model.TestRecord, bool) {
	if !h.requireStore(w) {
		return model.TestRecord{}, false
	}
	rec, err := h.store.GetTest(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Test not found")
		return model.TestRecord{}, false
	}
	if err != nil {
		slog.Error("failed to get test", "error", err)
		WriteError(w, http.StatusInternalServerError, "Database error")
		return model.TestRecord{}, false
	}
	return rec, true
}

func (h *Handler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		WriteError(w, http.StatusServiceUnavailable, "history storage is disabled")
		return false
	}
	return true
}

func historyConfigFromQuery(r *http.Request) (model.HistoryConfig, error) {
	q := r.URL.Query()
	var cfg model.HistoryConfig
	var err error
	if cfg.SortBy, err = stats.ParseSort(q.Get("sort")); err != nil {
		return cfg, err
	}
	if cfg.Filter, err = stats.ParseFilter(q.Get("filter")); err != nil {
		return cfg, err
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, errors.New("limit must be a non-negative integer")
		}
		cfg.Limit = n
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return cfg, errors.New("since must be YYYY-MM-DD")
		}
		cfg.Since = &t
	}
	return cfg, nil
}
