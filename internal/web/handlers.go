package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/web/views"
)

// handleIndex renders the entity index page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	groups := make([]views.Group, 0)
	byGroup := s.service.EntitiesByGroup()
	for _, name := range catalog.Groups() {
		groups = append(groups, views.Group{Name: name, Entities: byGroup[name]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Index(groups).Render(r.Context(), w); err != nil {
		slog.Error("render index", "error", err)
	}
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Entities())
}

// handleTemplate downloads the header-only CSV for an entity.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	if _, err := catalog.Lookup(entity); err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, entity))
	if err := s.service.Template(entity, w); err != nil {
		slog.Error("write template", "entity", entity, "error", err)
	}
}

// handleImport runs an uploaded CSV through the entity's import. With
// dry_run=1 the file is only validated.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			respondError(w, r, fmt.Errorf("%w: %v", errFileTooBig, err), http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", errNoFile, err), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	// UploadSource reopens the part itself.
	file.Close()

	ctx := withClient(r.Context(), r)
	src := porter.UploadSource{Header: header}

	var run *core.ImportRun
	if parseBool(r.FormValue("dry_run")) {
		run, err = s.service.Validate(ctx, entity, src)
	} else {
		run, err = s.service.Import(ctx, entity, src)
	}
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	status := http.StatusOK
	if run.Result.Err != nil {
		status = http.StatusUnprocessableEntity
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(toResponse(run))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.ImportResult(run, core.MapError(run.Result.Err)).Render(r.Context(), w); err != nil {
		slog.Error("render import result", "error", err)
	}
}

// handleImportRun returns a retained import run.
func (s *Server) handleImportRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Run(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, toResponse(run))
}

// handleImportErrors downloads the rejected rows of a run as CSV.
func (s *Server) handleImportErrors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.service.Run(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_errors_%s.csv"`, run.Entity, run.StartedAt.Format("20060102_150405")))
	if err := s.service.ErrorLog(id, w); err != nil {
		slog.Error("write error log", "run_id", id, "error", err)
	}
}

// handleExport builds an export file. The response is {"url": ...}, or a
// redirect to the file when download=1.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = string(porter.FormatCSV)
	}

	url, err := s.service.Export(r.Context(), entity, core.ExportRequest{
		Format: format,
		Search: q.Get("search"),
		Limit:  uint64(parseIntParam(r, "limit", 0)),
		Title:  q.Get("title"),
		View:   q.Get("view"),
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if parseBool(q.Get("download")) {
		http.Redirect(w, r, url, http.StatusSeeOther)
		return
	}
	writeJSON(w, map[string]string{"url": url})
}

func (s *Server) handleJobsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.LimiterStatus())
}

// ImportResponse is the JSON shape of an import run.
type ImportResponse struct {
	ID        string   `json:"id"`
	Entity    string   `json:"entity"`
	FileName  string   `json:"file_name"`
	DryRun    bool     `json:"dry_run"`
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
	Headers   []string `json:"headers"`
	Duration  string   `json:"duration"`
	ErrorsURL string   `json:"errors_url,omitempty"`

	// Problem is set when the run aborted.
	Problem *core.UserMessage `json:"problem,omitempty"`
}

func toResponse(run *core.ImportRun) ImportResponse {
	res := run.Result
	resp := ImportResponse{
		ID:        run.ID,
		Entity:    run.Entity,
		FileName:  run.FileName,
		DryRun:    run.DryRun,
		Success:   res.Success,
		Processed: res.Processed,
		Skipped:   res.Skipped,
		Errors:    res.Errors,
		Headers:   res.Headers,
		Duration:  run.Duration.String(),
	}
	if len(res.Errors) > 0 {
		resp.ErrorsURL = "/api/import/" + run.ID + "/errors"
	}
	if res.Err != nil {
		msg := core.MapError(res.Err)
		resp.Problem = &msg
	}
	return resp
}

// parseIntParam parses a non-negative integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
