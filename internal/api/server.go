// Package api exposes the HTTP interface for the crawler service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jmartel/sitetext/internal/crawler"
	"github.com/jmartel/sitetext/internal/logging"
	"github.com/jmartel/sitetext/internal/metrics"
)

// BatchRunner runs one batch crawl. The production implementation is
// crawler.Batch; tests inject a stub.
type BatchRunner interface {
	Run(ctx context.Context, startURLs []string, params crawler.Params) (crawler.BatchResult, error)
}

// Defaults are applied to upload requests that omit a knob. The upload path
// historically defaults to a higher per-site concurrency than the CLI.
type Defaults struct {
	OutputDir      string
	MaxConcurrency int
	MaxDepth       int
	Workers        int
}

// Server wires HTTP handlers to the batch orchestrator.
type Server struct {
	router   chi.Router
	runner   BatchRunner
	defaults Defaults
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(runner BatchRunner, defaults Defaults, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runner:   runner,
		defaults: defaults,
		logger:   logger,
	}

	metrics.Init()

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/crawls", s.submitCrawl)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type crawlResponse struct {
	Status       string                        `json:"status"`
	TotalURLs    int                           `json:"total_urls"`
	Sites        map[string]crawler.SiteResult `json:"site_crawl_results"`
	MetadataPath string                        `json:"metadata_path,omitempty"`
	SkippedLines []string                      `json:"skipped_lines,omitempty"`
}

// submitCrawl accepts an uploaded list of start URLs (one absolute http(s)
// URL per line) plus optional form overrides, runs the batch synchronously,
// and returns the combined summary.
func (s *Server) submitCrawl(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("urls")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing urls file")
		return
	}
	defer file.Close() //nolint:errcheck // read-only upload

	urls, skipped := crawler.ParseURLList(file)
	if len(urls) == 0 {
		writeJSON(w, http.StatusOK, crawlResponse{
			Status:       "warning",
			Sites:        map[string]crawler.SiteResult{},
			SkippedLines: skipped,
		})
		return
	}

	params, err := s.toParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), urls, params)
	if err != nil {
		s.logger.Error("batch run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, crawlResponse{
		Status:       "completed",
		TotalURLs:    result.TotalURLs,
		Sites:        result.Sites,
		MetadataPath: result.MetadataPath,
		SkippedLines: skipped,
	})
}

func (s *Server) toParams(r *http.Request) (crawler.Params, error) {
	params := crawler.Params{
		OutputDir:      s.defaults.OutputDir,
		MaxConcurrency: s.defaults.MaxConcurrency,
		MaxDepth:       s.defaults.MaxDepth,
		Workers:        s.defaults.Workers,
	}
	if dir := r.FormValue("output_dir"); dir != "" {
		params.OutputDir = dir
	}
	if v := r.FormValue("max_concurrency_per_site"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return crawler.Params{}, errInvalidField("max_concurrency_per_site", "must be an integer >= 1")
		}
		params.MaxConcurrency = n
	}
	if v := r.FormValue("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return crawler.Params{}, errInvalidField("max_depth", "must be an integer >= 0")
		}
		params.MaxDepth = n
	}
	return params, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already gone; nothing left to do but log.
		logging.L.Warn("encode response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
