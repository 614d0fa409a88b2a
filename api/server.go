// Package api exposes the extraction pipeline over HTTP.
// It is enabled through the serve command or used programmatically.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aqlanhadi/recon/export"
	"github.com/aqlanhadi/recon/extractor"
	"github.com/aqlanhadi/recon/extractor/analyzer"
	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/aqlanhadi/recon/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Opener turns an uploaded file into a Document.
type Opener func(r io.ReaderAt, size int64, layout common.LayoutConfig) (common.Document, error)

func openPDF(r io.ReaderAt, size int64, layout common.LayoutConfig) (common.Document, error) {
	doc, err := common.NewPDFDocument(r, size, layout)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Config holds the API server configuration
type Config struct {
	Port           string
	MaxUploadBytes int64
	Layout         common.LayoutConfig
	Logger         zerolog.Logger
	Open           Opener
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:           ":8080",
		MaxUploadBytes: 32 << 20,
		Layout:         common.DefaultLayout(),
		Logger:         zerolog.Nop(),
		Open:           openPDF,
	}
}

// Server represents the HTTP API server
type Server struct {
	config Config
	router *chi.Mux
}

// New creates a new API server with the given configuration
func New(cfg Config) *Server {
	if cfg.Open == nil {
		cfg.Open = openPDF
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/extract/{kind}", s.handleExtract)
	s.router.Post("/analyze", s.handleAnalyze)
}

// Handler returns the http.Handler for the server
// This allows the server to be used with custom http.Server configurations
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	s.config.Logger.Info().Str("addr", s.config.Port).Msg("starting server")
	srv := &http.Server{
		Addr:              s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		log := s.config.Logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	log := logger.FromContext(r.Context())
	log.Debug().Err(err).Int("status", status).Msg("request failed")
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleExtract runs one extractor over the uploaded PDF and returns the CSV.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	kind, err := extractor.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}

	if err := s.parseForm(w, r); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	opts := s.parseExtractOptions(r)
	if err := opts.Validate(); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	doc, name, err := s.openUpload(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	defer doc.Close()
	opts.Source = name

	result, err := extractor.Run(r.Context(), doc, kind, opts)
	switch {
	case errors.Is(err, export.ErrNoData):
		s.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	data, err := export.MarshalCSV(result.Rows)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%s.csv", kind, opts.Period)))
	w.Header().Set("X-Run-ID", result.Summary.RunID)
	w.Header().Set("X-Row-Count", strconv.Itoa(result.Summary.Rows))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleAnalyze returns the analyzer report for the uploaded PDF as JSON.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	page := 0
	if v := coalesce(r.FormValue("page"), r.URL.Query().Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid page %q", v))
			return
		}
		page = n
	}

	doc, name, err := s.openUpload(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	defer doc.Close()

	analysis, err := analyzer.Analyze(r.Context(), doc, page)
	switch {
	case errors.Is(err, common.ErrPageOutOfRange):
		s.fail(w, r, http.StatusBadRequest, err)
		return
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	analysis.Source = name

	render.JSON(w, r, analysis)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		return fmt.Errorf("could not parse multipart form: %w", err)
	}
	return nil
}

// openUpload buffers the "file" part in memory and opens it as a document.
func (s *Server) openUpload(r *http.Request) (common.Document, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("could not get uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("could not read file: %w", err)
	}

	doc, err := s.config.Open(bytes.NewReader(data), int64(len(data)), s.config.Layout)
	if err != nil {
		return nil, "", err
	}
	return doc, header.Filename, nil
}

// parseExtractOptions reads run parameters from form values or query params
func (s *Server) parseExtractOptions(r *http.Request) extractor.Options {
	q := r.URL.Query()
	return extractor.Options{
		Period:      coalesce(r.FormValue("period"), q.Get("period")),
		Currency:    coalesce(r.FormValue("currency"), q.Get("currency")),
		AccountCode: coalesce(r.FormValue("account"), q.Get("account")),
	}
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
