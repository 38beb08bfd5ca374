package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amosWeiskopf/linksmith/internal/config"
	"github.com/amosWeiskopf/linksmith/internal/models"
	"github.com/amosWeiskopf/linksmith/pkg/analyzer"
	"github.com/amosWeiskopf/linksmith/pkg/crawler"
	"github.com/amosWeiskopf/linksmith/pkg/reporter"
)

const maxRequestBytes = 1 << 20

// Checker is the part of *crawler.Crawler the server needs
type Checker interface {
	Crawl(ctx context.Context, rawURL string) (*models.CrawlReport, error)
}

// Server exposes link checks over HTTP
type Server struct {
	cfg      config.ServerConfig
	checker  Checker
	analyzer *analyzer.Analyzer
	logger   logrus.FieldLogger
}

type checkRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a Server
func New(cfg config.ServerConfig, checker Checker, logger logrus.FieldLogger) *Server {
	return &Server{
		cfg:      cfg,
		checker:  checker,
		analyzer: analyzer.New(),
		logger:   logger,
	}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/healthz", s.handleHealth)
	m.HandleFunc("/api/check", s.handleCheck)
	return s.logRequests(m)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", srv.Addr).Info("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleCheck accepts GET ?url= or POST {"url": ...}
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var raw string
	switch r.Method {
	case http.MethodGet:
		raw = r.URL.Query().Get("url")
	case http.MethodPost:
		var req checkRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		raw = req.URL
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	if strings.TrimSpace(raw) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "please provide a URL"})
		return
	}

	report, err := s.checker.Crawl(r.Context(), raw)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, crawler.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, reporter.Document{
		Report:    report,
		Breakdown: s.analyzer.Analyze(report),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs requests and their durations
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}
