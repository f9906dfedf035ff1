package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/couchcryptid/storm-event-annotator/internal/pipeline"
)

// AnnotationSource serves the results of the latest annotation pass.
type AnnotationSource interface {
	sharedobs.ReadinessChecker
	Latest() (*pipeline.Report, error)
	Annotations(seriesID string) ([]domain.Annotation, error)
}

// Server exposes health, readiness, metrics, and annotation HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     AnnotationSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /annotations routes.
func NewServer(addr string, source AnnotationSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(source))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /annotations", s.handleAnnotations)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleAnnotations returns one series' annotations when ?series= is given,
// otherwise the whole latest report.
func (s *Server) handleAnnotations(w http.ResponseWriter, r *http.Request) {
	seriesID := r.URL.Query().Get("series")
	if seriesID == "" {
		report, err := s.source.Latest()
		if err != nil {
			s.writeError(w, err)
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, report)
		return
	}

	annotations, err := s.source.Annotations(seriesID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if annotations == nil {
		annotations = []domain.Annotation{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, annotations)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrUnknownSeries):
		status = http.StatusNotFound
	default:
		s.logger.Error("annotation lookup failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
