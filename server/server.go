// Package server renders clip statistics charts over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Source provides the dataset to render.
type Source interface {
	Current() backend.Session
}

// DefaultWidth is used when a request does not name a width.
const DefaultWidth = 600

type Server struct {
	cfg     config.Server
	source  Source
	log     logrus.FieldLogger
	router  chi.Router
	metrics *metrics
}

func New(cfg config.Server, source Source, log logrus.FieldLogger) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		log:    log,
		router: chi.NewRouter(),
	}
	reg := prometheus.NewRegistry()
	_ = reg.Register(collectors.NewGoCollector())
	_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.metrics = newMetrics(reg, source)
	s.registerRoutes(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) registerRoutes(metricsHandler http.Handler) {
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.loggingMiddleware)
	if len(s.cfg.AllowOrigin) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowOrigin,
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			MaxAge:         300,
		}))
	}

	s.router.MethodFunc(http.MethodGet, "/healthz", s.healthz)
	s.router.Method(http.MethodGet, "/metrics", metricsHandler)
	s.router.MethodFunc(http.MethodGet, "/dataset", s.dataset)
	s.router.MethodFunc(http.MethodGet, "/clips-stats.svg", s.instrument("svg", s.clipsStatsSVG))
	s.router.MethodFunc(http.MethodGet, "/clips-stats.png", s.instrument("png", s.clipsStatsPNG))
	s.router.MethodFunc(http.MethodGet, "/clips-stats.json", s.instrument("json", s.clipsStatsJSON))
}

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
	errs := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.ListenAddr).Info("serving")
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed shutting down: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.log.WithFields(logrus.Fields{
					"path":  r.URL.Path,
					"panic": rec,
				}).Error("handler panicked")
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
