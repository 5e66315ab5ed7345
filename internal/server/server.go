// Package server implements the anchor HTTP API.
//
// Routes:
//
//	GET  /healthz        build info
//	GET  /v1/placements  the placement set and stage types
//	POST /v1/position    resolve a JSON scene
//	POST /v1/sweep       sweep a JSON scene along one scroll axis
//
// Request bodies are scene documents in the same JSON format as scene files
// and are checked against the same schema. Errors are JSON bodies carrying
// the error code; see package httputil for the status mapping.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/anchor/pkg/cache"
	"github.com/matzehuels/anchor/pkg/httputil"
	"github.com/matzehuels/anchor/pkg/observability"
	"github.com/matzehuels/anchor/pkg/scene"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	resolver *scene.Resolver
	logger   *log.Logger
	router   chi.Router
}

// New returns a server resolving scenes through resolver.
func New(cfg Config, resolver *scene.Resolver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if resolver == nil {
		resolver = scene.NewResolver(nil, cfg.CacheTTL, logger)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	s := &Server{cfg: cfg, resolver: resolver, logger: logger}
	s.router = s.routes()
	return s
}

// NewCache opens the cache named by cfg: Redis when RedisAddr is set,
// otherwise a cache that stores nothing.
func NewCache(ctx context.Context, cfg Config) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.CacheNamespace)
	if cfg.RedisAddr == "" {
		return cache.NewNullCache(), keyer, nil
	}
	c, err := cache.NewRedisCache(ctx, cfg.RedisConfig())
	if err != nil {
		return nil, nil, err
	}
	return c, keyer, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/placements", s.handlePlacements)
		r.Post("/position", s.handlePosition)
		r.Post("/sweep", s.handleSweep)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.router,
		ReadTimeout: s.cfg.ReadTimeout,
		// Sweeps may take a while; the write timeout bounds them.
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestID accepts the caller's request ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(httputil.WithRequestID(r.Context(), id)))
	})
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
			"request_id", httputil.RequestID(r.Context()),
		)
	})
}
