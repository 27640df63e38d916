// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     server
// Description: HTTP server exposing the analysis websocket and a health check
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"github.com/msto63/minipas/pkg/core/cache"
	"github.com/msto63/minipas/pkg/core/config"
	"github.com/msto63/minipas/pkg/core/health"
	"github.com/msto63/minipas/pkg/core/version"
)

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	MaxSourceBytes int64
	ShutdownGrace  time.Duration
	CacheSize      int // 0 disables the result cache
	CacheTTL       time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return FromConfig(config.Default().Server)
}

// FromConfig converts the [server] config section
func FromConfig(sc config.ServerConfig) Config {
	return Config{
		Host:           sc.Host,
		Port:           sc.Port,
		ReadTimeout:    sc.ReadTimeout.Duration,
		MaxSourceBytes: sc.MaxSourceBytes,
		ShutdownGrace:  5 * time.Second,
		CacheSize:      sc.CacheSize,
		CacheTTL:       sc.CacheTTL.Duration,
	}
}

// Address returns host:port
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Options carries collaborators of the server
type Options struct {
	Logger  *mdwlog.Logger
	Catalog *messages.Catalog
}

// Server is the minipas analysis server
type Server struct {
	httpServer *http.Server
	logger     *mdwlog.Logger
	config     Config
	health     *health.Registry
	ws         *WebSocketHandler
}

// New creates a server. The catalog defaults to the embedded one.
func New(cfg Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.Discard()
	}
	logger = logger.WithField("component", "minipas-server")

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = messages.Load(); err != nil {
			return nil, mdwerror.Wrap(err, "failed to load message catalog").WithCode(mdwerror.CodeInternal)
		}
	}

	var results *cache.Cache[*minipas.Result]
	if cfg.CacheSize > 0 {
		results = cache.New[*minipas.Result](cache.Config{MaxItems: cfg.CacheSize, TTL: cfg.CacheTTL})
	}

	s := &Server{
		logger: logger,
		config: cfg,
		health: health.NewRegistry("minipas", version.Application),
		ws:     NewWebSocketHandler(catalog, logger, cfg.MaxSourceBytes, cfg.ReadTimeout, results),
	}
	s.registerChecks(catalog)

	mux := http.NewServeMux()
	mux.Handle("/ws", s.ws)
	mux.HandleFunc("/health", s.health.Handler(5*time.Second))

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer.RegisterOnShutdown(s.ws.CloseAll)

	return s, nil
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Health returns the registry behind GET /health
func (s *Server) Health() *health.Registry {
	return s.health
}

const selfTestProgram = "var x : integer;\nbegin\n  x := 1\nend."

func (s *Server) registerChecks(catalog *messages.Catalog) {
	s.health.RegisterFunc("catalog", func(ctx context.Context) health.CheckResult {
		locales := catalog.Locales()
		if len(locales) == 0 {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: "no locales loaded"}
		}
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Details: map[string]interface{}{"locales": locales},
		}
	})

	s.health.RegisterFunc("analyzer", func(ctx context.Context) health.CheckResult {
		res := minipas.Run(selfTestProgram, minipas.Options{})
		if !res.OK() || len(res.Symbols) != 1 {
			return health.CheckResult{Status: health.StatusUnhealthy, Message: "self-test program rejected"}
		}
		return health.CheckResult{
			Status: health.StatusHealthy,
			Details: map[string]interface{}{
				"language": version.Language,
				"protocol": version.Protocol,
			},
		}
	})

	if s.ws.results != nil {
		s.health.RegisterFunc("cache", func(ctx context.Context) health.CheckResult {
			stats := s.ws.results.Stats()
			return health.CheckResult{
				Status: health.StatusHealthy,
				Details: map[string]interface{}{
					"size":     stats.Size,
					"hits":     stats.Hits,
					"misses":   stats.Misses,
					"hit_rate": stats.HitRate,
				},
			}
		})
	}
}

// Run listens on the configured address and serves until ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeInternal).
			WithDetail("address", s.config.Address())
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Starting minipas server", mdwlog.Fields{
		"address": ln.Addr().String(),
		"version": version.Application,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return mdwerror.Wrap(err, "server stopped").WithCode(mdwerror.CodeInternal)

	case <-ctx.Done():
		grace := s.config.ShutdownGrace
		if grace <= 0 {
			grace = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		s.logger.Info("Shutting down minipas server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return mdwerror.Wrap(err, "graceful shutdown failed").WithCode(mdwerror.CodeTimeout)
		}
		<-errCh
		return nil
	}
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", mdwlog.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapper.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
