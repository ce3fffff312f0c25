// Package httpserver serves the translation API with the health endpoints
// and, on a separate port, the metrics endpoint.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/specctl/internal/infra/appstate"
	"github.com/skillcoder/specctl/internal/infra/shutdown"
)

var ErrNotReady = errors.New("server is not ready")

type Options struct {
	Port            string
	MaxRequestBytes int64
}

type Server struct {
	logger          *slog.Logger
	appState        appstater
	translator      translator
	composer        composer
	port            string
	maxRequestBytes int64
	server          *http.Server
	ready           chan struct{}
	inShutdown      atomic.Bool
}

// New creates a new HTTP server instance
func New(
	logger *slog.Logger,
	appState appstater,
	translator translator,
	composer composer,
	opts Options,
) *Server {
	if opts.Port == "" {
		opts.Port = defaultPort
	}

	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = defaultMaxRequestBytes
	}

	return &Server{
		logger:          logger.With("component", "http-server"),
		appState:        appState,
		translator:      translator,
		composer:        composer,
		port:            opts.Port,
		maxRequestBytes: opts.MaxRequestBytes,
		ready:           make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Server)(nil)

func (s *Server) Name() string {
	return "http-server"
}

// Routes builds the router. It is exported for handler tests.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/-/healthz", appstate.HandleHealthz(s.logger, s.appState))
	router.Get("/-/readyz", appstate.HandleReadyz(s.logger, s.appState))
	router.Get("/-/status", appstate.HandleStatus(s.logger, s.appState))

	router.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/translate", s.handleTranslate)
		r.Post("/compose", s.handleCompose)
	})

	return router
}

// Start listens on the configured port and serves in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "http server is shutting down, skipping start")

		return nil
	}

	addr := ":" + s.port
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
		},
	}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen http tcp: %w", err)
	}

	s.logger.InfoContext(ctx, "http server listening", "addr", listener.Addr().String())

	go func() {
		close(s.ready)

		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server error", "reason", err)
		}
	}()

	return nil
}

// Ready returns a channel that is closed when the HTTP server is ready to serve requests
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

func (s *Server) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return fmt.Errorf("http: %w", ErrNotReady)
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return stopServer(ctx, s.logger, &s.inShutdown, s.server)
}

func stopServer(ctx context.Context, logger *slog.Logger, inShutdown *atomic.Bool, server *http.Server) error {
	if !inShutdown.CompareAndSwap(false, true) {
		logger.WarnContext(ctx, "already shutting down, skipping shutdown")

		return nil
	}

	if server == nil {
		return nil
	}

	logger.InfoContext(ctx, "shutting down")

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.InfoContext(ctx, "closed properly")

	return nil
}
