// Package server assembles the store, services and HTTP router into a
// runnable server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/soldbyofficial/backend/config"
	httpDelivery "github.com/soldbyofficial/backend/internal/delivery/http"
	"github.com/soldbyofficial/backend/internal/infrastructure/storage"
	"github.com/soldbyofficial/backend/internal/sites"
	"github.com/soldbyofficial/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Server owns the preference store and the HTTP server.
type Server struct {
	addr       string
	store      storage.Store
	httpServer *http.Server
	logger     zerolog.Logger
}

// New opens the configured store and wires the HTTP handlers.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	store, err := storage.Open(cfg.Storage.Type, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Type, err)
	}

	prefs := usecase.NewPreferenceService(store)
	rewrite := usecase.NewRewriteService(sites.Builtin(), prefs)

	handler := httpDelivery.NewHandler(rewrite, cfg.Extension.InfoPageURL)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	return &Server{
		addr:  addr,
		store: store,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.logger.Info().Str("addr", s.addr).Msg("server listening")
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.logger.Info().Msg("server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the preference store.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}
