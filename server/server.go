// Package server exposes the core services over a small JSON API. Handlers
// stay thin: validation at the boundary, then a single call into the
// fetcher, suggester, or store.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/isAdamBailey/black-circles/db"
	"github.com/isAdamBailey/black-circles/fetcher"
	"github.com/isAdamBailey/black-circles/suggest"
	"go.uber.org/zap"
)

type Server struct {
	db        *db.DB
	fetcher   *fetcher.Fetcher
	suggester *suggest.Suggester
	vibeOK    bool
	log       *zap.Logger
}

// New creates a server over the given services. vibeEnabled gates the vibe
// endpoint, which needs a configured classifier.
func New(database *db.DB, f *fetcher.Fetcher, s *suggest.Suggester, vibeEnabled bool, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		db:        database,
		fetcher:   f,
		suggester: s,
		vibeOK:    vibeEnabled,
		log:       log,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/moods", s.handleMoods)
	mux.HandleFunc("GET /api/suggest/{mood}", s.handleSuggest)
	mux.HandleFunc("POST /api/vibe", s.handleVibe)
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/collection", s.handleCollection)
	mux.HandleFunc("GET /api/collection/random", s.handleRandom)
	mux.HandleFunc("GET /api/releases/{id}", s.handleRelease)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	return mux
}

// Run serves the API until the context is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := http.Server{Addr: addr, Handler: s.Handler()}

	errs := make(chan error)
	go func() { errs <- srv.ListenAndServe() }()

	s.log.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
