// Package server exposes snapshots, series and reference baselines over a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bobmcallan/pricedesk/internal/app"
	"github.com/bobmcallan/pricedesk/internal/common"
)

const (
	readTimeout = 30 * time.Second
	idleTimeout = 60 * time.Second
	// a full-registry snapshot walks every fetch tier and can take minutes
	writeTimeout = 5 * time.Minute
)

// Server serves the API for one App.
type Server struct {
	app          *app.App
	server       *http.Server
	logger       *common.Logger
	shutdownChan chan struct{}
	now          func() time.Time
}

// NewServer builds the mux and middleware; nothing listens until Start.
func NewServer(a *app.App) *Server {
	s := &Server{app: a, logger: a.Logger, now: time.Now}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:         net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:      applyMiddleware(mux, a.Logger),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// SetShutdownChannel enables POST /api/shutdown, which sends on ch.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens until Shutdown; a clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
