// Package server is the notifeed daemon's HTTP surface: it serves feed
// pages from the notification store and handles the read-state mutation
// endpoint consumed by the feed engine's MutationClient.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/notifeed/notifeed/internal/config"
	"github.com/notifeed/notifeed/internal/logging"
	"github.com/notifeed/notifeed/internal/store"
)

// Server serves the feed and mutation endpoints.
type Server struct {
	cfg   config.ServerConfig
	store store.Store
	csrf  *csrfIssuer
	log   zerolog.Logger
}

// New creates a server over the given store.
func New(cfg config.ServerConfig, st store.Store) *Server {
	return &Server{
		cfg:   cfg,
		store: st,
		csrf:  newCSRFIssuer(cfg.CSRFTokenTTL),
		log:   logging.Component("server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/api/feed", s.handleFeed)
	r.POST("/api/notifications", s.handleMutation)

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
