// Package http is the Gin transport for the quote API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/platform/config"
)

// Server owns the Gin engine and the listener serving it.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	cfg    *config.ServerConfig
	logger *slog.Logger
}

// New builds a server whose engine caps every request body at cfg.MaxRequestSize.
// Routes are mounted afterwards through Engine.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(limitBody(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) Config() *config.ServerConfig { return s.cfg }

func (s *Server) Addr() string { return s.srv.Addr }

// Start serves in the background. The returned channel carries at most one
// listener error and is closed once the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)

		s.logger.Info("quote API listening",
			slog.String("addr", s.srv.Addr),
			slog.Duration("read_timeout", s.cfg.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.WriteTimeout),
			slog.Int64("max_request_size", s.cfg.MaxRequestSize),
		)

		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve %s: %w", s.srv.Addr, err)
		}
	}()

	return errCh
}

// Shutdown drains in-flight quote writes until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("draining quote API")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("drain http server: %w", err)
	}

	s.logger.Info("quote API stopped")

	return nil
}

func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
