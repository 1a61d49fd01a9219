// Package httpapi exposes the calculator over JSON: classification, band
// reference, and the optional AI explain and scan endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/calcitb/internal/advisor"
)

const shutdownTimeout = 10 * time.Second

// Options configures the API server.
type Options struct {
	// Advisor backs /explain and /scan. Nil disables both.
	Advisor advisor.Advisor

	// ModelLabel is reported by /health.
	ModelLabel string

	Logger *slog.Logger
}

// Server owns the gin engine and the advisor.
type Server struct {
	advisor    advisor.Advisor
	modelLabel string
	logger     *slog.Logger
	engine     *gin.Engine
}

// New builds the router with request-ID, logging and recovery middleware.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		advisor:    opts.Advisor,
		modelLabel: opts.ModelLabel,
		logger:     logger,
		engine:     gin.New(),
	}
	if s.advisor == nil {
		s.modelLabel = ""
	}

	s.engine.Use(requestID(), requestLogger(logger), gin.Recovery())

	api := s.engine.Group("/api/v1")
	{
		api.GET("/health", s.Health)
		api.GET("/bands", s.Bands)
		api.POST("/classify", s.Classify)
		api.POST("/explain", s.Explain)
		api.POST("/scan", s.Scan)
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http_event", "event", "listening", "addr", addr, "ai", s.advisor != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http_event", "event", "shutting_down")
		return srv.Shutdown(shutdownCtx)
	}
}
