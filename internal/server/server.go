// Package server exposes submissions and lookups over HTTP for form webhooks
// and settings editors.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clickform/internal/logger"
	"clickform/internal/metrics"
	"clickform/internal/service"
	"clickform/internal/submission"
)

// TokenSaver persists a verified API token.
type TokenSaver interface {
	SetToken(token string) error
}

// Server routes HTTP requests to a service and a submission orchestrator.
type Server struct {
	svc    service.Service
	orch   *submission.Orchestrator
	tokens TokenSaver
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithTokenSaver persists tokens accepted by POST /token/verify.
// Without it verified tokens are not stored.
func WithTokenSaver(t TokenSaver) Option {
	return func(s *Server) { s.tokens = t }
}

// WithOrchestrator replaces the default orchestrator over the service.
func WithOrchestrator(o *submission.Orchestrator) Option {
	return func(s *Server) { s.orch = o }
}

// New creates a Server over svc.
func New(svc service.Service, opts ...Option) *Server {
	s := &Server{svc: svc}
	for _, opt := range opts {
		opt(s)
	}
	if s.orch == nil {
		s.orch = submission.NewOrchestrator(svc)
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.POST("/submissions", s.handleSubmission)
	router.POST("/token/verify", s.handleVerifyToken)
	router.GET("/workspaces", s.handleWorkspaces)
	router.GET("/workspaces/:id/spaces", s.handleSpaces)
	router.GET("/spaces/:id/lists", s.handleLists)
	router.GET("/lists/:id/statuses", s.handleStatuses)
	return router
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	log := logger.FromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("starting HTTP server", "address", fmt.Sprintf("http://%s", addr))

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Debug("received shutdown signal, initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
