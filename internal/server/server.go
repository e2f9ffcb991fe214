package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"accord/internal/domain"
	"accord/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the server routes to.
type Deps struct {
	Profiles   domain.ProfileStore
	Messages   domain.MessageStore
	Migration  domain.MigrationService
	AdminToken string
	Log        *observability.Logger
	Metrics    *observability.Metrics
}

// Server owns the gin engine.
type Server struct {
	deps   Deps
	log    *observability.Logger
	engine *gin.Engine
}

// New builds the router.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = observability.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics(nil)
	}
	s := &Server{deps: deps, log: deps.Log.WithComponent("server")}

	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := r.Group("/v1")
	v1.PUT("/profiles/:userID", s.putProfile)
	v1.GET("/profiles/:userID/public-key", s.getPublicKey)
	v1.POST("/messages", s.postMessage)
	v1.GET("/messages", s.listMessages)

	admin := v1.Group("/admin", s.requireAdmin())
	admin.POST("/migrate-keys", s.migrateKeys)

	s.engine = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Listening(addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
