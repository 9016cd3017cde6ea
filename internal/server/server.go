// Package server exposes health, status and Prometheus metrics over HTTP
// while the poller runs.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/sotastats/internal/model"
)

// StatusSource is the read side of the store the status endpoint uses.
type StatusSource interface {
	Counts(ctx context.Context) (spots, snapshots int, err error)
	LatestRefresh(ctx context.Context) (time.Time, bool, error)
}

// Server bundles the router and its dependencies.
type Server struct {
	addr        string
	association string
	status      StatusSource
	engine      *gin.Engine
}

// New constructs a server with routes and middleware.
func New(addr, association string, status StatusSource, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{addr: addr, association: association, status: status, engine: engine}
	s.registerRoutes(gatherer)
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/status", s.handleStatus)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func (s *Server) handleStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	spots, snapshots, err := s.status.Counts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	latest, ok, err := s.status.LatestRefresh(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{
		"association": s.association,
		"spots":       spots,
		"snapshots":   snapshots,
	}
	if ok {
		body["latest_refresh"] = latest.UTC().Format(model.TimestampLayout)
	}
	c.JSON(http.StatusOK, body)
}
