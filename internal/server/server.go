// Package server exposes the monitor over HTTP: health, Prometheus metrics,
// a JSON API and a WebSocket snapshot stream.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"quyca-monitor/internal/alerting"
	"quyca-monitor/internal/fixtures"
	"quyca-monitor/internal/observability"
	"quyca-monitor/internal/service"
	"quyca-monitor/internal/storage"
)

// Monitor is the service surface the API reads and drives.
type Monitor interface {
	Snapshot() service.Snapshot
	Subscribe(buffer int) (<-chan service.Snapshot, func())
	RecordVerification(ctx context.Context, hasFire bool) (alerting.Notification, error)
}

// AlertStore reads the alert history.
type AlertStore interface {
	ListRecentAlerts(ctx context.Context, limit int) ([]storage.AlertRecord, error)
	GetAlert(ctx context.Context, id int64) (storage.AlertRecord, error)
}

// Options wires the server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	Monitor         Monitor
	Alerts          AlertStore
	Fixtures        *fixtures.Bundle
	Metrics         *observability.Metrics
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

// Server exposes health, metrics, API and WebSocket routes.
type Server struct {
	httpServer      *http.Server
	engine          *gin.Engine
	hub             *Hub
	monitor         Monitor
	alerts          AlertStore
	fixtures        *fixtures.Bundle
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// New creates the server and registers its routes.
func New(opts Options, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Fixtures == nil {
		opts.Fixtures = &fixtures.Bundle{}
	}
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = promhttp.Handler()
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine:          engine,
		hub:             NewHub(opts.Metrics, logger),
		monitor:         opts.Monitor,
		alerts:          opts.Alerts,
		fixtures:        opts.Fixtures,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logger.With().Str("component", "http").Logger(),
	}

	engine.Use(gin.Recovery(), s.requestLogger(), cors())
	engine.NoRoute(func(c *gin.Context) {
		respondWithError(c, http.StatusNotFound, ErrCodeNotFound, "route not found", "see GET /api/v1 for the endpoint list")
	})

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	engine.GET("/ws", s.handleWebSocket)

	api := engine.Group("/api/v1")
	api.GET("", s.handleIndex)
	api.GET("/snapshot", s.handleSnapshot)
	api.GET("/series", s.handleSeries)
	api.GET("/settings", s.handleSettings)
	api.GET("/alerts", s.handleAlerts)
	api.GET("/alerts/:id", s.handleAlert)
	api.GET("/classify", s.handleClassify)
	api.GET("/contacts", s.handleContacts)
	api.GET("/manual", s.handleManual)
	api.POST("/verification", s.handleVerification)

	return s
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// Run serves until ctx is cancelled, streaming every published snapshot to
// WebSocket clients, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	if s.monitor != nil {
		snapshots, unsubscribe := s.monitor.Subscribe(4)
		defer unsubscribe()
		go s.forward(hubCtx, snapshots)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server starting")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func (s *Server) forward(ctx context.Context, snapshots <-chan service.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := s.hub.Broadcast(MessageSnapshot, snap); err != nil {
				s.logger.Error().Err(err).Msg("encode snapshot")
			}
		}
	}
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
