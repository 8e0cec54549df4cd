package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/api/handlers"
	"github.com/amaumene/videosync/internal/api/middleware"
	"github.com/amaumene/videosync/internal/config"
	"github.com/amaumene/videosync/internal/metrics"
	"github.com/amaumene/videosync/internal/models"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	engine *gin.Engine
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, posts handlers.PostCounter, trigger handlers.Trigger, m *metrics.Metrics, logger *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logging(logger))

	s := &Server{
		engine: engine,
		logger: logger,
	}
	s.setupRoutes(db, posts, trigger, m)

	s.server = &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		// progress streams stay open for the whole run
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(db *models.Database, posts handlers.PostCounter, trigger handlers.Trigger, m *metrics.Metrics) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.engine.GET("/health", healthHandler.Handle)

	statusHandler := handlers.NewStatusHandler(db, posts, trigger, s.logger)
	s.engine.GET("/status", statusHandler.Handle)

	s.engine.GET("/metrics", gin.WrapH(m.Handler()))

	syncHandler := handlers.NewSyncHandler(trigger, s.logger)
	sync := s.engine.Group("/sync")
	{
		sync.GET("/stream", syncHandler.Stream)
		sync.GET("/ws", syncHandler.WebSocket)
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
