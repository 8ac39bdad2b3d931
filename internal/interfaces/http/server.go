// Package http provides the HTTP adapter over the application services.
// It is a thin layer: request parsing, identity extraction, error mapping.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server wired to the application services
func NewServer(config ServerConfig, handlers *Handlers, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: handlers,
		logger:   logger,
	}

	server.router.Use(gin.Recovery())
	server.router.Use(server.loggingMiddleware())
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(identityMiddleware())
	{
		api.POST("/claims", s.handlers.SubmitClaim)
		api.GET("/claims", s.handlers.ListClaims)
		api.GET("/claims/:id", s.handlers.GetClaim)
		api.GET("/claims/:id/history", s.handlers.GetClaimHistory)
		api.GET("/claims/:id/report", s.handlers.GetValidationReport)
		api.POST("/claims/:id/approve", s.handlers.ApproveClaim)
		api.POST("/claims/:id/reject", s.handlers.RejectClaim)
		api.POST("/claims/:id/invoice", s.handlers.ProcessInvoice)
		api.GET("/claims/:id/invoice", s.handlers.GetInvoice)
		api.GET("/claims/:id/invoice/export", s.handlers.ExportInvoice)
		api.POST("/invoices/bulk", s.handlers.BulkProcessInvoices)
		api.GET("/hr/awaiting", s.handlers.ListAwaitingProcessing)
		api.GET("/hr/processed", s.handlers.ListProcessed)
		api.GET("/hr/summary", s.handlers.Summary)
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// Start begins serving; it blocks until the listener fails or is shut down
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
