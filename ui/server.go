package ui

import (
	"context"
	"net/http"
	"time"

	"godescribe/adapters/excel"
	"godescribe/app"
	"godescribe/internal"
	"godescribe/internal/analysis/histogram"

	"github.com/gin-gonic/gin"
)

// Options configures the HTTP surface
type Options struct {
	MaxUploadBytes int64
	Histogram      histogram.Config
	Reader         excel.ReaderConfig
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		MaxUploadBytes: 10 << 20,
		Histogram:      histogram.DefaultConfig(),
		Reader:         excel.DefaultReaderConfig(),
	}
}

// Server represents the web server for the describe API
type Server struct {
	router     *gin.Engine
	service    *app.DescribeService
	options    Options
	logger     *internal.Logger
	httpServer *http.Server
}

// NewServer creates a new web server instance with its routes registered
func NewServer(service *app.DescribeService, options Options, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = DefaultOptions().MaxUploadBytes
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		options: options,
		logger:  logger.With("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/describe", s.handleDescribe)
	api.GET("/reports/:id", s.handleGetReport)
	api.POST("/histogram", s.handleHistogram)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting describe API on http://%s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
