package ui

import (
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

// requestLogger logs one line per request through the server logger
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		if status >= 500 {
			s.logger.Error("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		s.logger.Debug("%s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
