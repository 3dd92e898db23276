package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dataviz/internal"
)

// RequestLogger logs one line per request with its status and latency
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("[HTTP] %s %s -> %d (%s) %s", c.Request.Method, path, status, latency, c.Errors.String())
		case status >= http.StatusBadRequest:
			logger.Warn("[HTTP] %s %s -> %d (%s)", c.Request.Method, path, status, latency)
		default:
			logger.Debug("[HTTP] %s %s -> %d (%s)", c.Request.Method, path, status, latency)
		}
	}
}

// LimitBody caps the request body at maxBytes. Reads past the cap fail with
// *http.MaxBytesError.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
