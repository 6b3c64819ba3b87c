package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"gims/pkg/logger"
)

// Logger writes one access-log line per request. Health probes are
// skipped to keep the log readable.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if path == "/health/live" || path == "/health/ready" {
			return
		}

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, "query", query)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, "errors", errs)
		}

		log.WithContext(c.Request.Context()).Infow("http request", fields...)
	}
}
