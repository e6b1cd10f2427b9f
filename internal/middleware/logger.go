package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/logger"
)

// RequestLogger logs one structured line per HTTP request once the handler
// chain has finished.
//
// Logged fields: request_id (set by RequestID), method, path, route, status,
// latency_ms, client_ip and, when a handler recorded one, the last error.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestLogger() gin.HandlerFunc {
	log := logger.With("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		rid, _ := c.Get(RequestIDKey)
		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Warn()
		}
		if err := c.Errors.Last(); err != nil {
			ev = ev.Str("error", err.Error())
		}
		ev.Str("request_id", toString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status", c.Writer.Status()).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
