package logger

import (
	"strconv"
	"time"

	"academy-map-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AccessMiddleware logs one event per request and records the request metrics. The
// route label is the matched route pattern, or "unmatched" for 404s.
func AccessMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDurationMs.WithLabelValues(route).Observe(float64(dur.Milliseconds()))

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Debug()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Int64("duration_ms", dur.Milliseconds()).
			Str("ip", c.ClientIP()).
			Msg("http_access")
	}
}
