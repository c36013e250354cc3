package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placementcrm/internal/pkg/logger"
	"github.com/yigit/placementcrm/internal/pkg/metrics"
)

// RequestLogger logs every request and counts it by route template
func RequestLogger(m *metrics.Metrics) gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		m.ObserveRequest(c.Request.Method, c.FullPath(), status)

		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("Request handled")
	}
}
