package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/botbridge-backend/internal/observability"
)

// Metrics instruments request counts, latency, and in-flight gauge. Probe
// endpoints are skipped so scrape noise stays out of the histograms.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		if route == "/healthcheck" || route == "/readycheck" {
			c.Next()
			return
		}

		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.ObserveAPI(c.Request.Method, route, status, time.Since(start))
	}
}
