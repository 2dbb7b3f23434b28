package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	awspkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
)

// MetricsMiddleware records request count, latency and error counts per
// route. Publishing happens off the request goroutine; a dropped datapoint
// is preferable to added latency.
func MetricsMiddleware(metricsClient *awspkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		dims := map[string]string{
			"Service": serviceName,
			"Method":  method,
			"Path":    path,
			"Status":  statusClass(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPRequests, dims)
			_ = metricsClient.RecordLatency(ctx, awspkg.MetricHTTPLatency, elapsed, dims)

			switch {
			case status >= 500:
				_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPErrors, dims)
				_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTP5xx, dims)
			case status >= 400:
				_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTPErrors, dims)
				_ = metricsClient.RecordCount(ctx, awspkg.MetricHTTP4xx, dims)
			}
		}()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "unknown"
	}
}
