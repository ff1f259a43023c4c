package middleware

import (
	"strconv"
	"time"

	"github.com/BerniceZTT/case_end/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 记录请求数与耗时, 以路由模板作为标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
