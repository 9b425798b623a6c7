package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"user-crud-service/pkg/metrics"
)

// Metrics returns a Gin middleware recording request count, error count, and
// duration per method and route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		code := strconv.Itoa(c.Writer.Status())

		m.RequestsTotal.WithLabelValues(method, endpoint, code).Inc()
		m.RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= http.StatusBadRequest {
			m.ErrorsTotal.WithLabelValues(method, endpoint, code).Inc()
		}
	}
}
