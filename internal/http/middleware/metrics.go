package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raja1702/computer-storage-solutions/internal/observability"
)

// Metrics records request counts and latency per route template. Scrapes of
// the exposition endpoint itself are not counted.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		m.APIInflightInc()
		defer m.APIInflightDec()

		began := time.Now()
		c.Next()
		m.ObserveAPI(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(began))
	}
}
