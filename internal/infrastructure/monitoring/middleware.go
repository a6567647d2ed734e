package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RouteKey is the gin context key under which the dispatcher stores the
// matched route template. It keeps the path label cardinality bounded.
const RouteKey = "route"

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, routeLabel(c), status, duration, respSize)
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.GetString(RouteKey); route != "" {
		return route
	}
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}

// Timer measures a backend operation
type Timer struct {
	start     time.Time
	metrics   *Metrics
	operation string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		metrics:   metrics,
		operation: operation,
	}
}

// Stop stops the timer and records the duration. A nil timer or a timer
// without metrics is a no-op.
func (t *Timer) Stop(outcome string) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.RecordBackend(t.operation, outcome, time.Since(t.start))
}
