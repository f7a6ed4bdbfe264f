// Package monitoring holds the prometheus collectors of the backend,
// served by the dedicated metrics listener in cmd.
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts created orders per organization.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitery_orders_created_total",
		Help: "Number of orders created.",
	}, []string{"organization"})

	// OrdersCanceled counts soft-canceled orders per organization.
	OrdersCanceled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitery_orders_canceled_total",
		Help: "Number of orders soft-canceled.",
	}, []string{"organization"})

	// NotificationsDropped counts realtime messages dropped because a
	// client buffer was full.
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waitery_notifications_dropped_total",
		Help: "Number of realtime notifications dropped.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "waitery_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// RequestDuration is the gin middleware observing request latency.
func RequestDuration() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
