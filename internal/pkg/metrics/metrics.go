package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtly_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courtly_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtly_bookings_created_total",
		Help: "Bookings committed, by kind (new, renewal).",
	}, []string{"kind"})

	SlotsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtly_slots_materialized_total",
		Help: "Slots created by committed bookings.",
	})

	OverlapRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtly_booking_overlap_rejections_total",
		Help: "Booking attempts rejected because a booked slot intersects the request.",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtly_bookings_cancelled_total",
		Help: "Bookings cancelled.",
	})

	MembershipsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtly_memberships_registered_total",
		Help: "Gym subscriptions registered.",
	})

	SweepUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtly_status_sweep_updates_total",
		Help: "Rows rewritten by the status sweep, by aggregate and target status.",
	}, []string{"aggregate", "status"})

	SweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courtly_status_sweep_duration_seconds",
		Help:    "Duration of each status sweep.",
		Buckets: prometheus.DefBuckets,
	}, []string{"aggregate"})

	SweepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtly_status_sweep_failures_total",
		Help: "Failed status sweeps by aggregate.",
	}, []string{"aggregate"})
)

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
