package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "renthub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "bookings_created_total",
			Help:      "Booking requests accepted.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions by resulting status.",
		},
		[]string{"status"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "outbox_emails_total",
			Help:      "Outbox deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	outboxDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "renthub",
			Name:      "outbox_depth",
			Help:      "Outbox rows by status.",
		},
		[]string{"status"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Name:      "listing_cache_lookups_total",
			Help:      "Listing cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingsCreated,
			bookingDecisions,
			emailsSent,
			outboxDepth,
			cacheLookups,
		)
	})
}

// ObserveHTTP records one finished request.
func ObserveHTTP(endpoint, status string, duration time.Duration) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
	httpDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncBookingDecision(status string) {
	bookingDecisions.WithLabelValues(status).Inc()
}

// IncEmail records an outbox delivery outcome: sent, retry or failed.
func IncEmail(outcome string) {
	emailsSent.WithLabelValues(outcome).Inc()
}

func SetOutboxDepth(status string, depth int) {
	outboxDepth.WithLabelValues(status).Set(float64(depth))
}

// IncCache records a listing cache lookup: hit or miss.
func IncCache(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}
