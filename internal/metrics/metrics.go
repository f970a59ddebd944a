// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the counters and histograms updated by the HTTP middleware
// and by the booking, upload and event publishing paths.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	BookingsCreated    prometheus.Counter
	BookingsUpdated    prometheus.Counter
	BookingRoomUpdates *prometheus.CounterVec
	AvatarUploads      prometheus.Counter
	EventsPublished    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_api_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hotel_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "hotel_api_bookings_created_total",
			Help: "Total number of committed bookings",
		}),

		BookingsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "hotel_api_bookings_updated_total",
			Help: "Total number of committed staff booking updates",
		}),

		BookingRoomUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_api_booking_room_status_updates_total",
			Help: "Booking room status changes by target status",
		}, []string{"status"}),

		AvatarUploads: f.NewCounter(prometheus.CounterOpts{
			Name: "hotel_api_avatar_uploads_total",
			Help: "Total number of stored avatar uploads",
		}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_api_events_published_total",
			Help: "Booking events handed to the broker by routing key and result",
		}, []string{"event", "result"}),

		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
