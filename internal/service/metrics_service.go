package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer
// and the matching/assignment domain.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	matchDuration        prometheus.Histogram
	matchCandidates      prometheus.Histogram
	combinationsReturned prometheus.Histogram
	assignmentsCreated   prometheus.Counter
	doubleBookings       prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	matchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sub_match_duration_seconds",
		Help:    "Duration of substitute matching runs",
		Buckets: prometheus.DefBuckets,
	})

	matchCandidates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sub_match_candidates",
		Help:    "Roster candidates evaluated per matching run",
		Buckets: []float64{1, 5, 10, 15, 25, 50, 100},
	})

	combinationsReturned := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sub_match_combinations_returned",
		Help:    "Ranked combinations returned per matching run",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	})

	assignmentsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sub_assignments_created_total",
		Help: "Total substitute assignment rows created",
	})

	doubleBookings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sub_assignment_double_booking_conflicts_total",
		Help: "Assignment attempts rejected as double-bookings",
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		matchDuration,
		matchCandidates,
		combinationsReturned,
		assignmentsCreated,
		doubleBookings,
	)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		matchDuration:        matchDuration,
		matchCandidates:      matchCandidates,
		combinationsReturned: combinationsReturned,
		assignmentsCreated:   assignmentsCreated,
		doubleBookings:       doubleBookings,
	}
}

// Handler serves the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one request's latency and count.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveMatch records one matching run.
func (s *MetricsService) ObserveMatch(duration time.Duration, candidates, combinations int) {
	s.matchDuration.Observe(duration.Seconds())
	s.matchCandidates.Observe(float64(candidates))
	s.combinationsReturned.Observe(float64(combinations))
}

// AddAssignments counts committed assignment rows.
func (s *MetricsService) AddAssignments(n int) {
	s.assignmentsCreated.Add(float64(n))
}

// IncDoubleBooking counts rejected double-booking attempts.
func (s *MetricsService) IncDoubleBooking() {
	s.doubleBookings.Inc()
}
