package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	studentRequestsTotal  *prometheus.CounterVec
	studentLatencySeconds *prometheus.HistogramVec
	studentOperations     *prometheus.CounterVec
	studentCacheLookups   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors of the student service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		studentRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "student_requests_total",
			Help: "Total number of student API requests served.",
		}, []string{"method", "route", "status"})

		studentLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "student_request_latency_seconds",
			Help:    "Latency distribution for student API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		studentOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "student_operations_total",
			Help: "Student service operations partitioned by outcome.",
		}, []string{"operation", "outcome"})

		studentCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "student_cache_lookups_total",
			Help: "Student cache lookups partitioned by result.",
		}, []string{"result"})

		prometheus.MustRegister(studentRequestsTotal, studentLatencySeconds, studentOperations, studentCacheLookups)
	})
}

// StudentRequests exposes the counter for student HTTP requests.
func StudentRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return studentRequestsTotal
}

// StudentLatency exposes the latency histogram for student HTTP requests.
func StudentLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return studentLatencySeconds
}

// StudentOperations exposes the per-operation outcome counter.
func StudentOperations() *prometheus.CounterVec {
	RegisterMetrics()
	return studentOperations
}

// StudentCacheLookups exposes the cache hit/miss counter.
func StudentCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return studentCacheLookups
}
