package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	evaluationJobs     *prometheus.CounterVec
	evaluationQueueLen prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors shared across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideaarena_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ideaarena_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"})

		evaluationJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideaarena_evaluation_jobs_total",
			Help: "Evaluation jobs that reached a terminal state, by outcome.",
		}, []string{"outcome"})

		evaluationQueueLen = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ideaarena_evaluation_queue_depth",
			Help: "Number of evaluation jobs waiting for the worker.",
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, evaluationJobs, evaluationQueueLen)
	})
}

// APIRequests exposes the request counter.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// EvaluationJobs exposes the terminal-job counter.
func EvaluationJobs() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationJobs
}

// EvaluationQueueDepth exposes the queue depth gauge.
func EvaluationQueueDepth() prometheus.Gauge {
	RegisterMetrics()
	return evaluationQueueLen
}
