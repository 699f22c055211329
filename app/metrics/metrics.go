// Package metrics exposes Prometheus counters for the API and the matrix
// engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/newlineapparel/pogen/matrix"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry  *prometheus.Registry
	matrixOps *prometheus.CounterVec
	requests  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		matrixOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pogen",
			Name:      "matrix_operations_total",
			Help:      "Size-colour matrix operations by kind and outcome.",
		}, []string{"op", "result"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pogen",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.matrixOps,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveMatrixOp counts one matrix operation. err is the error the operation
// returned, if any.
func (m *Metrics) ObserveMatrixOp(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case matrix.IsRejection(err):
		result = "rejected"
	default:
		result = "invalid"
	}
	m.matrixOps.WithLabelValues(op, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument records the latency of h under route.
func (m *Metrics) Instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		m.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
