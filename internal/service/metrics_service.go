package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer and the ledger.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	snapshotSave    prometheus.Observer
	snapshotFailed  prometheus.Counter
	mirrorPushes    *prometheus.CounterVec
	mirrorDuration  prometheus.Observer
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

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_mutations_total",
		Help: "Committed ledger mutations by entity and action",
	}, []string{"entity", "action"})

	snapshotSave := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_snapshot_save_seconds",
		Help:    "Latency of synchronous snapshot saves",
		Buckets: prometheus.DefBuckets,
	})

	snapshotFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_snapshot_save_failures_total",
		Help: "Snapshot saves that returned an error",
	})

	mirrorPushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_mirror_pushes_total",
		Help: "Remote mirror pushes by outcome",
	}, []string{"outcome"})

	mirrorDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_mirror_push_seconds",
		Help:    "Latency of remote mirror pushes",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, mutations, snapshotSave, snapshotFailed, mirrorPushes, mirrorDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		mutations:       mutations,
		snapshotSave:    snapshotSave,
		snapshotFailed:  snapshotFailed,
		mirrorPushes:    mirrorPushes,
		mirrorDuration:  mirrorDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveMutation counts a committed ledger mutation.
func (m *MetricsService) ObserveMutation(entity, action string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, action).Inc()
}

// ObserveSnapshotSave tracks save latency and failures.
func (m *MetricsService) ObserveSnapshotSave(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.snapshotSave.Observe(duration.Seconds())
	if err != nil {
		m.snapshotFailed.Inc()
	}
}

// ObserveMirrorPush tracks the outcome of a remote push.
func (m *MetricsService) ObserveMirrorPush(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.mirrorDuration.Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.mirrorPushes.WithLabelValues(outcome).Inc()
}
