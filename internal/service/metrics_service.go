package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a JSON-friendly view of the collected metrics.
type MetricsSnapshot struct {
	RequestsTotal            uint64         `json:"requests_total"`
	AverageRequestDurationMs float64        `json:"average_request_duration_ms"`
	RecordsLoaded            uint64         `json:"records_loaded"`
	RecordsSkipped           uint64         `json:"records_skipped"`
	SaveFailures             uint64         `json:"save_failures"`
	Entities                 map[string]int `json:"entities"`
	Goroutines               int            `json:"goroutines"`
	GeneratedAt              time.Time      `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	recordsLoaded   *prometheus.CounterVec
	recordsSkipped  *prometheus.CounterVec
	saveFailures    *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
	entities        *prometheus.GaugeVec

	requestCount         uint64
	requestDurationTotal uint64
	loadedCount          uint64
	skippedCount         uint64
	saveFailureCount     uint64
	entityCounts         atomic.Value
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

	recordsLoaded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_records_loaded_total",
		Help: "Records loaded from record files",
	}, []string{"file"})

	recordsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_records_skipped_total",
		Help: "Malformed or duplicate records skipped while loading",
	}, []string{"file"})

	saveFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_save_failures_total",
		Help: "Record files that could not be written",
	}, []string{"file"})

	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_persist_duration_seconds",
		Help:    "Duration of full load and save passes",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	entities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "roster_entities",
		Help: "Records held in memory per kind",
	}, []string{"kind"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, recordsLoaded, recordsSkipped, saveFailures, persistDuration, entities, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		recordsLoaded:   recordsLoaded,
		recordsSkipped:  recordsSkipped,
		saveFailures:    saveFailures,
		persistDuration: persistDuration,
		entities:        entities,
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

// Registry returns the private registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordLoad counts loaded and skipped records for one file.
func (m *MetricsService) RecordLoad(file string, loaded, skipped int) {
	if m == nil {
		return
	}
	m.recordsLoaded.WithLabelValues(file).Add(float64(loaded))
	m.recordsSkipped.WithLabelValues(file).Add(float64(skipped))
	atomic.AddUint64(&m.loadedCount, uint64(loaded))
	atomic.AddUint64(&m.skippedCount, uint64(skipped))
}

// RecordSaveFailure counts a file that could not be written.
func (m *MetricsService) RecordSaveFailure(file string) {
	if m == nil {
		return
	}
	m.saveFailures.WithLabelValues(file).Inc()
	atomic.AddUint64(&m.saveFailureCount, 1)
}

// ObservePersist records the duration of a load or save pass.
func (m *MetricsService) ObservePersist(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.persistDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetEntityCounts refreshes the per-kind record gauges.
func (m *MetricsService) SetEntityCounts(counts map[string]int) {
	if m == nil {
		return
	}
	snapshot := make(map[string]int, len(counts))
	for kind, n := range counts {
		m.entities.WithLabelValues(kind).Set(float64(n))
		snapshot[kind] = n
	}
	m.entityCounts.Store(snapshot)
}

// Snapshot returns aggregated metrics suitable for API consumption.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	entities, _ := m.entityCounts.Load().(map[string]int)
	if entities == nil {
		entities = map[string]int{}
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		RecordsLoaded:            atomic.LoadUint64(&m.loadedCount),
		RecordsSkipped:           atomic.LoadUint64(&m.skippedCount),
		SaveFailures:             atomic.LoadUint64(&m.saveFailureCount),
		Entities:                 entities,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
