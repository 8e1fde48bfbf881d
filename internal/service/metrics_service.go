package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the synchronizer,
// the student API client and the bridge.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	remoteTotal     *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	sinkFailures    *prometheus.CounterVec
	rosterSize      prometheus.Gauge
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridge_request_duration_seconds",
		Help:    "Duration of bridge HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_requests_total",
		Help: "Total number of bridge HTTP requests",
	}, []string{"method", "path", "status"})

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "student_api_call_duration_seconds",
		Help:    "Duration of calls to the student API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	remoteTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "student_api_calls_total",
		Help: "Calls to the student API; status 0 marks transport failures",
	}, []string{"operation", "status"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_notifications_total",
		Help: "Outcome notifications emitted by the synchronizer",
	}, []string{"category", "severity"})

	sinkFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sink_failures_total",
		Help: "Failed notification deliveries per sink",
	}, []string{"sink"})

	rosterSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roster_students",
		Help: "Students in the local roster after the last reload",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remoteDuration, remoteTotal, notifications, sinkFailures, rosterSize, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		remoteDuration:  remoteDuration,
		remoteTotal:     remoteTotal,
		notifications:   notifications,
		sinkFailures:    sinkFailures,
		rosterSize:      rosterSize,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records bridge request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveRemoteCall records one student API call.
func (m *MetricsService) ObserveRemoteCall(operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.remoteDuration.WithLabelValues(operation, labelStatus).Observe(duration.Seconds())
	m.remoteTotal.WithLabelValues(operation, labelStatus).Inc()
}

// RecordNotification counts an emitted notification.
func (m *MetricsService) RecordNotification(category, severity string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(category, severity).Inc()
}

// RecordSinkFailure counts a failed delivery attempt.
func (m *MetricsService) RecordSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.sinkFailures.WithLabelValues(sink).Inc()
}

// SetRosterSize tracks the local roster size.
func (m *MetricsService) SetRosterSize(n int) {
	if m == nil {
		return
	}
	m.rosterSize.Set(float64(n))
}
