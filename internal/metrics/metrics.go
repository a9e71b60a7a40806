package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vvm"

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Activation Metrics
	ActivationsTotal      *prometheus.CounterVec
	ActivationDuration    *prometheus.HistogramVec
	ActivationsInFlight   prometheus.Gauge
	RetriesScheduled      prometheus.Counter
	StatusSMSFetchesTotal *prometheus.CounterVec
	SMSSentTotal          *prometheus.CounterVec
	InboundSMSTotal       *prometheus.CounterVec
	EventsAppliedTotal    *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBConnectionErrors prometheus.Counter
	AccountsByState    *prometheus.GaugeVec

	// Process State Metrics
	ServiceUptime       prometheus.Gauge
	ServiceVersion      *prometheus.GaugeVec
	RetriesPending      prometheus.Gauge
	ActivationsDeferred prometheus.Gauge

	ValidationErrors *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSizeBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   []float64{100, 1000, 10_000, 100_000},
			},
			[]string{"method", "path", "status_code"},
		),

		ActivationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activations_total",
				Help:      "Activation attempts by outcome",
			},
			[]string{"result"},
		),
		ActivationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "activation_duration_seconds",
				Help:      "Duration of a single activation attempt",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"result"},
		),
		ActivationsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "activations_in_flight",
				Help:      "Number of activation attempts currently running",
			},
		),
		RetriesScheduled: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activation_retries_scheduled_total",
				Help:      "Total number of activation retries scheduled",
			},
		),
		StatusSMSFetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_sms_fetches_total",
				Help:      "STATUS SMS waits by outcome",
			},
			[]string{"result"},
		),
		SMSSentTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sms_sent_total",
				Help:      "Outbound SMS send attempts",
			},
			[]string{"status"},
		),
		InboundSMSTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inbound_sms_total",
				Help:      "Inbound SMS by message type",
			},
			[]string{"type"},
		),
		EventsAppliedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_applied_total",
				Help:      "Status events applied to accounts",
			},
			[]string{"type", "event"},
		),

		DBConnectionsInUse: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_in_use",
				Help:      "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),
		DBConnectionErrors: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_connection_errors_total",
				Help:      "Total number of database connection errors",
			},
		),
		AccountsByState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accounts_by_configuration_state",
				Help:      "Stored status records per configuration state",
			},
			[]string{"state"},
		),

		ServiceUptime: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_uptime_seconds",
				Help:      "Service uptime in seconds",
			},
		),
		ServiceVersion: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_version_info",
				Help:      "Service version information",
			},
			[]string{"version", "started_at"},
		),
		RetriesPending: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "activation_retries_pending",
				Help:      "Activation retries waiting for their timer",
			},
		),
		ActivationsDeferred: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "activations_deferred",
				Help:      "Activations parked until the device is provisioned",
			},
		),

		ValidationErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of request validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

// --- Recording Methods ---
// All recorders accept a nil *Metrics so services can run without metrics.

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, path, statusCode).Observe(float64(responseSize))
}

func (m *Metrics) ActivationStarted() {
	if m == nil {
		return
	}
	m.ActivationsInFlight.Inc()
}

func (m *Metrics) RecordActivation(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ActivationsInFlight.Dec()
	m.ActivationsTotal.WithLabelValues(result).Inc()
	m.ActivationDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *Metrics) RecordActivationDeferred() {
	if m == nil {
		return
	}
	m.ActivationsTotal.WithLabelValues("deferred").Inc()
}

func (m *Metrics) RecordRetryScheduled() {
	if m == nil {
		return
	}
	m.RetriesScheduled.Inc()
}

func (m *Metrics) RecordStatusSMSFetch(result string) {
	if m == nil {
		return
	}
	m.StatusSMSFetchesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSMSSent(status string) {
	if m == nil {
		return
	}
	m.SMSSentTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordInboundSMS(messageType string) {
	if m == nil {
		return
	}
	m.InboundSMSTotal.WithLabelValues(messageType).Inc()
}

func (m *Metrics) RecordEventApplied(eventType, event string) {
	if m == nil {
		return
	}
	m.EventsAppliedTotal.WithLabelValues(eventType, event).Inc()
}

func (m *Metrics) RecordDBConnectionError() {
	if m == nil {
		return
	}
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	if m == nil {
		return
	}
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) SetServiceVersion(version, startedAt string) {
	m.ServiceVersion.WithLabelValues(version, startedAt).Set(1)
}

func (m *Metrics) UpdateActivationState(pendingRetries, deferred int) {
	m.RetriesPending.Set(float64(pendingRetries))
	m.ActivationsDeferred.Set(float64(deferred))
}

// UpdateAccountStates replaces the per-state gauges so states without rows drop to zero.
func (m *Metrics) UpdateAccountStates(counts map[string]int64) {
	m.AccountsByState.Reset()
	for state, n := range counts {
		m.AccountsByState.WithLabelValues(state).Set(float64(n))
	}
}
