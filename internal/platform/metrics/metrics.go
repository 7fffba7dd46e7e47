// Package metrics expone métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"farm-dashboard/internal/domain/alerts"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager agrupa los collectors y su registry.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	vaccinationAlerts   *prometheus.GaugeVec
	loginAttempts       *prometheus.CounterVec
}

type Option func(*Manager)

func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) {
		if len(b) > 0 {
			m.buckets = b
		}
	}
}

// WithRuntimeCollectors agrega métricas de proceso y del runtime de Go.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewManager usa un registry propio para no chocar con el default en tests.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "farm",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.buckets,
	}, []string{"method", "route"})

	m.vaccinationAlerts = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sanitary",
		Name:      "vaccination_alerts",
		Help:      "Pending vaccination alerts by urgency at the last computation.",
	}, []string{"urgency"})

	m.loginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "PIN login attempts by result.",
	}, []string{"result"})

	m.registry.MustRegister(m.httpRequests, m.httpRequestDuration, m.vaccinationAlerts, m.loginAttempts)
	return m
}

// Handler sirve /metrics.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry se expone para tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

func (m *Manager) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetAlertSummary refleja el último cálculo de alertas.
func (m *Manager) SetAlertSummary(s alerts.Summary) {
	if m == nil {
		return
	}
	m.vaccinationAlerts.WithLabelValues(string(alerts.UrgencyOverdue)).Set(float64(s.Overdue))
	m.vaccinationAlerts.WithLabelValues(string(alerts.UrgencyUrgent)).Set(float64(s.Urgent))
	m.vaccinationAlerts.WithLabelValues(string(alerts.UrgencyUpcoming)).Set(float64(s.Upcoming))
	m.vaccinationAlerts.WithLabelValues(string(alerts.UrgencyScheduled)).Set(float64(s.Scheduled))
}

// LoginAttempt cuenta intentos: ok, invalid_pin, rate_limited, invalid_input, error.
func (m *Manager) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}
