package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for template and badge work.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	migrations  *prometheus.CounterVec
	conversions *prometheus.CounterVec
	badges      *prometheus.CounterVec
	storeOps    *prometheus.CounterVec
	qrPreviews  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "badge",
			Name:      "template_migrations_total",
			Help:      "Template migrations by source version and result",
		}, []string{"from", "result"}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "badge",
			Name:      "template_conversions_total",
			Help:      "Format conversions by direction and result",
		}, []string{"direction", "result"}),
		badges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "badge",
			Name:      "rendered_total",
			Help:      "Badge PDFs rendered",
		}, []string{"result"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "badge",
			Name:      "store_operations_total",
			Help:      "Template store operations",
		}, []string{"op", "result"}),
		qrPreviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "badge",
			Name:      "qr_previews_total",
			Help:      "QR previews rendered by image format",
		}, []string{"format"}),
	}

	registry.MustRegister(
		m.migrations,
		m.conversions,
		m.badges,
		m.storeOps,
		m.qrPreviews,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveMigration(from string, err error) {
	if m == nil {
		return
	}
	if from == "" {
		from = "1.0"
	}
	m.migrations.WithLabelValues(from, result(err)).Inc()
}

func (m *Metrics) ObserveConversion(direction string, err error) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(direction, result(err)).Inc()
}

func (m *Metrics) ObserveBadge(err error) {
	if m == nil {
		return
	}
	m.badges.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveStore(op string, err error) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) IncQRPreview(format string) {
	if m == nil {
		return
	}
	m.qrPreviews.WithLabelValues(format).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
