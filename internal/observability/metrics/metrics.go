package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes counters for the site's core flows. All methods are
// safe on a nil receiver so handlers can run without instrumentation.
type Metrics struct {
	formSubmissions *prometheus.CounterVec
	leadsCaptured   prometheus.Counter
	blogViews       *prometheus.CounterVec
	backendCalls    *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		formSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgen",
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		leadsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadgen",
			Subsystem: "leads",
			Name:      "captured_total",
			Help:      "Leads persisted to the active data source",
		}),
		blogViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgen",
			Subsystem: "blog",
			Name:      "views_total",
			Help:      "Blog view counter increments by slug",
		}, []string{"slug"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadgen",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "Hosted backend API calls by operation and status",
		}, []string{"op", "status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadgen",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Hosted backend API call latency by operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.formSubmissions, m.leadsCaptured, m.blogViews, m.backendCalls, m.backendLatency)
	return m
}

func (m *Metrics) RecordFormSubmission(outcome string) {
	if m == nil {
		return
	}
	m.formSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLeadCaptured() {
	if m == nil {
		return
	}
	m.leadsCaptured.Inc()
}

func (m *Metrics) RecordBlogView(slug string) {
	if m == nil {
		return
	}
	m.blogViews.WithLabelValues(slug).Inc()
}

func (m *Metrics) RecordBackendCall(op, status string) {
	if m == nil {
		return
	}
	m.backendCalls.WithLabelValues(op, status).Inc()
}

func (m *Metrics) ObserveBackendLatency(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.backendLatency.WithLabelValues(op).Observe(d.Seconds())
}
