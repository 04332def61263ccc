package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a check run.
type Metrics struct {
	Registry      *prometheus.Registry
	BooksChecked  *prometheus.CounterVec
	CheckDuration prometheus.Histogram
	SessionErrors *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	checked := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libcheck_books_checked_total",
			Help: "Total books checked, by outcome.",
		},
		[]string{"outcome"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "libcheck_book_check_duration_seconds",
			Help:    "Time spent searching and classifying one book.",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
	sessionErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libcheck_session_errors_total",
			Help: "Total catalog session errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(checked, duration, sessionErrors)

	return &Metrics{
		Registry:      registry,
		BooksChecked:  checked,
		CheckDuration: duration,
		SessionErrors: sessionErrors,
	}
}

// IncOutcome increments the checked counter for an outcome label.
func (m *Metrics) IncOutcome(outcome string) {
	if m == nil {
		return
	}
	m.BooksChecked.WithLabelValues(outcome).Inc()
}

// ObserveDuration records the time spent on one book.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.CheckDuration.Observe(d.Seconds())
}

// IncError increments the session error counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.SessionErrors.WithLabelValues(errorType).Inc()
}
