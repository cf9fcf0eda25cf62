package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a single crawl run did. It is written once, as a
// node_exporter textfile, when the run ends.
type Metrics struct {
	Registry        *prometheus.Registry
	PagesTotal      *prometheus.CounterVec
	MirrorsTotal    *prometheus.CounterVec
	RecordsWritten  prometheus.Counter
	CaptchaSolves   prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	LastRunDuration prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoneh_listing_pages_total",
			Help: "Listing pages by outcome.",
		},
		[]string{"status"},
	)
	mirrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoneh_mirrors_total",
			Help: "Mirror references by outcome.",
		},
		[]string{"status"},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zoneh_records_written_total",
			Help: "Records appended to the output file.",
		},
	)
	solves := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zoneh_captcha_solves_total",
			Help: "Manual CAPTCHA solves requested from the operator.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zoneh_errors_total",
			Help: "Recoverable errors by kind.",
		},
		[]string{"error_type"},
	)
	duration := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zoneh_last_run_duration_seconds",
			Help: "Wall-clock duration of the last crawl run.",
		},
	)

	registry.MustRegister(pages, mirrors, records, solves, errorsTotal, duration)

	return &Metrics{
		Registry:        registry,
		PagesTotal:      pages,
		MirrorsTotal:    mirrors,
		RecordsWritten:  records,
		CaptchaSolves:   solves,
		ErrorsTotal:     errorsTotal,
		LastRunDuration: duration,
	}
}

func (m *Metrics) IncPage(status string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncMirror(status string) {
	if m == nil {
		return
	}
	m.MirrorsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncRecords() {
	if m == nil {
		return
	}
	m.RecordsWritten.Inc()
}

func (m *Metrics) IncCaptcha() {
	if m == nil {
		return
	}
	m.CaptchaSolves.Inc()
}

func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) SetDuration(seconds float64) {
	if m == nil {
		return
	}
	m.LastRunDuration.Set(seconds)
}

// WriteTextfile dumps the registry to path. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
