// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jyotish-lab/internal/pipeline"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pipeline metrics
	ChartsComputed *prometheus.CounterVec
	ChartDuration  *prometheus.HistogramVec
	StageOutcomes  *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec

	// Ephemeris metrics
	EphemerisLatency *prometheus.HistogramVec
	EphemerisErrors  *prometheus.CounterVec

	// Persistence metrics
	ChartsStored       prometheus.Counter
	DashaPeriodsStored prometheus.Counter
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec

	// Health metrics
	LastSuccessfulChart prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered with reg. A nil reg
// uses the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "jyotish_lab"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		ChartsComputed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "charts_total",
			Help:      "Total number of chart runs by chart type and status",
		}, []string{"chart_type", "status"}),
		ChartDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "chart_duration_seconds",
			Help:      "Chart run duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"chart_type"}),
		StageOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_outcomes_total",
			Help:      "Stage executions by stage and status",
		}, []string{"stage", "status"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Stage execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),

		EphemerisLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "call_duration_seconds",
			Help:      "Ephemeris call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		EphemerisErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "errors_total",
			Help:      "Total number of failed ephemeris calls",
		}, []string{"method"}),

		ChartsStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "charts_stored_total",
			Help:      "Total number of charts persisted",
		}),
		DashaPeriodsStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "dasha_periods_stored_total",
			Help:      "Total number of flattened dasha periods persisted",
		}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulChart: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_chart_timestamp",
			Help:      "Unix timestamp of last successful chart run",
		}),
	}
}

var _ pipeline.Observer = (*Metrics)(nil)

// ObserveStage implements pipeline.Observer.
func (m *Metrics) ObserveStage(stage string, status pipeline.Status, d time.Duration) {
	m.StageOutcomes.WithLabelValues(stage, status.String()).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordChart records a finished chart run.
func (m *Metrics) RecordChart(chartType, status string, d time.Duration, at time.Time) {
	m.ChartsComputed.WithLabelValues(chartType, status).Inc()
	m.ChartDuration.WithLabelValues(chartType).Observe(d.Seconds())
	if status == "success" {
		m.LastSuccessfulChart.Set(float64(at.Unix()))
	}
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves metrics from a specific gatherer.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
