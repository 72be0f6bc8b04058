package batch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geodkit/geodesic"
)

// Metrics collects per-run counters on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Records      *prometheus.CounterVec   // mode, status
	Duration     *prometheus.HistogramVec // mode
	Iterations   *prometheus.HistogramVec // kind (newton, bisection)
	CacheLookups *prometheus.CounterVec   // result (hit, miss)
}

// iterationBuckets spans the closed-form cases up to the iteration cap.
var iterationBuckets = []float64{0, 1, 2, 3, 5, 8, 13, 20, 40, 83}

// NewMetrics registers the geodsolve collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.Records = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geodsolve_records_total",
		Help: "Input records processed, by mode and status.",
	}, []string{"mode", "status"})
	m.Duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geodsolve_record_duration_seconds",
		Help:    "Time spent solving one record.",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
	}, []string{"mode"})
	m.Iterations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geodsolve_inverse_iterations",
		Help:    "Newton and bisection steps taken by the inverse solver.",
		Buckets: iterationBuckets,
	}, []string{"kind"})
	m.CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geodsolve_cache_lookups_total",
		Help: "Result cache lookups, by result.",
	}, []string{"result"})
	m.registry.MustRegister(m.Records, m.Duration, m.Iterations, m.CacheLookups)
	return m
}

// Registry exposes the registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteFile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) record(mode string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Records.WithLabelValues(mode, status).Inc()
	m.Duration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) iterations(it geodesic.Iterations) {
	if m == nil {
		return
	}
	m.Iterations.WithLabelValues("newton").Observe(float64(it.Newton))
	m.Iterations.WithLabelValues("bisection").Observe(float64(it.Bisection))
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
