package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"conv3d/internal/models"
)

// Collector holds the metrics of one program run in its own registry.
type Collector struct {
	registry  *prometheus.Registry
	files     *prometheus.CounterVec
	durations *prometheus.HistogramVec
	runStart  time.Time
	runTime   prometheus.Gauge
}

// NewCollector creates and registers all conversion metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conv3d_files_total",
				Help: "Files processed, by source format and result",
			},
			[]string{"format", "result"},
		),
		durations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conv3d_conversion_seconds",
				Help:    "Time spent in the external converter per file",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"format"},
		),
		runTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "conv3d_run_duration_seconds",
				Help: "Wall time of the whole run",
			},
		),
		runStart: time.Now(),
	}
}

// Observe records one processed file. Skipped files carry no duration.
func (c *Collector) Observe(format models.Format, result string, took time.Duration) {
	c.files.WithLabelValues(string(format), result).Inc()
	if took > 0 {
		c.durations.WithLabelValues(string(format)).Observe(took.Seconds())
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all metrics in the text exposition format, e.g. for
// the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	c.runTime.Set(time.Since(c.runStart).Seconds())
	return prometheus.WriteToTextfile(path, c.registry)
}
