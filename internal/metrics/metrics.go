// Package metrics exports run results in the Prometheus text format for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgenative/bill95/internal/models"
	"github.com/edgenative/bill95/internal/version"
)

// Recorder holds the metrics for a single run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	BuildInfo         *prometheus.GaugeVec
	PortP95           *prometheus.GaugeVec
	CustomerP95       *prometheus.GaugeVec
	PortsDiscovered   prometheus.Gauge
	PortsSkipped      prometheus.Gauge
	PortsUnavailable  prometheus.Gauge
	RunDuration       prometheus.Gauge
	LastRunTimestamp  prometheus.Gauge
	WindowStartSecond prometheus.Gauge
	WindowEndSecond   prometheus.Gauge
}

// NewRecorder creates and registers the bill95 metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		BuildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bill95_build_info",
			Help: "Build information of bill95",
		}, []string{"version", "commit", "date"}),
		PortP95: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bill95_port_p95_bits_per_second",
			Help: "95th percentile of the busier direction per customer port",
		}, []string{"customer", "hostname", "ifindex", "ifdescr"}),
		CustomerP95: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bill95_customer_p95_bits_per_second",
			Help: "Billable 95th percentile per customer (max over its ports)",
		}, []string{"customer"}),
		PortsDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_ports_discovered",
			Help: "Number of customer-tagged ports found in Observium",
		}),
		PortsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_ports_skipped",
			Help: "Number of ports skipped because their RRD was missing or unreadable",
		}),
		PortsUnavailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_ports_unavailable",
			Help: "Number of ports with no samples in the window",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		WindowStartSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_window_start_timestamp_seconds",
			Help: "Start of the reporting window",
		}),
		WindowEndSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bill95_window_end_timestamp_seconds",
			Help: "End of the reporting window",
		}),
	}

	r.registry.MustRegister(
		r.BuildInfo, r.PortP95, r.CustomerP95,
		r.PortsDiscovered, r.PortsSkipped, r.PortsUnavailable,
		r.RunDuration, r.LastRunTimestamp, r.WindowStartSecond, r.WindowEndSecond,
	)
	r.BuildInfo.WithLabelValues(version.GetVersion(), version.GetCommit(), version.GetDate()).Set(1)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records the outcome of a run.
func (r *Recorder) Observe(rep *models.Report, duration time.Duration, finished time.Time) {
	unavailable := 0
	for _, e := range rep.Entries {
		if !e.Available {
			unavailable++
			continue
		}
		r.PortP95.WithLabelValues(
			e.Customer, e.Port.Hostname, strconv.FormatInt(e.Port.IfIndex, 10), e.Port.IfDescr,
		).Set(e.Percentile)
	}
	for _, c := range rep.Customers() {
		if c.Available {
			r.CustomerP95.WithLabelValues(c.Customer).Set(c.Percentile)
		}
	}

	r.PortsDiscovered.Set(float64(len(rep.Entries) + len(rep.Skipped)))
	r.PortsSkipped.Set(float64(len(rep.Skipped)))
	r.PortsUnavailable.Set(float64(unavailable))
	r.RunDuration.Set(duration.Seconds())
	r.LastRunTimestamp.Set(float64(finished.Unix()))
	r.WindowStartSecond.Set(float64(rep.Window.Start.Unix()))
	r.WindowEndSecond.Set(float64(rep.Window.End.Unix()))
}

// WriteTextfile atomically writes the metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
