// Package services wires the billing pipeline together.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgenative/bill95/internal/config"
	"github.com/edgenative/bill95/internal/logger"
	"github.com/edgenative/bill95/internal/metrics"
	"github.com/edgenative/bill95/internal/models"
	"github.com/edgenative/bill95/internal/services/discovery"
	"github.com/edgenative/bill95/internal/services/percentile"
	"github.com/edgenative/bill95/internal/services/period"
	"github.com/edgenative/bill95/internal/services/report"
	"github.com/edgenative/bill95/internal/services/rrd"
)

// PortSource returns the ports to report on.
type PortSource interface {
	Discover(ctx context.Context) ([]models.Port, error)
}

// SeriesReader returns the samples of a port inside a window.
type SeriesReader interface {
	Read(ctx context.Context, port models.Port, window models.Window) (models.Series, error)
}

// Manager runs the pipeline once: window, discovery, per-port statistics,
// rendering and delivery.
type Manager struct {
	cfg      *config.Config
	clock    clockwork.Clock
	period   *period.Service
	ports    PortSource
	reader   SeriesReader
	emitter  report.Emitter
	recorder *metrics.Recorder
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock sets the clock used for the reporting window and timings.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithPortSource replaces Observium discovery.
func WithPortSource(src PortSource) Option {
	return func(m *Manager) { m.ports = src }
}

// WithReader replaces the RRD reader.
func WithReader(r SeriesReader) Option {
	return func(m *Manager) { m.reader = r }
}

// WithEmitter replaces the console/email emitter.
func WithEmitter(e report.Emitter) Option {
	return func(m *Manager) { m.emitter = e }
}

// NewManager creates a Manager from cfg. The report is written to stdout
// unless cfg.Email is set.
func NewManager(cfg *config.Config, stdout io.Writer, opts ...Option) *Manager {
	m := &Manager{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}
	m.period = period.New(m.clock)
	if m.ports == nil {
		m.ports = discovery.New(cfg.Database)
	}
	if m.reader == nil {
		m.reader = rrd.NewReader(cfg.RRDTool, rrd.ObserviumLayout(cfg.RRDBase))
	}
	if m.emitter == nil {
		if cfg.Email != "" {
			m.emitter = report.NewMailEmitter(cfg.SMTP, cfg.Email)
		} else {
			m.emitter = report.NewConsoleEmitter(stdout)
		}
	}
	if cfg.MetricsFile != "" {
		m.recorder = metrics.NewRecorder()
	}
	return m
}

// Run executes the pipeline. Errors from discovery and delivery are fatal;
// per-port read errors only drop that port from the report.
func (m *Manager) Run(ctx context.Context) (*models.Report, error) {
	started := m.clock.Now()
	window := m.period.Current(m.cfg.PrevMonth)
	if !window.Valid() {
		return nil, fmt.Errorf("%w: [%s, %s)", period.ErrEmptyWindow,
			window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	}
	logger.Info("computing 95th percentile",
		"period", window.Label(), "start", window.Start, "end", window.End, "duration", window.Duration())

	ports, err := m.ports.Discover(ctx)
	if err != nil {
		return nil, err
	}

	rep := &models.Report{Window: window, GeneratedAt: started}
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := m.measure(ctx, port, window)
		if err != nil {
			if errors.Is(err, rrd.ErrFileNotFound) || errors.Is(err, rrd.ErrRead) {
				logger.Warn("skipping interface",
					"interface", port.DisplayName(), "alias", port.IfAlias, "error", err)
				rep.Skipped = append(rep.Skipped, models.SkippedPort{Port: port, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		rep.Entries = append(rep.Entries, entry)
	}

	body := report.Render(rep, report.Options{Charts: m.cfg.Graph && m.cfg.Email == ""})
	if err := m.emitter.Emit(ctx, rep.Title(), body); err != nil {
		logger.Error("report delivery failed", "period", window.Label(), "error", err)
		return nil, err
	}

	m.recordMetrics(rep, started)
	logger.Info("report complete",
		"interfaces", len(rep.Entries), "skipped", len(rep.Skipped), "customers", len(rep.Customers()))
	return rep, nil
}

// measure computes the report entry for one port. An empty window yields an
// unavailable entry rather than an error.
func (m *Manager) measure(ctx context.Context, port models.Port, window models.Window) (models.ReportEntry, error) {
	entry := models.ReportEntry{
		Port:     port,
		Customer: port.Customer(),
		Unit:     models.UnitBitsPerSecond,
	}

	series, err := m.reader.Read(ctx, port, window)
	if err != nil {
		return entry, err
	}

	rates := series.Rates()
	entry.Samples = len(rates)
	p95, err := percentile.P95(rates)
	if errors.Is(err, percentile.ErrEmptySeries) {
		logger.Warn("no samples in window", "interface", port.DisplayName(), "alias", port.IfAlias)
		return entry, nil
	}
	if err != nil {
		return entry, fmt.Errorf("computing percentile for %s: %w", port.DisplayName(), err)
	}

	entry.Percentile = p95
	entry.Available = true
	if m.cfg.Graph {
		entry.Rates = rates
	}
	logger.Debug("computed 95th percentile",
		"interface", port.DisplayName(), "samples", entry.Samples, "bps", p95)
	return entry, nil
}

func (m *Manager) recordMetrics(rep *models.Report, started time.Time) {
	if m.recorder == nil {
		return
	}
	finished := m.clock.Now()
	m.recorder.Observe(rep, finished.Sub(started), finished)
	if err := m.recorder.WriteTextfile(m.cfg.MetricsFile); err != nil {
		logger.Warn("failed to write metrics", "path", m.cfg.MetricsFile, "error", err)
	}
}
