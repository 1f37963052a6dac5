// Package monitor drives the adaptive probing loop: one sequential
// cycle of probe, score, stability update, adaptation and alerting,
// then an interruptible sleep until the next cycle.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/11X0r/network-monitor/internal/adapt"
	"github.com/11X0r/network-monitor/internal/config"
	"github.com/11X0r/network-monitor/internal/metrics"
	"github.com/11X0r/network-monitor/internal/model"
	"github.com/11X0r/network-monitor/internal/probe"
	"github.com/11X0r/network-monitor/internal/score"
	"github.com/11X0r/network-monitor/internal/stability"
)

// State is the loop lifecycle.
type State int

const (
	StateRunning State = iota
	StateShuttingDown
	StateStopped
)

// Prober is the probing boundary; satisfied by *probe.Prober and faked
// in tests.
type Prober interface {
	Probe(ctx context.Context, packetCount int, timeout time.Duration) (probe.Result, error)
}

// Monitor owns all mutable loop state: the stability window, the
// adapter state and the current parameters. Nothing here is shared
// across goroutines; the loop is strictly sequential.
type Monitor struct {
	cfg       *config.MonitorConfig
	prober    Prober
	log       zerolog.Logger
	collector *metrics.Collector

	tracker    *stability.Tracker
	adaptState adapt.State
	params     adapt.Parameters
	alert      AlertState
	state      State
	cycles     int
}

// New builds a monitor starting at the degraded (middle) tier, so the
// first cycles probe at a moderate rate until real data arrives.
func New(cfg *config.MonitorConfig, p Prober, logger zerolog.Logger, collector *metrics.Collector) *Monitor {
	initial := adapt.Parameters{
		IntervalSec: cfg.Tiers.Degraded.IntervalSec,
		Packets:     cfg.Tiers.Degraded.Packets,
	}
	return &Monitor{
		cfg:        cfg,
		prober:     p,
		log:        logger,
		collector:  collector,
		tracker:    stability.NewTracker(cfg.WindowCapacity, cfg.TrendEpsilon),
		adaptState: adapt.NewState(adapt.TierDegraded),
		params:     initial,
	}
}

func (m *Monitor) State() State             { return m.state }
func (m *Monitor) Alert() AlertState        { return m.alert }
func (m *Monitor) Params() adapt.Parameters { return m.params }
func (m *Monitor) Cycles() int              { return m.cycles }

// Run executes cycles until ctx is cancelled (graceful, nil error) or
// the probe primitive disappears (fatal, probe.ErrUnavailable).
// Window and parameter updates are committed before the inter-cycle
// sleep, so cancellation during the sleep loses nothing.
func (m *Monitor) Run(ctx context.Context) error {
	m.state = StateRunning
	m.log.Info().
		Str("target", m.cfg.Target).
		Float64("interval_sec", m.params.IntervalSec).
		Int("packets", m.params.Packets).
		Msg("monitoring started")

	for {
		if ctx.Err() != nil {
			return m.shutdown()
		}

		if err := m.cycle(ctx); err != nil {
			m.state = StateShuttingDown
			m.log.Error().Err(err).Msg("probe primitive unavailable, monitoring cannot continue")
			m.state = StateStopped
			return err
		}

		timer := time.NewTimer(time.Duration(m.params.IntervalSec * float64(time.Second)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return m.shutdown()
		case <-timer.C:
		}
	}
}

func (m *Monitor) shutdown() error {
	m.state = StateShuttingDown
	m.log.Info().Int("cycles", m.cycles).Msg("monitoring stopped")
	m.state = StateStopped
	return nil
}

// cycle runs one full iteration. Only probe.ErrUnavailable propagates;
// every other probe outcome is scored and absorbed by adaptation.
func (m *Monitor) cycle(ctx context.Context) error {
	timeout := time.Duration(m.cfg.ProbeTimeoutSec * float64(time.Second))

	res, err := m.prober.Probe(ctx, m.params.Packets, timeout)
	if err != nil {
		if errors.Is(err, probe.ErrUnavailable) {
			return err
		}
		if ctx.Err() != nil {
			// Shutdown raced the probe; the outer loop handles it.
			return nil
		}
		m.log.Warn().Err(err).Int("received", res.Received).Msg("probe incomplete, scoring as loss")
		if res.Sent == 0 {
			res.Sent = m.params.Packets
		}
	}

	cs := score.Score(res, m.cfg.Latency, m.cfg.Jitter)
	stab := m.tracker.Update(cs)

	var health float64
	m.adaptState, m.params, health = adapt.Next(m.adaptState, m.params, cs, stab, m.cfg)

	prevAlert := m.alert
	m.alert = alertFor(health, m.cfg.WarnHealth, m.cfg.CriticalHealth)
	m.cycles++

	rec := model.CycleRecord{
		Timestamp:      time.Now().UTC(),
		Target:         m.cfg.Target,
		RTTMs:          score.Mean(res.Samples),
		JitterMs:       score.StdDev(res.Samples),
		LossPct:        cs.LossRatio * 100,
		LatencyQuality: cs.LatencyQuality,
		JitterQuality:  cs.JitterQuality,
		Stability:      stab.Value,
		Trend:          stab.Trend.String(),
		Health:         health,
		Tier:           m.adaptState.Tier.String(),
		IntervalSec:    m.params.IntervalSec,
		Packets:        m.params.Packets,
		Alert:          m.alert.String(),
	}

	m.logCycle(rec, prevAlert)

	if m.cfg.MetricsPath != "" {
		if err := metrics.AppendCSV(m.cfg.MetricsPath, []model.CycleRecord{rec}); err != nil {
			m.log.Warn().Err(err).Msg("append cycle record failed")
		}
	}
	if m.collector != nil {
		m.collector.Observe(rec, res.Sent-res.Received, int(m.alert))
	}
	return nil
}

func (m *Monitor) logCycle(rec model.CycleRecord, prevAlert AlertState) {
	if m.alert == AlertCritical && prevAlert != AlertCritical {
		m.log.Error().
			Str("target", rec.Target).
			Float64("health", rec.Health).
			Float64("loss_pct", rec.LossPct).
			Msg("ALERT: network health critical")
	}
	if m.alert != AlertCritical && prevAlert == AlertCritical {
		m.log.Info().
			Float64("health", rec.Health).
			Msg("network health recovered from critical")
	}

	var evt *zerolog.Event
	switch m.alert {
	case AlertCritical:
		evt = m.log.Error()
	case AlertDegraded:
		evt = m.log.Warn()
	default:
		evt = m.log.Info()
	}
	evt.
		Float64("rtt_ms", rec.RTTMs).
		Float64("jitter_ms", rec.JitterMs).
		Float64("loss_pct", rec.LossPct).
		Float64("health", rec.Health).
		Float64("stability", rec.Stability).
		Str("trend", rec.Trend).
		Str("tier", rec.Tier).
		Float64("interval_sec", rec.IntervalSec).
		Int("packets", rec.Packets).
		Str("quality", qualityLabel(rec.Health)).
		Msg("cycle")
}

// qualityLabel is the human-readable health level shown on each cycle
// line.
func qualityLabel(health float64) string {
	switch {
	case health >= 0.9:
		return "excellent"
	case health >= 0.75:
		return "good"
	case health >= 0.5:
		return "fair"
	case health >= 0.25:
		return "poor"
	default:
		return "bad"
	}
}
