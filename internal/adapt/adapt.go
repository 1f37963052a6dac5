// Package adapt computes the next cycle's sampling parameters from the
// current quality and stability signals. It is a pure function over an
// explicitly threaded State so the hysteresis behaviour is testable
// without a running loop.
package adapt

import (
	"github.com/11X0r/network-monitor/internal/config"
	"github.com/11X0r/network-monitor/internal/score"
	"github.com/11X0r/network-monitor/internal/stability"
)

// Tier is one of the three operating points of the loop.
type Tier int

const (
	TierGood Tier = iota
	TierDegraded
	TierPoor
)

func (t Tier) String() string {
	switch t {
	case TierGood:
		return "good"
	case TierPoor:
		return "poor"
	default:
		return "degraded"
	}
}

// Parameters is the current operating point: how long to wait between
// cycles and how many packets to send per probe.
type Parameters struct {
	IntervalSec float64
	Packets     int
}

// observationCap bounds the tier observation history kept for
// hysteresis. It only needs to cover the configured streak length.
const observationCap = 8

// State carries the active tier and the recent tier observations.
// Value semantics: the control loop threads it through each cycle.
type State struct {
	Tier   Tier
	Recent []Tier
}

// NewState starts the adapter at the given tier with no history.
func NewState(initial Tier) State {
	return State{Tier: initial}
}

// Health blends the cycle qualities and the stability value with the
// configured weights. Weights sum to 1, so the result stays in [0,1].
func Health(cs score.CycleScore, st stability.Score, w config.Weights) float64 {
	return cs.LatencyQuality*w.Latency + cs.JitterQuality*w.Jitter + st.Value*w.Stability
}

// Classify maps combined health onto a tier.
func Classify(health float64, tiers config.Tiers) Tier {
	switch {
	case health >= tiers.GoodHealth:
		return TierGood
	case health < tiers.PoorHealth:
		return TierPoor
	default:
		return TierDegraded
	}
}

// Next decides the following cycle's parameters.
//
// The observed tier only becomes active once it has been seen for the
// configured number of consecutive cycles, so health hovering at a tier
// boundary cannot flap the interval. Health below the emergency
// threshold bypasses hysteresis and switches immediately.
func Next(st State, cur Parameters, cs score.CycleScore, stab stability.Score, m *config.MonitorConfig) (State, Parameters, float64) {
	health := Health(cs, stab, m.Weights)
	observed := Classify(health, m.Tiers)
	st = st.observe(observed)

	prev := st.Tier
	switch {
	case health < m.EmergencyHealth:
		st.Tier = observed
	case observed != st.Tier && st.consecutive(m.HysteresisCycles, observed):
		st.Tier = observed
	}

	params := cur
	if st.Tier != prev || cur == (Parameters{}) {
		params = tierParams(st.Tier, m.Tiers)
	}
	return st, clamp(params, m.Tiers), health
}

func tierParams(t Tier, tiers config.Tiers) Parameters {
	var tp config.TierParams
	switch t {
	case TierGood:
		tp = tiers.Good
	case TierPoor:
		tp = tiers.Poor
	default:
		tp = tiers.Degraded
	}
	return Parameters{IntervalSec: tp.IntervalSec, Packets: tp.Packets}
}

func clamp(p Parameters, tiers config.Tiers) Parameters {
	if p.IntervalSec < tiers.MinIntervalSec {
		p.IntervalSec = tiers.MinIntervalSec
	}
	if p.IntervalSec > tiers.MaxIntervalSec {
		p.IntervalSec = tiers.MaxIntervalSec
	}
	if p.Packets < tiers.MinPackets {
		p.Packets = tiers.MinPackets
	}
	if p.Packets > tiers.MaxPackets {
		p.Packets = tiers.MaxPackets
	}
	return p
}

func (s State) observe(t Tier) State {
	recent := make([]Tier, 0, len(s.Recent)+1)
	recent = append(recent, s.Recent...)
	recent = append(recent, t)
	if len(recent) > observationCap {
		recent = recent[len(recent)-observationCap:]
	}
	s.Recent = recent
	return s
}

// consecutive reports whether the newest n observations all equal t.
func (s State) consecutive(n int, t Tier) bool {
	if n < 1 {
		n = 1
	}
	if len(s.Recent) < n {
		return false
	}
	for i := len(s.Recent) - n; i < len(s.Recent); i++ {
		if s.Recent[i] != t {
			return false
		}
	}
	return true
}
