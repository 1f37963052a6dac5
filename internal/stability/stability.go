// Package stability maintains the rolling window of cycle scores and
// derives the consistency signal the adapter feeds on.
package stability

import (
	"github.com/11X0r/network-monitor/internal/score"
)

// Trend describes the direction of recent quality movement.
type Trend int

const (
	TrendStable Trend = iota
	TrendImproving
	TrendDegrading
)

func (t Trend) String() string {
	switch t {
	case TrendImproving:
		return "improving"
	case TrendDegrading:
		return "degrading"
	default:
		return "stable"
	}
}

// Score is the per-cycle stability snapshot. Value is in [0,1]; high
// means quality has been consistent over the window.
type Score struct {
	Value float64
	Trend Trend
}

// maxVariance is the largest possible variance of values confined to
// [0,1], used to normalize window variance onto [0,1].
const maxVariance = 0.25

// Tracker owns a fixed-capacity FIFO window of recent cycle scores,
// implemented as a ring buffer. Single writer: the control loop.
type Tracker struct {
	scores  []score.CycleScore
	start   int
	length  int
	epsilon float64
}

// NewTracker creates a tracker with the given window capacity.
// Capacity must be positive; config validation guarantees it.
func NewTracker(capacity int, trendEpsilon float64) *Tracker {
	return &Tracker{
		scores:  make([]score.CycleScore, capacity),
		epsilon: trendEpsilon,
	}
}

// Len reports the number of scores currently held.
func (t *Tracker) Len() int { return t.length }

// Update appends the score, evicting the oldest entry when the window
// is full, and recomputes the stability snapshot.
func (t *Tracker) Update(s score.CycleScore) Score {
	if t.length < len(t.scores) {
		t.scores[(t.start+t.length)%len(t.scores)] = s
		t.length++
	} else {
		t.scores[t.start] = s
		t.start = (t.start + 1) % len(t.scores)
	}
	return t.snapshot()
}

// At returns the i-th score in insertion order, oldest first.
func (t *Tracker) At(i int) score.CycleScore {
	return t.scores[(t.start+i)%len(t.scores)]
}

func (t *Tracker) snapshot() Score {
	// Fewer than two data points cannot show instability; default
	// optimistic, matching the scorer's jitter policy.
	if t.length < 2 {
		return Score{Value: 1, Trend: TrendStable}
	}

	combined := make([]float64, t.length)
	for i := 0; i < t.length; i++ {
		combined[i] = t.At(i).Combined()
	}

	value := 1 - variance(combined)/maxVariance
	if value < 0 {
		value = 0
	}

	return Score{Value: value, Trend: t.trend(combined)}
}

// trend compares the mean of the newest third of the window against the
// oldest third. Windows smaller than 3 carry no direction.
func (t *Tracker) trend(combined []float64) Trend {
	third := len(combined) / 3
	if third == 0 {
		return TrendStable
	}
	oldest := mean(combined[:third])
	newest := mean(combined[len(combined)-third:])
	switch {
	case newest > oldest+t.epsilon:
		return TrendImproving
	case newest < oldest-t.epsilon:
		return TrendDegrading
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}
