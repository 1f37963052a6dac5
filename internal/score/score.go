// Package score turns raw probe results into normalized quality scores.
package score

import (
	"math"

	"github.com/11X0r/network-monitor/internal/config"
	"github.com/11X0r/network-monitor/internal/probe"
)

// CycleScore is the quality snapshot of one probe cycle. All fields are
// in [0,1]; 1 is best for the qualities, 0 is best for loss.
type CycleScore struct {
	LatencyQuality float64
	JitterQuality  float64
	LossRatio      float64
}

// Score converts one probe result into a CycleScore.
//
// Latency quality ramps linearly from 1.0 at the good threshold down to
// 0.0 at the bad threshold, applied to the mean RTT. Jitter quality
// applies the same ramp to the sample standard deviation. Total loss
// scores latency 0; fewer than two samples score jitter 1.0 so a lone
// successful probe is not penalized for an uncomputable variance.
func Score(res probe.Result, latency, jitter config.Threshold) CycleScore {
	cs := CycleScore{LossRatio: res.LossRatio()}

	if len(res.Samples) == 0 {
		cs.LatencyQuality = 0
		cs.JitterQuality = 1
		return cs
	}

	cs.LatencyQuality = ramp(Mean(res.Samples), latency.GoodMs, latency.BadMs)
	if len(res.Samples) < 2 {
		cs.JitterQuality = 1
	} else {
		cs.JitterQuality = ramp(StdDev(res.Samples), jitter.GoodMs, jitter.BadMs)
	}
	return cs
}

// Combined is the plain average of the two qualities, used by the
// stability window as a single per-cycle signal.
func (s CycleScore) Combined() float64 {
	return (s.LatencyQuality + s.JitterQuality) / 2
}

// ramp maps v <= good to 1.0, v >= bad to 0.0, linear in between.
// Callers guarantee good < bad via config validation.
func ramp(v, good, bad float64) float64 {
	switch {
	case v <= good:
		return 1
	case v >= bad:
		return 0
	default:
		return (bad - v) / (bad - good)
	}
}

// Mean is the arithmetic mean of values; 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation; 0 with fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
