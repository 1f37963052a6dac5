package score

import (
	"testing"

	"github.com/11X0r/network-monitor/internal/config"
	"github.com/11X0r/network-monitor/internal/probe"
)

var (
	latency = config.Threshold{GoodMs: 30, BadMs: 200}
	jitter  = config.Threshold{GoodMs: 5, BadMs: 50}
)

func TestScore_PerfectCycle(t *testing.T) {
	t.Parallel()

	res := probe.Result{Samples: []float64{10, 10.2, 9.8, 10.1}, Sent: 4, Received: 4}
	cs := Score(res, latency, jitter)
	if cs.LatencyQuality != 1 {
		t.Fatalf("latency_quality=%.3f", cs.LatencyQuality)
	}
	if cs.JitterQuality != 1 {
		t.Fatalf("jitter_quality=%.3f", cs.JitterQuality)
	}
	if cs.LossRatio != 0 {
		t.Fatalf("loss=%.3f", cs.LossRatio)
	}
}

func TestScore_TotalLoss(t *testing.T) {
	t.Parallel()

	cs := Score(probe.Result{Sent: 5, Received: 0}, latency, jitter)
	if cs.LatencyQuality != 0 {
		t.Fatalf("latency_quality=%.3f", cs.LatencyQuality)
	}
	if cs.LossRatio != 1 {
		t.Fatalf("loss=%.3f", cs.LossRatio)
	}
}

func TestScore_LinearRamp(t *testing.T) {
	t.Parallel()

	// Mean 115ms sits exactly halfway between good (30) and bad (200).
	res := probe.Result{Samples: []float64{115, 115}, Sent: 2, Received: 2}
	cs := Score(res, latency, jitter)
	if cs.LatencyQuality < 0.499 || cs.LatencyQuality > 0.501 {
		t.Fatalf("latency_quality=%.3f, want 0.5", cs.LatencyQuality)
	}
}

func TestScore_BeyondBadClampsToZero(t *testing.T) {
	t.Parallel()

	res := probe.Result{Samples: []float64{1000, 2000}, Sent: 2, Received: 2}
	cs := Score(res, latency, jitter)
	if cs.LatencyQuality != 0 || cs.JitterQuality != 0 {
		t.Fatalf("qualities=%.3f/%.3f", cs.LatencyQuality, cs.JitterQuality)
	}
}

func TestScore_SingleSampleJitterOptimistic(t *testing.T) {
	t.Parallel()

	res := probe.Result{Samples: []float64{500}, Sent: 3, Received: 1}
	cs := Score(res, latency, jitter)
	if cs.JitterQuality != 1 {
		t.Fatalf("jitter_quality=%.3f, want 1 for single sample", cs.JitterQuality)
	}
	if cs.LatencyQuality != 0 {
		t.Fatalf("latency_quality=%.3f", cs.LatencyQuality)
	}
}

func TestStdDev(t *testing.T) {
	t.Parallel()

	if got := StdDev([]float64{5, 5, 5}); got != 0 {
		t.Fatalf("stddev=%v", got)
	}
	if got := StdDev([]float64{2, 4}); got != 1 {
		t.Fatalf("stddev=%v", got)
	}
	if got := StdDev([]float64{7}); got != 0 {
		t.Fatalf("stddev of single value=%v", got)
	}
}

func TestCombined(t *testing.T) {
	t.Parallel()

	cs := CycleScore{LatencyQuality: 1, JitterQuality: 0}
	if got := cs.Combined(); got != 0.5 {
		t.Fatalf("combined=%v", got)
	}
}
