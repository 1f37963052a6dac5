package stability

import (
	"testing"

	"github.com/11X0r/network-monitor/internal/score"
)

func quality(v float64) score.CycleScore {
	return score.CycleScore{LatencyQuality: v, JitterQuality: v}
}

func TestTracker_OptimisticWhenSparse(t *testing.T) {
	t.Parallel()

	tr := NewTracker(5, 0.05)
	s := tr.Update(quality(0.2))
	if s.Value != 1 || s.Trend != TrendStable {
		t.Fatalf("single entry: value=%.3f trend=%v", s.Value, s.Trend)
	}
}

func TestTracker_IdenticalScoresArePerfectlyStable(t *testing.T) {
	t.Parallel()

	tr := NewTracker(5, 0.05)
	var s Score
	for i := 0; i < 5; i++ {
		s = tr.Update(quality(1.0))
	}
	if s.Value != 1 {
		t.Fatalf("value=%.3f, want 1", s.Value)
	}
	if s.Trend != TrendStable {
		t.Fatalf("trend=%v, want stable", s.Trend)
	}
}

func TestTracker_VarianceLowersStability(t *testing.T) {
	t.Parallel()

	tr := NewTracker(10, 0.05)
	var s Score
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			s = tr.Update(quality(1.0))
		} else {
			s = tr.Update(quality(0.0))
		}
	}
	// Alternating 0/1 is maximum variance: stability bottoms out.
	if s.Value != 0 {
		t.Fatalf("value=%.3f, want 0", s.Value)
	}
}

func TestTracker_CapacityAndFIFOEviction(t *testing.T) {
	t.Parallel()

	const capacity = 4
	tr := NewTracker(capacity, 0.05)

	tr.Update(quality(0.123)) // the score that must be evicted
	for i := 0; i < capacity; i++ {
		tr.Update(quality(0.9))
	}

	if tr.Len() != capacity {
		t.Fatalf("len=%d, want %d", tr.Len(), capacity)
	}
	for i := 0; i < tr.Len(); i++ {
		if tr.At(i).LatencyQuality == 0.123 {
			t.Fatalf("oldest score still present at index %d", i)
		}
	}
}

func TestTracker_TrendImproving(t *testing.T) {
	t.Parallel()

	tr := NewTracker(9, 0.05)
	values := []float64{0.2, 0.2, 0.2, 0.5, 0.5, 0.5, 0.9, 0.9, 0.9}
	var s Score
	for _, v := range values {
		s = tr.Update(quality(v))
	}
	if s.Trend != TrendImproving {
		t.Fatalf("trend=%v, want improving", s.Trend)
	}
}

func TestTracker_TrendDegrading(t *testing.T) {
	t.Parallel()

	tr := NewTracker(9, 0.05)
	values := []float64{0.9, 0.9, 0.9, 0.5, 0.5, 0.5, 0.2, 0.2, 0.2}
	var s Score
	for _, v := range values {
		s = tr.Update(quality(v))
	}
	if s.Trend != TrendDegrading {
		t.Fatalf("trend=%v, want degrading", s.Trend)
	}
}

func TestTracker_TinyWindowHasNoTrend(t *testing.T) {
	t.Parallel()

	tr := NewTracker(2, 0.05)
	tr.Update(quality(0.1))
	s := tr.Update(quality(0.9))
	if s.Trend != TrendStable {
		t.Fatalf("trend=%v, want stable for window < 3", s.Trend)
	}
}

func TestTracker_EpsilonSuppressesNoise(t *testing.T) {
	t.Parallel()

	tr := NewTracker(6, 0.1)
	values := []float64{0.80, 0.80, 0.82, 0.81, 0.83, 0.84}
	var s Score
	for _, v := range values {
		s = tr.Update(quality(v))
	}
	if s.Trend != TrendStable {
		t.Fatalf("trend=%v, drift below epsilon must read stable", s.Trend)
	}
}
