package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/11X0r/network-monitor/internal/model"
)

// Summary is a basic statistics snapshot over recorded cycles.
type Summary struct {
	Count       int
	From        time.Time
	To          time.Time
	AvgRTTMs    float64
	P95RTTMs    float64
	MinRTTMs    float64
	MaxRTTMs    float64
	AvgJitterMs float64
	AvgLossPct  float64
	AvgHealth   float64
}

// Summarize computes summary metrics for records in a time window.
func Summarize(items []model.CycleRecord, since time.Time) Summary {
	filtered := make([]model.CycleRecord, 0, len(items))
	for _, m := range items {
		if m.Timestamp.After(since) || m.Timestamp.Equal(since) {
			filtered = append(filtered, m)
		}
	}

	if len(filtered) == 0 {
		return Summary{Count: 0}
	}

	values := make([]float64, 0, len(filtered))
	var sumRTT, sumJitter, sumLoss, sumHealth float64
	minRTT := math.MaxFloat64
	maxRTT := 0.0
	from := filtered[0].Timestamp
	to := filtered[0].Timestamp

	for _, m := range filtered {
		values = append(values, m.RTTMs)
		sumRTT += m.RTTMs
		sumJitter += m.JitterMs
		sumLoss += m.LossPct
		sumHealth += m.Health
		if m.RTTMs < minRTT {
			minRTT = m.RTTMs
		}
		if m.RTTMs > maxRTT {
			maxRTT = m.RTTMs
		}
		if m.Timestamp.Before(from) {
			from = m.Timestamp
		}
		if m.Timestamp.After(to) {
			to = m.Timestamp
		}
	}

	sort.Float64s(values)
	count := float64(len(filtered))

	return Summary{
		Count:       len(filtered),
		From:        from,
		To:          to,
		AvgRTTMs:    sumRTT / count,
		P95RTTMs:    percentile(values, 0.95),
		MinRTTMs:    minRTT,
		MaxRTTMs:    maxRTT,
		AvgJitterMs: sumJitter / count,
		AvgLossPct:  sumLoss / count,
		AvgHealth:   sumHealth / count,
	}
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(values)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}
