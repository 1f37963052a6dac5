package model

import "time"

// CycleRecord is one row of monitoring output: everything one cycle of
// the control loop measured and decided.
type CycleRecord struct {
	Timestamp      time.Time
	Target         string
	RTTMs          float64
	JitterMs       float64
	LossPct        float64
	LatencyQuality float64
	JitterQuality  float64
	Stability      float64
	Trend          string
	Health         float64
	Tier           string
	IntervalSec    float64
	Packets        int
	Alert          string
}
