package monitor

// AlertState escalates log output as combined health falls through the
// configured warn and critical thresholds.
type AlertState int

const (
	AlertNormal AlertState = iota
	AlertDegraded
	AlertCritical
)

func (a AlertState) String() string {
	switch a {
	case AlertDegraded:
		return "degraded"
	case AlertCritical:
		return "critical"
	default:
		return "normal"
	}
}

func alertFor(health, warn, critical float64) AlertState {
	switch {
	case health < critical:
		return AlertCritical
	case health < warn:
		return AlertDegraded
	default:
		return AlertNormal
	}
}
