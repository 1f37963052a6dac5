package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTarget          = "1.1.1.1"
	DefaultProbeTimeoutSec = 10.0
	DefaultWindowCapacity  = 30
	DefaultTrendEpsilon    = 0.05
	DefaultHysteresis      = 2
	DefaultLogPath         = "netmon.log"
	DefaultMetricsPath     = "netmon_cycles.csv"
)

// Config is the top-level YAML document.
type Config struct {
	Monitor *MonitorConfig `yaml:"monitor,omitempty"`
}

// MonitorConfig holds all settings for the monitoring loop.
type MonitorConfig struct {
	Target          string  `yaml:"target"`
	ProbeTimeoutSec float64 `yaml:"probe_timeout_sec"`

	Latency Threshold `yaml:"latency"`
	Jitter  Threshold `yaml:"jitter"`

	WindowCapacity int     `yaml:"window_capacity"`
	TrendEpsilon   float64 `yaml:"trend_epsilon"`

	Weights Weights `yaml:"weights"`

	Tiers            Tiers   `yaml:"tiers"`
	HysteresisCycles int     `yaml:"hysteresis_cycles"`
	EmergencyHealth  float64 `yaml:"emergency_health"`

	WarnHealth     float64 `yaml:"warn_health"`
	CriticalHealth float64 `yaml:"critical_health"`

	LogPath     string   `yaml:"log_path"`
	MetricsPath string   `yaml:"metrics_path"`
	PromListen  string   `yaml:"prom_listen"`
	STUNServers []string `yaml:"stun_servers"`
}

// Threshold maps a raw millisecond measurement onto a quality ramp:
// values at or below GoodMs score 1.0, at or above BadMs score 0.0.
type Threshold struct {
	GoodMs float64 `yaml:"good_ms"`
	BadMs  float64 `yaml:"bad_ms"`
}

// Weights blend the per-cycle quality scores and the stability score
// into combined health. They must sum to 1.
type Weights struct {
	Latency   float64 `yaml:"latency"`
	Jitter    float64 `yaml:"jitter"`
	Stability float64 `yaml:"stability"`
}

// TierParams is one operating point of the adaptive loop.
type TierParams struct {
	IntervalSec float64 `yaml:"interval_sec"`
	Packets     int     `yaml:"packets"`
}

// Tiers configures the three operating points and the hard bounds the
// adapter clamps to.
type Tiers struct {
	Good     TierParams `yaml:"good"`
	Degraded TierParams `yaml:"degraded"`
	Poor     TierParams `yaml:"poor"`

	GoodHealth float64 `yaml:"good_health"`
	PoorHealth float64 `yaml:"poor_health"`

	MinIntervalSec float64 `yaml:"min_interval_sec"`
	MaxIntervalSec float64 `yaml:"max_interval_sec"`
	MinPackets     int     `yaml:"min_packets"`
	MaxPackets     int     `yaml:"max_packets"`
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o600)
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Monitor == nil {
		return
	}
	m := cfg.Monitor
	if m.Target == "" {
		m.Target = DefaultTarget
	}
	if m.ProbeTimeoutSec == 0 {
		m.ProbeTimeoutSec = DefaultProbeTimeoutSec
	}
	if m.Latency == (Threshold{}) {
		m.Latency = Threshold{GoodMs: 30, BadMs: 200}
	}
	if m.Jitter == (Threshold{}) {
		m.Jitter = Threshold{GoodMs: 5, BadMs: 50}
	}
	if m.WindowCapacity == 0 {
		m.WindowCapacity = DefaultWindowCapacity
	}
	if m.TrendEpsilon == 0 {
		m.TrendEpsilon = DefaultTrendEpsilon
	}
	if m.Weights == (Weights{}) {
		m.Weights = Weights{Latency: 0.4, Jitter: 0.3, Stability: 0.3}
	}
	if m.Tiers.Good == (TierParams{}) {
		m.Tiers.Good = TierParams{IntervalSec: 60, Packets: 5}
	}
	if m.Tiers.Degraded == (TierParams{}) {
		m.Tiers.Degraded = TierParams{IntervalSec: 20, Packets: 10}
	}
	if m.Tiers.Poor == (TierParams{}) {
		m.Tiers.Poor = TierParams{IntervalSec: 5, Packets: 20}
	}
	if m.Tiers.GoodHealth == 0 {
		m.Tiers.GoodHealth = 0.8
	}
	if m.Tiers.PoorHealth == 0 {
		m.Tiers.PoorHealth = 0.4
	}
	if m.Tiers.MinIntervalSec == 0 {
		m.Tiers.MinIntervalSec = 1
	}
	if m.Tiers.MaxIntervalSec == 0 {
		m.Tiers.MaxIntervalSec = 300
	}
	if m.Tiers.MinPackets == 0 {
		m.Tiers.MinPackets = 3
	}
	if m.Tiers.MaxPackets == 0 {
		m.Tiers.MaxPackets = 50
	}
	if m.HysteresisCycles == 0 {
		m.HysteresisCycles = DefaultHysteresis
	}
	if m.EmergencyHealth == 0 {
		m.EmergencyHealth = 0.15
	}
	if m.WarnHealth == 0 {
		m.WarnHealth = 0.6
	}
	if m.CriticalHealth == 0 {
		m.CriticalHealth = 0.3
	}
	if m.LogPath == "" {
		m.LogPath = DefaultLogPath
	}
	if m.MetricsPath == "" {
		m.MetricsPath = DefaultMetricsPath
	}
}

// Validate rejects configurations the control loop cannot run on.
// Threshold ordering and weight invariants are enforced here so the
// scorer and adapter never re-check them.
func Validate(cfg Config) error {
	if cfg.Monitor == nil {
		return fmt.Errorf("config must contain a monitor section")
	}
	m := cfg.Monitor
	if m.Target == "" {
		return fmt.Errorf("monitor.target is required")
	}
	if m.ProbeTimeoutSec <= 0 {
		return fmt.Errorf("monitor.probe_timeout_sec must be positive")
	}
	if m.Latency.GoodMs >= m.Latency.BadMs {
		return fmt.Errorf("monitor.latency: good_ms (%.1f) must be below bad_ms (%.1f)", m.Latency.GoodMs, m.Latency.BadMs)
	}
	if m.Jitter.GoodMs >= m.Jitter.BadMs {
		return fmt.Errorf("monitor.jitter: good_ms (%.1f) must be below bad_ms (%.1f)", m.Jitter.GoodMs, m.Jitter.BadMs)
	}
	if m.WindowCapacity <= 0 {
		return fmt.Errorf("monitor.window_capacity must be positive")
	}
	if m.Weights.Latency < 0 || m.Weights.Jitter < 0 || m.Weights.Stability < 0 {
		return fmt.Errorf("monitor.weights must be non-negative")
	}
	if sum := m.Weights.Latency + m.Weights.Jitter + m.Weights.Stability; math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("monitor.weights must sum to 1, got %.4f", sum)
	}
	if m.HysteresisCycles < 1 {
		return fmt.Errorf("monitor.hysteresis_cycles must be at least 1")
	}
	if m.Tiers.PoorHealth >= m.Tiers.GoodHealth {
		return fmt.Errorf("monitor.tiers: poor_health (%.2f) must be below good_health (%.2f)", m.Tiers.PoorHealth, m.Tiers.GoodHealth)
	}
	if m.Tiers.MinIntervalSec > m.Tiers.MaxIntervalSec {
		return fmt.Errorf("monitor.tiers: min_interval_sec exceeds max_interval_sec")
	}
	if m.Tiers.MinPackets > m.Tiers.MaxPackets {
		return fmt.Errorf("monitor.tiers: min_packets exceeds max_packets")
	}
	if m.Tiers.MinPackets < 1 {
		return fmt.Errorf("monitor.tiers.min_packets must be at least 1")
	}
	if m.CriticalHealth >= m.WarnHealth {
		return fmt.Errorf("monitor: critical_health (%.2f) must be below warn_health (%.2f)", m.CriticalHealth, m.WarnHealth)
	}
	return nil
}
