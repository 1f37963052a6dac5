package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/11X0r/network-monitor/internal/model"
)

// Collector exposes the loop's current operating state as Prometheus
// gauges. A dedicated registry keeps registration collision-free.
type Collector struct {
	registry *prometheus.Registry

	rtt       prometheus.Gauge
	jitter    prometheus.Gauge
	loss      prometheus.Gauge
	latQ      prometheus.Gauge
	jitQ      prometheus.Gauge
	stability prometheus.Gauge
	health    prometheus.Gauge
	interval  prometheus.Gauge
	packets   prometheus.Gauge
	alert     prometheus.Gauge

	cycles     prometheus.Counter
	lostProbes prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rtt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_rtt_ms",
			Help: "Mean round-trip time of the last probe cycle.",
		}),
		jitter: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_jitter_ms",
			Help: "RTT standard deviation of the last probe cycle.",
		}),
		loss: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_loss_ratio",
			Help: "Packet loss ratio of the last probe cycle.",
		}),
		latQ: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_latency_quality",
			Help: "Latency quality score in [0,1].",
		}),
		jitQ: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_jitter_quality",
			Help: "Jitter quality score in [0,1].",
		}),
		stability: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_stability",
			Help: "Stability score over the rolling window in [0,1].",
		}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_health",
			Help: "Combined weighted health in [0,1].",
		}),
		interval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_interval_seconds",
			Help: "Current inter-cycle sampling interval.",
		}),
		packets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_probe_packets",
			Help: "Packet count for the next probe cycle.",
		}),
		alert: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netmon_alert_state",
			Help: "Alert state: 0 normal, 1 degraded, 2 critical.",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netmon_cycles_total",
			Help: "Total completed probe cycles.",
		}),
		lostProbes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netmon_lost_probes_total",
			Help: "Total probe packets that never returned.",
		}),
	}

	c.registry.MustRegister(
		c.rtt, c.jitter, c.loss, c.latQ, c.jitQ, c.stability,
		c.health, c.interval, c.packets, c.alert, c.cycles, c.lostProbes,
	)
	return c
}

// Observe publishes one completed cycle.
func (c *Collector) Observe(rec model.CycleRecord, lost int, alertLevel int) {
	c.rtt.Set(rec.RTTMs)
	c.jitter.Set(rec.JitterMs)
	c.loss.Set(rec.LossPct / 100)
	c.latQ.Set(rec.LatencyQuality)
	c.jitQ.Set(rec.JitterQuality)
	c.stability.Set(rec.Stability)
	c.health.Set(rec.Health)
	c.interval.Set(rec.IntervalSec)
	c.packets.Set(float64(rec.Packets))
	c.alert.Set(float64(alertLevel))
	c.cycles.Inc()
	if lost > 0 {
		c.lostProbes.Add(float64(lost))
	}
}

// Handler returns the scrape handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve starts a scrape endpoint on addr in the background. The server
// lives for the remainder of the process; monitoring does not depend on
// it and never blocks on scrapes.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
