package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/11X0r/network-monitor/internal/config"
	"github.com/11X0r/network-monitor/internal/logsink"
	"github.com/11X0r/network-monitor/internal/metrics"
	"github.com/11X0r/network-monitor/internal/monitor"
	"github.com/11X0r/network-monitor/internal/probe"
	"github.com/11X0r/network-monitor/internal/stuncheck"
)

const usage = `netmon - adaptive network reachability monitor

Usage:
  netmon run --config <path>
  netmon init --config <path> [--target <host>]
  netmon doctor --config <path>
  netmon stats --config <path> [--window 15m]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		fmt.Print(usage)
	case "run":
		handleRun(os.Args[2:])
	case "init":
		handleInit(os.Args[2:])
	case "doctor":
		handleDoctor(os.Args[2:])
	case "stats":
		handleStats(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func handleRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	_ = fs.Parse(args)

	cfg, err := loadValidated(*configPath)
	if err != nil {
		fatal(err)
	}
	m := cfg.Monitor

	logger, closer := logsink.New(m.LogPath)
	if closer != nil {
		defer closer.Close()
	}

	prober, err := probe.New(m.Target, nil)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	var collector *metrics.Collector
	if m.PromListen != "" {
		collector = metrics.NewCollector()
		collector.Serve(m.PromListen)
		logger.Info().Str("listen", m.PromListen).Msg("prometheus endpoint up")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(m, prober, logger, collector)
	if err := mon.Run(ctx); err != nil {
		os.Exit(1)
	}
}

func handleInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	target := fs.String("target", "", "probe target host")
	_ = fs.Parse(args)

	if *configPath == "" {
		fatal(errors.New("--config is required"))
	}
	if _, err := os.Stat(*configPath); err == nil {
		fatal(fmt.Errorf("%s already exists", *configPath))
	}

	cfg := config.Config{Monitor: &config.MonitorConfig{Target: *target}}
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}
	if err := config.Save(*configPath, cfg); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s (target %s)\n", *configPath, cfg.Monitor.Target)
}

func handleDoctor(args []string) {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	_ = fs.Parse(args)

	cfg, err := loadValidated(*configPath)
	if err != nil {
		fatal(err)
	}
	m := cfg.Monitor
	ctx := context.Background()
	failed := false

	prober, err := probe.New(m.Target, nil)
	if err != nil {
		fmt.Printf("probe primitive: FAIL (%v)\n", err)
		failed = true
	} else {
		fmt.Printf("probe primitive: ok (%s on PATH)\n", probe.PrimitiveName)
		timeout := time.Duration(m.ProbeTimeoutSec * float64(time.Second))
		res, err := prober.Probe(ctx, 1, timeout)
		switch {
		case err != nil:
			fmt.Printf("probe round-trip: FAIL (%v)\n", err)
			failed = true
		case len(res.Samples) == 0:
			fmt.Printf("probe round-trip: no reply from %s\n", m.Target)
		default:
			fmt.Printf("probe round-trip: ok (%.1f ms to %s)\n", res.Samples[0], m.Target)
		}
	}

	if len(m.STUNServers) > 0 {
		report, err := stuncheck.Check(ctx, m.STUNServers, 5*time.Second)
		if err != nil {
			fmt.Printf("stun binding: FAIL (%v)\n", err)
			failed = true
		} else {
			fmt.Printf("stun binding: ok (public %s, nat %s)\n", report.PublicAddr, report.NATType)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func handleStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	window := fs.Duration("window", 15*time.Minute, "summarize records newer than this")
	_ = fs.Parse(args)

	cfg, err := loadValidated(*configPath)
	if err != nil {
		fatal(err)
	}

	items, err := metrics.ReadCSV(cfg.Monitor.MetricsPath)
	if err != nil {
		fatal(err)
	}

	s := metrics.Summarize(items, time.Now().UTC().Add(-*window))
	if s.Count == 0 {
		fmt.Println("no cycles recorded in window")
		return
	}
	fmt.Printf("cycles:     %d (%s .. %s)\n", s.Count, s.From.Format(time.RFC3339), s.To.Format(time.RFC3339))
	fmt.Printf("rtt ms:     avg %.1f  p95 %.1f  min %.1f  max %.1f\n", s.AvgRTTMs, s.P95RTTMs, s.MinRTTMs, s.MaxRTTMs)
	fmt.Printf("jitter ms:  avg %.1f\n", s.AvgJitterMs)
	fmt.Printf("loss pct:   avg %.1f\n", s.AvgLossPct)
	fmt.Printf("health:     avg %.2f\n", s.AvgHealth)
}

func loadValidated(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, errors.New("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
