// Package probe wraps the external ping_stats primitive. The primitive
// emits raw ICMP probes and therefore needs elevated privilege; it is
// invoked under sudo -n and must already be present on PATH.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/11X0r/network-monitor/internal/execx"
)

// PrimitiveName is the probing binary resolved from PATH.
const PrimitiveName = "ping_stats"

var (
	// ErrUnavailable means the probe primitive cannot be located or
	// invoked at all. The monitor cannot run without it.
	ErrUnavailable = errors.New("probe primitive unavailable")

	// ErrTimeout means the probe ran but did not complete in time.
	// Callers score this as total loss and keep going.
	ErrTimeout = errors.New("probe timed out")
)

// Result holds one probe round: ordered per-packet RTT samples plus the
// sent/received accounting. Received <= Sent always; an empty Samples
// slice with Sent > 0 is total loss.
type Result struct {
	Samples  []float64
	Sent     int
	Received int
}

// LossRatio is the fraction of probes that never came back.
func (r Result) LossRatio() float64 {
	if r.Sent == 0 {
		return 0
	}
	return 1 - float64(r.Received)/float64(r.Sent)
}

// Prober invokes the external primitive for a fixed target.
type Prober struct {
	binPath string
	target  string
	runner  execx.Runner
}

// New resolves the primitive on PATH. A missing or unresolvable binary
// is ErrUnavailable: there is nothing the caller can do but exit.
func New(target string, runner execx.Runner) (*Prober, error) {
	if target == "" {
		return nil, fmt.Errorf("probe target required")
	}
	path, err := exec.LookPath(PrimitiveName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found in PATH: %v", ErrUnavailable, PrimitiveName, err)
	}
	if runner == nil {
		runner = execx.NewOSRunner()
	}
	return &Prober{binPath: path, target: target, runner: runner}, nil
}

// NewWithPath skips PATH resolution; used by tests and doctor.
func NewWithPath(binPath, target string, runner execx.Runner) *Prober {
	return &Prober{binPath: binPath, target: target, runner: runner}
}

// Probe sends packetCount probes and collects per-packet RTTs.
// A timeout or a non-zero exit is a degraded measurement, not a fault:
// the returned Result reflects whatever packets did come back, and the
// error (if any) wraps ErrTimeout. Only invocation failures that mean
// the primitive itself is gone surface as ErrUnavailable.
func (p *Prober) Probe(ctx context.Context, packetCount int, timeout time.Duration) (Result, error) {
	if packetCount < 1 {
		return Result{}, fmt.Errorf("packetCount must be at least 1, got %d", packetCount)
	}
	if timeout <= 0 {
		return Result{}, fmt.Errorf("timeout must be positive, got %v", timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.runner.Output(ctx, "sudo", "-n", p.binPath, p.target, strconv.Itoa(packetCount))
	res := parseOutput(out, packetCount)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return res, fmt.Errorf("%w after %v: %d/%d received", ErrTimeout, timeout, res.Received, res.Sent)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		// Non-zero exit with parseable output is partial loss; without
		// output it is indistinguishable from total loss this cycle.
		return res, nil
	}
	return res, nil
}

var (
	rttRe     = regexp.MustCompile(`(?:icmp_)?seq=\d+.*?time=([0-9]+(?:\.[0-9]+)?) ?ms`)
	summaryRe = regexp.MustCompile(`(\d+) packets transmitted, (\d+) (?:packets )?received`)
)

// parseOutput extracts per-packet RTT lines and the transmitted/received
// summary. When the summary is missing, sent falls back to the requested
// count and received to the number of parsed samples.
func parseOutput(out string, requested int) Result {
	res := Result{Sent: requested}

	for _, m := range rttRe.FindAllStringSubmatch(out, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		res.Samples = append(res.Samples, v)
	}
	res.Received = len(res.Samples)

	if m := summaryRe.FindStringSubmatch(out); m != nil {
		if sent, err := strconv.Atoi(m[1]); err == nil && sent > 0 {
			res.Sent = sent
		}
		if recv, err := strconv.Atoi(m[2]); err == nil && recv >= len(res.Samples) {
			res.Received = recv
		}
	}

	if res.Received > res.Sent {
		res.Sent = res.Received
	}
	return res
}
