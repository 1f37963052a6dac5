package probe

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

// fakeRunner returns canned output/error without touching the system.
type fakeRunner struct {
	out string
	err error
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return f.out, f.err
}

const pingStatsOutput = `PING 1.1.1.1
seq=0 time=12.4 ms
seq=1 time=13.1 ms
seq=2 time=11.9 ms
3 packets transmitted, 3 received
`

func TestProbe_ParsesSamples(t *testing.T) {
	t.Parallel()

	p := NewWithPath("/usr/bin/ping_stats", "1.1.1.1", &fakeRunner{out: pingStatsOutput})
	res, err := p.Probe(context.Background(), 3, time.Second)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.Sent != 3 || res.Received != 3 {
		t.Fatalf("sent/received=%d/%d", res.Sent, res.Received)
	}
	if len(res.Samples) != 3 || res.Samples[0] != 12.4 || res.Samples[2] != 11.9 {
		t.Fatalf("samples=%v", res.Samples)
	}
	if res.LossRatio() != 0 {
		t.Fatalf("loss=%.2f", res.LossRatio())
	}
}

func TestProbe_PartialLossFromSummary(t *testing.T) {
	t.Parallel()

	out := "seq=0 time=40.0 ms\n5 packets transmitted, 1 received\n"
	p := NewWithPath("/usr/bin/ping_stats", "1.1.1.1", &fakeRunner{out: out})
	res, err := p.Probe(context.Background(), 5, time.Second)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.Sent != 5 || res.Received != 1 {
		t.Fatalf("sent/received=%d/%d", res.Sent, res.Received)
	}
	if got := res.LossRatio(); got != 0.8 {
		t.Fatalf("loss=%.2f", got)
	}
}

func TestProbe_PingStyleOutput(t *testing.T) {
	t.Parallel()

	out := "64 bytes from 1.1.1.1: icmp_seq=1 ttl=57 time=8.32 ms\n2 packets transmitted, 1 received\n"
	p := NewWithPath("ping", "1.1.1.1", &fakeRunner{out: out})
	res, err := p.Probe(context.Background(), 2, time.Second)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(res.Samples) != 1 || res.Samples[0] != 8.32 {
		t.Fatalf("samples=%v", res.Samples)
	}
}

func TestProbe_TimeoutKeepsPartialResult(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{out: "seq=0 time=200.0 ms", err: context.DeadlineExceeded}
	p := NewWithPath("/usr/bin/ping_stats", "1.1.1.1", runner)
	res, err := p.Probe(context.Background(), 4, time.Second)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err=%v", err)
	}
	if res.Sent != 4 || res.Received != 1 {
		t.Fatalf("sent/received=%d/%d", res.Sent, res.Received)
	}
}

func TestProbe_MissingBinaryIsUnavailable(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: &exec.Error{Name: "sudo", Err: exec.ErrNotFound}}
	p := NewWithPath("/usr/bin/ping_stats", "1.1.1.1", runner)
	_, err := p.Probe(context.Background(), 1, time.Second)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestProbe_NonZeroExitScoredAsLoss(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{out: "", err: errors.New("exit status 1")}
	p := NewWithPath("/usr/bin/ping_stats", "1.1.1.1", runner)
	res, err := p.Probe(context.Background(), 3, time.Second)
	if err != nil {
		t.Fatalf("nonzero exit must not be fatal: %v", err)
	}
	if res.Received != 0 || res.Sent != 3 {
		t.Fatalf("sent/received=%d/%d", res.Sent, res.Received)
	}
	if res.LossRatio() != 1 {
		t.Fatalf("loss=%.2f", res.LossRatio())
	}
}

func TestProbe_RejectsBadArguments(t *testing.T) {
	t.Parallel()

	p := NewWithPath("/usr/bin/ping_stats", "1.1.1.1", &fakeRunner{})
	if _, err := p.Probe(context.Background(), 0, time.Second); err == nil {
		t.Fatal("expected error for packetCount=0")
	}
	if _, err := p.Probe(context.Background(), 1, 0); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestParseOutput_ReceivedNeverExceedsSent(t *testing.T) {
	t.Parallel()

	out := "seq=0 time=1.0 ms\nseq=1 time=1.0 ms\nseq=2 time=1.0 ms\n"
	res := parseOutput(out, 2)
	if res.Received > res.Sent {
		t.Fatalf("received=%d sent=%d", res.Received, res.Sent)
	}
}
