package execx

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner abstracts command execution so packages can be unit-tested without
// invoking real system tools (ping_stats needs elevated privilege).
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Output runs the command under ctx and returns combined stdout+stderr.
// Partial output is returned alongside the error so callers can still
// parse what the tool printed before failing.
func (r *OSRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	out := strings.TrimSpace(buf.String())
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		return out, err
	}
	return out, nil
}
