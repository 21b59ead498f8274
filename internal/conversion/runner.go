package conversion

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"conv3d/internal/logging"
)

// ToolRunner runs an external converter executable.
type ToolRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs tools as subprocesses. The process is killed when ctx is
// cancelled or Timeout elapses.
type ExecRunner struct {
	Timeout time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logging.L().With(zap.String("tool", name), zap.Strings("args", args))
	log.Debug("running external tool")
	start := time.Now()
	err := cmd.Run()
	log.Debug("external tool finished",
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
		zap.String("stdout", tail(stdout.String())),
		zap.String("stderr", tail(stderr.String())),
	)
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return errors.Wrapf(err, "converter %q is not installed or not on PATH", name)
	}
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Errorf("%s timed out after %s", name, r.Timeout)
	}
	if msg := tail(stderr.String()); msg != "" {
		return errors.Wrapf(err, "%s failed: %s", name, msg)
	}
	return errors.Wrapf(err, "%s failed", name)
}

// tail keeps the last lines of tool output for error messages.
func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
