package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalCommandRunner implements the CommandRunner interface by executing
// binaries installed on the machine.
type LocalCommandRunner struct{}

var _ CommandRunner = &LocalCommandRunner{} // Compile-time check

// NewLocalCommandRunner creates a new instance of the local command runner.
func NewLocalCommandRunner() *LocalCommandRunner {
	return &LocalCommandRunner{}
}

// Run executes name in dir and returns its stdout.
// Analysis tools exit non-zero when they report findings, so on an exit
// error the captured stdout is returned together with the error.
func (r *LocalCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return out, fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), stderr)
	} else if err != nil {
		return nil, fmt.Errorf("%s failed: %w. Ensure it is installed and available on your PATH", name, err)
	}
	return out, nil
}
