package cloudfoundry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Runner executes a single cf CLI command and returns its stdout.
// It is the only seam between the exporter and the external tool, so
// everything above it can be tested against a fake.
type Runner interface {
	Run(ctx context.Context, extraEnv []string, args ...string) ([]byte, error)
}

// ExecRunner runs the cf binary via os/exec.
type ExecRunner struct {
	// CLIPath is the cf binary to invoke, resolved through PATH when
	// not absolute.
	CLIPath string
}

// NewExecRunner creates a new ExecRunner for the given cf binary
func NewExecRunner(cliPath string) *ExecRunner {
	return &ExecRunner{CLIPath: cliPath}
}

// Run executes the cf command with the process environment plus
// extraEnv. Stderr is folded into the returned error so diagnostics
// are never swallowed.
func (r *ExecRunner) Run(ctx context.Context, extraEnv []string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.CLIPath, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("cf %s: %w: %s", commandName(args), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("cf %s: %w", commandName(args), err)
	}
	return out, nil
}

// commandName returns the subcommand for error messages without
// echoing full arguments, which may embed query strings.
func commandName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
