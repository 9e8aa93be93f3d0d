package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bashhack/gitsave/internal/errors"
)

// CommandExecutor defines an interface for executing commands
type CommandExecutor interface {
	// Execute runs a command and returns an error if it did not exit cleanly
	Execute(ctx context.Context, cmd *exec.Cmd) error

	// ExecuteWithResult runs a command and captures its output and exit status.
	// It never fails: a command that cannot be started yields a Result with
	// exit status 1 and the start error on Stderr.
	ExecuteWithResult(ctx context.Context, cmd *exec.Cmd) Result
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements CommandExecutor.Execute
func (e *ExecExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		operation, args := splitArgs(cmd)

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}

		// Keep the *exec.ExitError reachable so callers can inspect the status
		wrappedErr := fmt.Errorf("%w: %w", errors.ErrGitOperationFailed, err)
		gitErr := errors.NewGitError(operation, args, wrappedErr, strings.TrimSpace(stderr.String()))
		return gitErr.WithExitCode(exitCode(err))
	}
	return nil
}

// ExecuteWithResult implements CommandExecutor.ExecuteWithResult
func (e *ExecExecutor) ExecuteWithResult(ctx context.Context, cmd *exec.Cmd) Result {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res
	}

	res.ExitCode = exitCode(err)

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The process never ran; surface why
		res.Stderr = joinLines(res.Stderr, err.Error())
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.Stderr = joinLines(res.Stderr, ctxErr.Error())
	}

	return res
}

// exitCode returns the process exit status for err, or 1 when the process
// did not run or was killed by a signal.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// splitArgs returns the git subcommand and its arguments, skipping the
// leading "git -C <path>" prefix added by runGit.
func splitArgs(cmd *exec.Cmd) (string, []string) {
	args := cmd.Args
	if len(args) > 0 {
		args = args[1:]
	}
	if len(args) >= 2 && args[0] == "-C" {
		args = args[2:]
	}
	for len(args) >= 2 && args[0] == "-c" {
		args = args[2:]
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
