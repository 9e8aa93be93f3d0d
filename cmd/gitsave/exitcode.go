package main

import (
	"context"

	"github.com/bashhack/gitsave/internal/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
	ExitEnvError    = 3
	ExitInterrupted = 130
)

// ExitCode maps the error returned by a run onto a process exit code.
// Nothing to commit is a success.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, errors.ErrNothingToCommit):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errors.ErrInvalidConfiguration):
		return ExitConfigError
	case errors.Is(err, errors.ErrGitNotFound),
		errors.Is(err, errors.ErrNotGitRepository),
		errors.Is(err, errors.ErrAlreadyRunning),
		errors.Is(err, errors.ErrLockAcquisitionFailure),
		errors.Is(err, errors.ErrGitOperationFailed):
		return ExitEnvError
	}

	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	var lockErr *errors.LockError
	if errors.As(err, &lockErr) {
		return ExitEnvError
	}

	return ExitFailure
}
