// Package errors provides error handling utilities for the gitsave application.
//
// It defines the sentinel errors the application branches on and three typed
// errors that carry context about the failing operation:
//
//   - GitError: a git invocation failed (operation, arguments, output, exit status)
//   - LockError: the repository lock could not be acquired or released
//   - ConfigError: a configuration value was rejected
//
// All types unwrap, so callers use errors.Is and errors.As as usual:
//
//	if errors.Is(err, errors.ErrAlreadyRunning) {
//	    // another run owns the repository
//	}
//
// Pipeline outcomes are mapped onto ErrNothingToCommit, ErrCommitFailed and
// ErrPushFailed so the command line can pick an exit status from the error
// alone.
package errors
