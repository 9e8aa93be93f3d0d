// Package lock provides the per-repository lock that keeps two gitsave
// runs from staging and committing in the same working tree at once.
//
// The lock file lives in $XDG_RUNTIME_DIR/gitsave (or the system temporary
// directory) and is named after a hash of the repository path:
//
//	gitsave-<repo-hash>.lock
//
// It is held with flock(2) and contains the owner's PID. A lock file whose
// owner has exited is recovered automatically.
//
// # Usage
//
//	locker, err := lock.New("/path/to/repo")
//	if err != nil {
//	    // Handle error
//	}
//	if err := locker.Acquire(); err != nil {
//	    // errors.Is(err, errors.ErrAlreadyRunning) when another run is active
//	}
//	defer locker.Release()
//
// # System Requirements
//
// Unix-like systems only. On Windows, New fails and the CLI suggests --no-lock.
package lock
