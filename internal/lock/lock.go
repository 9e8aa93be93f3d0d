package lock

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"

	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/errors"
)

// Locker keeps two gitsave runs from working on the same repository at once.
// The lock is an flock'ed file holding the owner's PID.
type Locker struct {
	path     string
	file     *os.File
	pid      int
	acquired bool
}

// New creates a Locker for repoPath in the user's runtime directory,
// falling back to the system temporary directory.
func New(repoPath string) (*Locker, error) {
	dir := filepath.Join(xdg.RuntimeDir, constants.AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		dir = os.TempDir()
	}
	return NewInDir(repoPath, dir)
}

// NewInDir creates a Locker for repoPath whose lock file lives in dir.
func NewInDir(repoPath, dir string) (*Locker, error) {
	if runtime.GOOS == "windows" {
		return nil, errors.NewLockError("", 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure,
				"repository locking is only supported on Unix-like systems; run with --no-lock"))
	}

	return &Locker{
		path: filepath.Join(dir, FileName(repoPath)),
		pid:  os.Getpid(),
	}, nil
}

// FileName returns the lock file name for repoPath.
func FileName(repoPath string) string {
	sum := sha256.Sum256([]byte(repoPath))
	return fmt.Sprintf("%s-%x.lock", constants.AppName, sum[:8])
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.path
}

// Acquire takes the lock. It fails with ErrAlreadyRunning when a live
// process holds it and recovers locks left behind by dead processes.
func (l *Locker) Acquire() error {
	if l.acquired {
		return nil
	}

	err := l.create()
	if err == nil || !os.IsExist(err) {
		return err
	}

	return l.acquireExisting()
}

// create makes a fresh lock file. It returns the raw os error when the file
// already exists so the caller can tell the cases apart.
func (l *Locker) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return err
		}
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("failed to create lock file: %v", err)))
	}
	return l.own(f, "new lock file")
}

// acquireExisting locks a lock file left by someone else.
func (l *Locker) acquireExisting() error {
	f, err := os.OpenFile(l.path, os.O_RDWR, 0o600)
	if err != nil {
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("failed to open existing lock file: %v", err)))
	}

	if err := flock(f); err != nil {
		_ = f.Close()

		// Older systems report EWOULDBLOCK and EAGAIN as distinct codes.
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			return l.handleHeld()
		}
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("flock: %v", err)))
	}

	// Unlocked file: its owner exited without cleaning up.
	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("failed to truncate lock file: %v", err)))
	}
	return l.finish(f)
}

// handleHeld decides whether a held lock belongs to a live process.
func (l *Locker) handleHeld() error {
	otherPid, err := readPid(l.path)
	if err != nil {
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrAlreadyRunning, err.Error()))
	}

	if isProcessRunning(otherPid) {
		return errors.NewLockError(l.path, otherPid, errors.ErrAlreadyRunning)
	}

	return l.replaceStale(otherPid)
}

// replaceStale removes a lock whose owner is gone and creates a new one.
func (l *Locker) replaceStale(otherPid int) error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.NewLockError(l.path, otherPid,
			errors.Wrap(errors.ErrLockAcquisitionFailure,
				fmt.Sprintf("stale lock from PID %d could not be removed: %v", otherPid, err)))
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return errors.NewLockError(l.path, 0,
				errors.Wrap(errors.ErrAlreadyRunning, "another gitsave run took the lock after the stale one was removed"))
		}
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("failed to recreate lock file: %v", err)))
	}
	return l.own(f, "recreated lock file")
}

// own flocks a newly created file and records our PID in it.
func (l *Locker) own(f *os.File, what string) error {
	if err := flock(f); err != nil {
		_ = f.Close()
		return errors.NewLockError(l.path, 0,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("failed to lock %s: %v", what, err)))
	}
	return l.finish(f)
}

// finish writes our PID into a locked file and marks the lock as held.
func (l *Locker) finish(f *os.File) error {
	l.file = f
	if _, err := f.WriteAt([]byte(strconv.Itoa(l.pid)), 0); err != nil {
		writeErr := errors.NewLockError(l.path, l.pid,
			errors.Wrap(errors.ErrLockAcquisitionFailure, fmt.Sprintf("failed to write PID: %v", err)))
		if releaseErr := l.Release(); releaseErr != nil {
			return errors.Join(writeErr, releaseErr)
		}
		return writeErr
	}
	l.acquired = true
	return nil
}

// Release drops the lock and removes the lock file. It is safe to call
// more than once.
func (l *Locker) Release() error {
	if l.file == nil {
		return nil
	}

	var err error
	if flockErr := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); flockErr != nil {
		err = errors.NewLockError(l.path, l.pid, errors.Wrap(flockErr, "failed to release lock"))
	}

	// Always close and remove, even after an unlock failure
	if closeErr := l.file.Close(); closeErr != nil && err == nil {
		err = errors.NewLockError(l.path, l.pid, errors.Wrap(closeErr, "failed to close lock file"))
	}
	l.file = nil
	l.acquired = false

	if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
		err = errors.NewLockError(l.path, l.pid, errors.Wrap(removeErr, "failed to remove lock file"))
	}

	return err
}

func flock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "invalid PID in lock file")
	}
	return pid, nil
}

// isProcessRunning checks if a process exists using signal 0
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
