package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bashhack/gitsave/internal/backup"
	"github.com/bashhack/gitsave/internal/common"
	"github.com/bashhack/gitsave/internal/config"
	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/errors"
	"github.com/bashhack/gitsave/internal/git"
	"github.com/bashhack/gitsave/internal/lock"
	"github.com/bashhack/gitsave/internal/logger"
	"github.com/bashhack/gitsave/internal/metrics"
)

// Runner executes one backup pass
type Runner interface {
	Run(ctx context.Context) *backup.Report
}

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// Logger alias to common.Logger
type Logger = common.Logger

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger Logger
	Locker Locker
	Runner Runner

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	Exit           func(code int)
	ExecLookPath   func(file string) (string, error)
	IsRepository   func(string) (bool, error)
	OpenRepository func(git.Options) (git.Repository, error)
	WriteMetrics   func(path string, report *backup.Report, repo string) error
	NewLocker      func(repoPath string) (Locker, error)
}

// App is the main gitsave application
type App struct {
	Config *config.Config
	Logger Logger
	Locker Locker
	Runner Runner

	// RunID identifies this invocation in logs and metrics.
	RunID string

	// Report is the result of the last pipeline run.
	Report *backup.Report

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	exit           func(code int)
	execLookPath   func(file string) (string, error)
	isRepository   func(string) (bool, error)
	openRepository func(git.Options) (git.Repository, error)
	writeMetrics   func(path string, report *backup.Report, repo string) error
	newLocker      func(repoPath string) (Locker, error)

	logCloser   io.Closer
	initialized bool
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return NewApp(AppOptions{
		Config:         cfg,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Exit:           os.Exit,
		ExecLookPath:   exec.LookPath,
		IsRepository:   git.IsRepository,
		OpenRepository: git.Open,
		WriteMetrics:   metrics.WriteTextfile,
	})
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:         opts.Config,
		Logger:         opts.Logger,
		Locker:         opts.Locker,
		Runner:         opts.Runner,
		Stdout:         opts.Stdout,
		Stderr:         opts.Stderr,
		exit:           opts.Exit,
		execLookPath:   opts.ExecLookPath,
		isRepository:   opts.IsRepository,
		openRepository: opts.OpenRepository,
		writeMetrics:   opts.WriteMetrics,
		newLocker:      opts.NewLocker,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		app.isRepository = git.IsRepository
	}
	if app.openRepository == nil {
		app.openRepository = git.Open
	}
	if app.writeMetrics == nil {
		app.writeMetrics = metrics.WriteTextfile
	}
	if app.newLocker == nil {
		app.newLocker = newRepositoryLocker
	}

	return app
}

func newRepositoryLocker(repoPath string) (Locker, error) {
	l, err := lock.New(repoPath)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Initialize finalizes the configuration and sets up the logger and lock.
// The repository itself is opened by Run, after the pre-flight checks.
func (a *App) Initialize() error {
	if a.initialized {
		return nil
	}

	if err := a.Config.Finalize(); err != nil {
		// Config.Finalize already returns a ConfigError
		if errors.Is(err, errors.ErrInvalidConfiguration) {
			return err
		}
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}

	if a.RunID == "" {
		a.RunID = uuid.NewString()
	}

	if a.Logger == nil {
		base := logger.NewWithOutput(a.Config.Debug, a.Config.LogFile, a.Config.Verbose, a.Stdout, a.Stderr)
		a.logCloser = base
		a.Logger = base.With("run_id", a.RunID)
	}
	a.Logger.Info("Configuration: %+v", a.Config.Redacted())

	if a.Locker == nil && a.Config.Lock {
		locker, err := a.newLocker(a.Config.RepoPath)
		if err != nil {
			return errors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	a.initialized = true
	return nil
}

// Run executes the pre-flight checks and one backup pass.
// The returned error is nil only when a commit was pushed.
func (a *App) Run(ctx context.Context) error {
	// Registered first so a logger opened by a failing Initialize is closed too
	defer func() {
		if err := a.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
		}
	}()

	if err := a.Initialize(); err != nil {
		return err
	}

	if err := a.checkRepository(); err != nil {
		return err
	}

	if a.Locker != nil {
		if err := a.Locker.Acquire(); err != nil {
			// Locker.Acquire already wraps its errors
			if errors.Is(err, errors.ErrAlreadyRunning) || errors.Is(err, errors.ErrLockAcquisitionFailure) {
				return err
			}
			return errors.Wrap(errors.ErrLockAcquisitionFailure, err.Error())
		}
		a.Logger.Info("Repository lock acquired")
	}

	if a.Runner == nil {
		runner, err := a.newRunner()
		if err != nil {
			return err
		}
		a.Runner = runner
	}

	a.Report = a.Runner.Run(ctx)
	a.PrintSummary()

	if a.Config.MetricsFile != "" {
		repoName := filepath.Base(a.Config.RepoPath)
		if err := a.writeMetrics(a.Config.MetricsFile, a.Report, repoName); err != nil {
			a.Logger.WarningToUser("Failed to write metrics: %v", err)
		} else {
			a.Logger.Info("Metrics written to %s", a.Config.MetricsFile)
		}
	}

	return a.Report.Err()
}

// checkRepository verifies git is installed (exec backend only) and that
// the configured path is a repository.
func (a *App) checkRepository() error {
	if a.Config.Backend != constants.BackendExec {
		// go-git reports a missing repository when it is opened
		return nil
	}

	if _, err := a.execLookPath("git"); err != nil {
		return errors.ErrGitNotFound
	}

	isRepo, err := a.isRepository(a.Config.RepoPath)
	if err != nil {
		a.Logger.Warning("Failed to check if path is a git repository: %v", err)
		return errors.Wrap(errors.ErrGitOperationFailed, err.Error())
	}
	if !isRepo {
		return errors.Wrap(errors.ErrNotGitRepository, a.Config.RepoPath)
	}

	a.Logger.Info("Git repository verified")
	return nil
}

func (a *App) newRunner() (*backup.Runner, error) {
	repo, err := a.openRepository(git.Options{
		Backend:        a.Config.Backend,
		Path:           a.Config.RepoPath,
		CommandTimeout: a.Config.CommandTimeout,
		Author: git.Signature{
			Name:  a.Config.AuthorName,
			Email: a.Config.AuthorEmail,
		},
		AuthToken: a.Config.AuthToken,
	})
	if err != nil {
		return nil, err
	}

	return backup.NewRunner(repo, a.Logger, backup.Options{
		ProjectName:    filepath.Base(a.Config.RepoPath),
		RunID:          a.RunID,
		RemoteName:     a.Config.RemoteName,
		RemoteURL:      a.Config.RemoteURL,
		Branch:         a.Config.Branch,
		MessagePrefix:  a.Config.MessagePrefix,
		PushRetries:    a.Config.PushRetries,
		PushRetryDelay: constants.DefaultPushRetryDelay,
	}), nil
}

// PrintSummary shows the outcome of the last run.
func (a *App) PrintSummary() {
	if a.Report == nil || !a.Config.Verbose {
		return
	}

	r := a.Report
	a.Logger.StatusMessage("")
	a.Logger.StatusMessage("---------------------------------------------")
	a.Logger.StatusMessage("📊 gitsave Run Summary")
	a.Logger.StatusMessage("---------------------------------------------")
	a.Logger.StatusMessage("🧾 Outcome: %s", r.Outcome)
	if r.Message != "" {
		a.Logger.StatusMessage("📝 Commit message: %s", r.Message)
	}
	a.Logger.StatusMessage("🌿 Target: %s/%s", a.Config.RemoteName, a.Config.Branch)
	a.Logger.StatusMessage("⏱️  Duration: %s", r.Duration().Round(time.Millisecond))

	for _, s := range r.Steps {
		a.Logger.Info("step=%s status=%s duration=%s detail=%q", s.Step, s.Status, s.Duration, s.Detail)
	}
}

// ShowVersion displays the banner and version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintln(a.Stdout, constants.Banner)
	_, _ = fmt.Fprintln(a.Stdout, "")
	_, _ = fmt.Fprintln(a.Stdout, constants.Tagline)
	_, _ = fmt.Fprintf(a.Stdout, "%s %s (%s) built on %s\n",
		constants.AppName,
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
		a.logCloser = nil
	}

	return errors.Join(errs...)
}
