package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/gitsave/internal/backup"
	"github.com/bashhack/gitsave/internal/config"
	"github.com/bashhack/gitsave/internal/errors"
	"github.com/bashhack/gitsave/internal/git"
)

// MockRunner returns a canned report.
type MockRunner struct {
	Outcome backup.Outcome
	Detail  string
	Called  bool
}

func (m *MockRunner) Run(_ context.Context) *backup.Report {
	m.Called = true
	r := &backup.Report{Outcome: m.Outcome, Message: "Sauvegarde automatique - 2026-10-16 09:30:00"}
	switch m.Outcome {
	case backup.CommitFailed:
		r.Steps = []backup.StepResult{{Step: backup.StepCommit, Status: backup.Failed, Detail: m.Detail}}
	case backup.PushFailed:
		r.Steps = []backup.StepResult{{Step: backup.StepPush, Status: backup.Failed, Detail: m.Detail}}
	}
	return r
}

// MockLocker records lock calls.
type MockLocker struct {
	AcquireErr    error
	ReleaseErr    error
	AcquireCalled bool
	ReleaseCalled bool
}

func (m *MockLocker) Acquire() error {
	m.AcquireCalled = true
	return m.AcquireErr
}

func (m *MockLocker) Release() error {
	m.ReleaseCalled = true
	return m.ReleaseErr
}

// MockLogger discards everything.
type MockLogger struct{}

func (m *MockLogger) Info(format string, args ...interface{})          {}
func (m *MockLogger) Warning(format string, args ...interface{})       {}
func (m *MockLogger) Error(format string, args ...interface{})         {}
func (m *MockLogger) InfoToUser(format string, args ...interface{})    {}
func (m *MockLogger) WarningToUser(format string, args ...interface{}) {}
func (m *MockLogger) Success(format string, args ...interface{})       {}
func (m *MockLogger) StatusMessage(format string, args ...interface{}) {}

type metricsCall struct {
	path    string
	outcome backup.Outcome
	repo    string
}

type testApp struct {
	*App
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	runner  *MockRunner
	locker  *MockLocker
	metrics []metricsCall
	repo    string
	args    []string
}

// newTestApp builds an App whose git, lock and pipeline are all fakes.
// args already point --repo at a temp dir and --config at an empty file.
func newTestApp(t *testing.T, outcome backup.Outcome) *testApp {
	t.Helper()

	repo := t.TempDir()
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, nil, 0o600))

	ta := &testApp{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		runner: &MockRunner{Outcome: outcome},
		locker: &MockLocker{},
		repo:   repo,
		args:   []string{"--repo", repo, "--config", cfgFile},
	}

	ta.App = NewApp(AppOptions{
		Config:       config.New(),
		Logger:       &MockLogger{},
		Locker:       ta.locker,
		Runner:       ta.runner,
		Stdout:       ta.stdout,
		Stderr:       ta.stderr,
		Exit:         func(int) {},
		ExecLookPath: func(string) (string, error) { return "/usr/bin/git", nil },
		IsRepository: func(string) (bool, error) { return true, nil },
		WriteMetrics: func(path string, report *backup.Report, repo string) error {
			ta.metrics = append(ta.metrics, metricsCall{path: path, outcome: report.Outcome, repo: repo})
			return nil
		},
	})

	return ta
}

func (ta *testApp) execute(extra ...string) int {
	return ta.Execute(context.Background(), append(ta.args, extra...))
}

func TestExecuteOutcomes(t *testing.T) {
	tests := map[string]struct {
		outcome   backup.Outcome
		detail    string
		wantCode  int
		wantError string
	}{
		"pushed": {
			outcome:  backup.Pushed,
			wantCode: ExitOK,
		},
		"nothing to commit": {
			outcome:  backup.NothingToCommit,
			wantCode: ExitOK,
		},
		"commit failed": {
			outcome:   backup.CommitFailed,
			detail:    "Author identity unknown",
			wantCode:  ExitFailure,
			wantError: "commit failed: Author identity unknown",
		},
		"push failed": {
			outcome:   backup.PushFailed,
			detail:    "rejected",
			wantCode:  ExitFailure,
			wantError: "push failed: rejected",
		},
		"canceled": {
			outcome:   backup.Canceled,
			wantCode:  ExitInterrupted,
			wantError: "interrupted",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ta := newTestApp(t, tc.outcome)
			ta.runner.Detail = tc.detail

			code := ta.execute()

			assert.Equal(t, tc.wantCode, code)
			assert.True(t, ta.runner.Called)
			assert.True(t, ta.locker.AcquireCalled)
			assert.True(t, ta.locker.ReleaseCalled, "lock must be released after every run")
			require.NotNil(t, ta.Report)
			assert.Equal(t, tc.outcome, ta.Report.Outcome)

			if tc.wantError == "" {
				assert.Empty(t, ta.stderr.String())
			} else {
				assert.Contains(t, ta.stderr.String(), tc.wantError)
			}
		})
	}
}

func TestExecutePreflightFailures(t *testing.T) {
	tests := map[string]struct {
		setup    func(ta *testApp)
		wantCode int
		wantErr  string
	}{
		"git not installed": {
			setup: func(ta *testApp) {
				ta.execLookPath = func(string) (string, error) { return "", fmt.Errorf("not found") }
			},
			wantCode: ExitEnvError,
			wantErr:  "git is not found",
		},
		"not a repository": {
			setup: func(ta *testApp) {
				ta.isRepository = func(string) (bool, error) { return false, nil }
			},
			wantCode: ExitEnvError,
			wantErr:  "not a git repository",
		},
		"repository check fails": {
			setup: func(ta *testApp) {
				ta.isRepository = func(string) (bool, error) { return false, fmt.Errorf("permission denied") }
			},
			wantCode: ExitEnvError,
			wantErr:  "permission denied",
		},
		"lock held": {
			setup: func(ta *testApp) {
				ta.locker.AcquireErr = errors.NewLockError("/tmp/gitsave.lock", 4242, errors.ErrAlreadyRunning)
			},
			wantCode: ExitEnvError,
			wantErr:  "already running",
		},
		"lock fails": {
			setup: func(ta *testApp) {
				ta.locker.AcquireErr = fmt.Errorf("disk full")
			},
			wantCode: ExitEnvError,
			wantErr:  "disk full",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ta := newTestApp(t, backup.Pushed)
			tc.setup(ta)

			code := ta.execute()

			assert.Equal(t, tc.wantCode, code)
			assert.False(t, ta.runner.Called, "pipeline must not run after a failed pre-flight check")
			assert.Contains(t, ta.stderr.String(), tc.wantErr)
		})
	}
}

func TestExecuteConfigErrors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantErr  string
		wantHelp bool
	}{
		"unknown backend": {
			args:    []string{"--backend", "svn"},
			wantErr: "backend",
		},
		"empty branch": {
			args:    []string{"--branch", " "},
			wantErr: "must not be empty",
		},
		"negative retries": {
			args:    []string{"--push-retries", "-1"},
			wantErr: "must not be negative",
		},
		"unknown flag": {
			args:     []string{"--interval", "5"},
			wantErr:  "unknown flag",
			wantHelp: true,
		},
		"positional argument": {
			args:     []string{"extra"},
			wantErr:  `unexpected argument "extra"`,
			wantHelp: true,
		},
		"malformed duration": {
			args:     []string{"--timeout", "soon"},
			wantErr:  "invalid argument",
			wantHelp: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ta := newTestApp(t, backup.Pushed)

			code := ta.execute(tc.args...)

			assert.Equal(t, ExitConfigError, code)
			assert.False(t, ta.runner.Called)
			assert.Contains(t, ta.stderr.String(), tc.wantErr)
			if tc.wantHelp {
				assert.Contains(t, ta.stderr.String(), "--help")
			}
		})
	}
}

func TestExecuteMissingConfigFile(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)

	code := ta.Execute(context.Background(),
		[]string{"--repo", ta.repo, "--config", filepath.Join(t.TempDir(), "absent.yaml")})

	assert.Equal(t, ExitConfigError, code)
	assert.False(t, ta.runner.Called)
	assert.Contains(t, ta.stderr.String(), "cannot read config file")
}

func TestExecuteWritesMetrics(t *testing.T) {
	ta := newTestApp(t, backup.PushFailed)
	metricsFile := filepath.Join(t.TempDir(), "gitsave.prom")

	code := ta.execute("--metrics-file", metricsFile)

	assert.Equal(t, ExitFailure, code)
	require.Len(t, ta.metrics, 1)
	assert.Equal(t, metricsFile, ta.metrics[0].path)
	assert.Equal(t, backup.PushFailed, ta.metrics[0].outcome)
	assert.Equal(t, filepath.Base(ta.repo), ta.metrics[0].repo)
}

func TestExecuteMetricsFailureIsNotFatal(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)
	ta.writeMetrics = func(string, *backup.Report, string) error {
		return fmt.Errorf("read-only file system")
	}

	code := ta.execute("--metrics-file", filepath.Join(t.TempDir(), "gitsave.prom"))

	assert.Equal(t, ExitOK, code)
}

func TestExecuteWithoutMetricsFile(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)

	code := ta.execute()

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, ta.metrics)
}

func TestExecuteNoLock(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)
	ta.Locker = nil

	code := ta.execute("--no-lock")

	assert.Equal(t, ExitOK, code)
	assert.Nil(t, ta.Locker, "--no-lock must not create a locker")
	assert.False(t, ta.Config.Lock)
}

func TestExecuteCreatesLockerByDefault(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)
	ta.Locker = nil

	code := ta.execute()

	assert.Equal(t, ExitOK, code)
	assert.NotNil(t, ta.Locker)
}

func TestExecuteFlagsReachConfig(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)

	code := ta.execute(
		"--remote", "backup",
		"--remote-url", "git@example.com:me/site.git",
		"--branch", "trunk",
		"--prefix", "Nightly",
		"--push-retries", "2",
		"--quiet",
	)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, ta.repo, ta.Config.RepoPath)
	assert.Equal(t, "backup", ta.Config.RemoteName)
	assert.Equal(t, "git@example.com:me/site.git", ta.Config.RemoteURL)
	assert.Equal(t, "trunk", ta.Config.Branch)
	assert.Equal(t, "Nightly", ta.Config.MessagePrefix)
	assert.Equal(t, 2, ta.Config.PushRetries)
	assert.False(t, ta.Config.Verbose)
	assert.NotEmpty(t, ta.RunID)
}

func TestRunOpensRepositoryWithConfig(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)
	ta.Runner = nil

	var got git.Options
	ta.openRepository = func(opts git.Options) (git.Repository, error) {
		got = opts
		return nil, errors.Wrap(errors.ErrNotGitRepository, opts.Path)
	}
	t.Setenv("GITSAVE_TOKEN", "s3cret")
	t.Setenv("GITSAVE_AUTHOR_NAME", "Backup Bot")

	code := ta.execute("--backend", "gogit", "--timeout", "30s")

	assert.Equal(t, ExitEnvError, code)
	assert.Equal(t, "gogit", got.Backend)
	assert.Equal(t, ta.repo, got.Path)
	assert.Equal(t, "s3cret", got.AuthToken)
	assert.Equal(t, "Backup Bot", got.Author.Name)
	assert.Equal(t, "30s", got.CommandTimeout.String())
	assert.True(t, ta.locker.ReleaseCalled)
}

func TestGoGitBackendSkipsExecChecks(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)
	ta.execLookPath = func(string) (string, error) { return "", fmt.Errorf("not found") }
	ta.isRepository = func(string) (bool, error) { return false, nil }

	code := ta.execute("--backend", "gogit")

	assert.Equal(t, ExitOK, code)
	assert.True(t, ta.runner.Called)
}

func TestPrintSummary(t *testing.T) {
	stdout := &bytes.Buffer{}
	cfg := config.New()
	cfg.Verbose = true

	app := NewApp(AppOptions{Config: cfg, Stdout: stdout, Stderr: &bytes.Buffer{}})
	require.NoError(t, app.Initialize())
	defer func() { _ = app.Close() }()

	app.Report = &backup.Report{Outcome: backup.Pushed, Message: "Sauvegarde automatique - 2026-10-16 09:30:00"}
	app.PrintSummary()

	out := stdout.String()
	assert.Contains(t, out, "gitsave Run Summary")
	assert.Contains(t, out, "Outcome: pushed")
	assert.Contains(t, out, "Sauvegarde automatique - 2026-10-16 09:30:00")
}

func TestPrintSummaryQuiet(t *testing.T) {
	stdout := &bytes.Buffer{}
	cfg := config.New()
	cfg.Verbose = false

	app := NewApp(AppOptions{Config: cfg, Logger: &MockLogger{}, Stdout: stdout})
	app.Report = &backup.Report{Outcome: backup.Pushed}
	app.PrintSummary()

	assert.Empty(t, stdout.String())
}

func TestCloseJoinsErrors(t *testing.T) {
	locker := &MockLocker{ReleaseErr: fmt.Errorf("unlock failed")}
	app := NewApp(AppOptions{Config: config.New(), Logger: &MockLogger{}, Locker: locker, Stderr: &bytes.Buffer{}})

	err := app.Close()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unlock failed")
	assert.True(t, locker.ReleaseCalled)
}

func TestNewAppRequiresConfig(t *testing.T) {
	assert.Panics(t, func() { NewApp(AppOptions{}) })
}

func TestRunClosesLoggerWhenInitializeFails(t *testing.T) {
	ta := newTestApp(t, backup.Pushed)
	ta.Logger = nil
	ta.Locker = nil
	ta.newLocker = func(string) (Locker, error) {
		return nil, errors.NewLockError("", 0, errors.Wrap(errors.ErrLockAcquisitionFailure, "unsupported platform"))
	}
	logFile := filepath.Join(t.TempDir(), "gitsave.log")

	code := ta.execute("--debug", "--log-file", logFile)

	assert.Equal(t, ExitEnvError, code)
	assert.False(t, ta.runner.Called)
	assert.Nil(t, ta.logCloser, "the debug log must be closed on the early return")
	assert.FileExists(t, logFile)
}
