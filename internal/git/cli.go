package git

import (
	"context"
	"os/exec"
	"time"
)

// CLIRepository implements Repository by running the git executable.
type CLIRepository struct {
	path     string
	timeout  time.Duration
	author   Signature
	executor CommandExecutor
}

// NewCLIRepository creates a CLIRepository with the default executor.
func NewCLIRepository(path string, timeout time.Duration, author Signature) *CLIRepository {
	return NewCLIRepositoryWithExecutor(path, timeout, author, NewExecExecutor())
}

// NewCLIRepositoryWithExecutor creates a CLIRepository with a custom executor.
func NewCLIRepositoryWithExecutor(path string, timeout time.Duration, author Signature, executor CommandExecutor) *CLIRepository {
	return &CLIRepository{
		path:     path,
		timeout:  timeout,
		author:   author,
		executor: executor,
	}
}

// Path returns the working tree the repository operates on.
func (r *CLIRepository) Path() string {
	return r.path
}

// Status runs `git status`.
func (r *CLIRepository) Status(ctx context.Context) Result {
	return r.runGit(ctx, "status")
}

// StageAll runs `git add .`.
func (r *CLIRepository) StageAll(ctx context.Context) Result {
	return r.runGit(ctx, "add", ".")
}

// Commit runs `git commit -m <message>` and classifies the result.
func (r *CLIRepository) Commit(ctx context.Context, message string) CommitOutcome {
	var args []string
	if r.author.Name != "" {
		args = append(args, "-c", "user.name="+r.author.Name)
	}
	if r.author.Email != "" {
		args = append(args, "-c", "user.email="+r.author.Email)
	}
	args = append(args, "commit", "-m", message)

	return ClassifyCommit(r.runGit(ctx, args...))
}

// ListRemotes runs `git remote -v` and parses the remote names.
func (r *CLIRepository) ListRemotes(ctx context.Context) ([]string, Result) {
	res := r.runGit(ctx, "remote", "-v")
	if !res.Success() {
		return nil, res
	}
	return ParseRemoteNames(res.Stdout), res
}

// AddRemote runs `git remote add <name> <url>`.
func (r *CLIRepository) AddRemote(ctx context.Context, name, url string) Result {
	return r.runGit(ctx, "remote", "add", name, url)
}

// Push runs `git push [-u] <remote> <branch>`.
func (r *CLIRepository) Push(ctx context.Context, opts PushOptions) Result {
	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	args = append(args, opts.Remote, opts.Branch)

	return r.runGit(ctx, args...)
}

// runGit executes a git command in the repository directory.
func (r *CLIRepository) runGit(ctx context.Context, args ...string) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	baseArgs := []string{"-C", r.path}
	cmd := exec.CommandContext(ctx, "git", append(baseArgs, args...)...)
	cmd.Dir = r.path
	return r.executor.ExecuteWithResult(ctx, cmd)
}
