package git

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/errors"
)

// Repository is the set of version-control operations the backup pipeline
// needs. Every operation reports a Result instead of an error; Commit also
// classifies its Result so callers never inspect git's prose.
type Repository interface {
	// Status reports the state of the working tree.
	Status(ctx context.Context) Result

	// StageAll stages every change in the working tree.
	StageAll(ctx context.Context) Result

	// Commit records the staged changes with the given message.
	Commit(ctx context.Context, message string) CommitOutcome

	// ListRemotes returns the configured remote names.
	ListRemotes(ctx context.Context) ([]string, Result)

	// AddRemote configures a new remote.
	AddRemote(ctx context.Context, name, url string) Result

	// Push sends a local branch to a remote.
	Push(ctx context.Context, opts PushOptions) Result
}

// PushOptions controls a push.
type PushOptions struct {
	Remote      string
	Branch      string
	SetUpstream bool
}

// Signature identifies the author of backup commits. When empty, the
// repository's own git configuration decides.
type Signature struct {
	Name  string
	Email string
}

// IsZero reports whether neither name nor email is set.
func (s Signature) IsZero() bool {
	return s.Name == "" && s.Email == ""
}

// Options selects and configures a Repository backend.
type Options struct {
	// Backend is constants.BackendExec or constants.BackendGoGit.
	Backend string

	// Path is the working tree root.
	Path string

	// CommandTimeout bounds each git invocation of the exec backend. Zero means no limit.
	CommandTimeout time.Duration

	// Author overrides the commit author.
	Author Signature

	// AuthToken is used for HTTPS pushes by the go-git backend.
	AuthToken string
}

// Open returns the Repository backend named by opts.Backend.
func Open(opts Options) (Repository, error) {
	switch opts.Backend {
	case "", constants.BackendExec:
		return NewCLIRepository(opts.Path, opts.CommandTimeout, opts.Author), nil
	case constants.BackendGoGit:
		return OpenGoGit(opts.Path, opts.Author, opts.AuthToken)
	default:
		return nil, errors.NewConfigError("backend", opts.Backend,
			errors.Wrap(errors.ErrInvalidConfiguration, fmt.Sprintf("unknown backend %q", opts.Backend)))
	}
}

// IsRepository checks if the given path is a git repository
// Returns true if it is a repository, false otherwise.
// If path is not a repository due to git exit code 128, returns (false, nil).
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(path string) (bool, error) {
	return isRepositoryWith(context.Background(), NewExecExecutor(), path)
}

func isRepositoryWith(ctx context.Context, executor CommandExecutor, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err := executor.Execute(ctx, cmd); err != nil {
		// Exit code 128 is git's generic fatal error; for rev-parse it
		// almost always means "not a repository", and every other reason
		// is equally fatal for a backup.
		var gitErr *errors.GitError
		if errors.As(err, &gitErr) && gitErr.ExitCode == 128 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
