package git

import (
	"context"
	"fmt"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/bashhack/gitsave/internal/errors"
)

// cleanTreeMessage mirrors what git prints for a clean working tree.
const cleanTreeMessage = "nothing to commit, working tree clean"

// GoGitRepository implements Repository in-process on top of go-git.
// Results are synthesized: exit status 0 on success, 1 on failure with the
// go-git error on Stderr.
type GoGitRepository struct {
	repo   *gogit.Repository
	author Signature
	auth   AuthResolver
	now    func() time.Time
}

// OpenGoGit opens the repository containing path.
func OpenGoGit(path string, author Signature, token string) (*GoGitRepository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.Wrap(errors.ErrNotGitRepository, path)
		}
		return nil, errors.NewGitError("open", []string{path}, errors.Wrap(errors.ErrGitOperationFailed, err.Error()), "")
	}
	return NewGoGitRepository(repo, author, DefaultAuthResolver(token)), nil
}

// NewGoGitRepository wraps an already opened go-git repository.
func NewGoGitRepository(repo *gogit.Repository, author Signature, auth AuthResolver) *GoGitRepository {
	if auth == nil {
		auth = DefaultAuthResolver("")
	}
	return &GoGitRepository{
		repo:   repo,
		author: author,
		auth:   auth,
		now:    time.Now,
	}
}

// Status reports the current branch and the worktree status.
func (r *GoGitRepository) Status(_ context.Context) Result {
	wt, err := r.repo.Worktree()
	if err != nil {
		return failedResult(err)
	}

	st, err := wt.Status()
	if err != nil {
		return failedResult(err)
	}

	branch := "HEAD (no commits yet)"
	if head, err := r.repo.Head(); err == nil {
		branch = head.Name().Short()
	}

	body := cleanTreeMessage
	if !st.IsClean() {
		body = st.String()
	}
	return Result{Stdout: fmt.Sprintf("On branch %s\n%s", branch, body)}
}

// StageAll stages every change, deletions included.
func (r *GoGitRepository) StageAll(_ context.Context) Result {
	wt, err := r.repo.Worktree()
	if err != nil {
		return failedResult(err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return failedResult(err)
	}
	return Result{}
}

// Commit records the index. go-git's ErrEmptyCommit becomes NothingToCommit.
func (r *GoGitRepository) Commit(_ context.Context, message string) CommitOutcome {
	wt, err := r.repo.Worktree()
	if err != nil {
		res := failedResult(err)
		return CommitOutcome{Kind: CommitFailed, Message: res.Stderr, Result: res}
	}

	opts := &gogit.CommitOptions{}
	if !r.author.IsZero() {
		opts.Author = &object.Signature{
			Name:  r.author.Name,
			Email: r.author.Email,
			When:  r.now(),
		}
	}

	hash, err := wt.Commit(message, opts)
	if err != nil {
		if errors.Is(err, gogit.ErrEmptyCommit) {
			res := Result{Stdout: cleanTreeMessage, ExitCode: 1}
			return CommitOutcome{Kind: NothingToCommit, Message: cleanTreeMessage, Result: res}
		}
		res := failedResult(err)
		return CommitOutcome{Kind: CommitFailed, Message: res.Stderr, Result: res}
	}

	branch := "HEAD"
	if head, err := r.repo.Head(); err == nil {
		branch = head.Name().Short()
	}
	summary := fmt.Sprintf("[%s %s] %s", branch, hash.String()[:7], message)
	return CommitOutcome{Kind: CommitCreated, Message: summary, Result: Result{Stdout: summary}}
}

// ListRemotes returns the configured remote names, sorted.
func (r *GoGitRepository) ListRemotes(_ context.Context) ([]string, Result) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, failedResult(err)
	}

	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	sort.Strings(names)

	lines := ""
	for _, remote := range remotes {
		for _, url := range remote.Config().URLs {
			lines = joinLines(lines, fmt.Sprintf("%s\t%s", remote.Config().Name, url))
		}
	}
	return names, Result{Stdout: lines}
}

// AddRemote creates a remote with a single URL.
func (r *GoGitRepository) AddRemote(_ context.Context, name, url string) Result {
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return failedResult(err)
	}
	return Result{}
}

// Push pushes refs/heads/<branch> to the same name on the remote and, when
// asked, records the upstream in the branch configuration.
func (r *GoGitRepository) Push(ctx context.Context, opts PushOptions) Result {
	remote, err := r.repo.Remote(opts.Remote)
	if err != nil {
		return failedResult(fmt.Errorf("remote %q: %w", opts.Remote, err))
	}

	var url string
	if urls := remote.Config().URLs; len(urls) > 0 {
		url = urls[0]
	}

	auth, err := r.auth(url)
	if err != nil {
		return failedResult(err)
	}

	ref := plumbing.NewBranchReferenceName(opts.Branch)
	spec := config.RefSpec(fmt.Sprintf("%s:%s", ref, ref))

	err = r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: opts.Remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       auth,
	})

	stdout := fmt.Sprintf("To %s\n   %s -> %s", url, opts.Branch, opts.Branch)
	switch {
	case errors.Is(err, gogit.NoErrAlreadyUpToDate):
		stdout = "Everything up-to-date"
	case err != nil:
		return failedResult(err)
	}

	if opts.SetUpstream {
		if err := r.setUpstream(opts.Remote, opts.Branch); err != nil {
			return Result{Stdout: stdout, Stderr: err.Error(), ExitCode: 1}
		}
		stdout = joinLines(stdout, fmt.Sprintf("branch '%s' set up to track '%s/%s'.", opts.Branch, opts.Remote, opts.Branch))
	}

	return Result{Stdout: stdout}
}

func (r *GoGitRepository) setUpstream(remote, branch string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}

	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("set upstream: %w", err)
	}
	return nil
}
