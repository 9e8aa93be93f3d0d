// Package git provides the version-control operations used by gitsave.
//
// The package exposes a small Repository interface covering exactly what a
// backup run needs: status, stage everything, commit, list and add remotes,
// and push. Operations report a Result (captured output plus exit status)
// rather than an error, so the caller decides which failures are fatal.
//
// # Backends
//
// - CLIRepository shells out to the git executable ("exec" backend, the default)
// - GoGitRepository runs in-process on go-git ("gogit" backend)
//
// Both backends produce Results of the same shape. Commit results are
// classified into a CommitOutcome (created, nothing to commit, failed) by
// searching both output streams, since git reports an empty commit on stdout.
//
// # Usage
//
//	repo, err := git.Open(git.Options{
//	    Backend: constants.BackendExec,
//	    Path:    "/path/to/repo",
//	})
//	if err != nil {
//	    // Handle error
//	}
//
//	res := repo.StageAll(ctx)
//	outcome := repo.Commit(ctx, "Sauvegarde automatique - 2024-01-15 10:30:00")
//	if outcome.Kind == git.NothingToCommit {
//	    // Nothing to back up
//	}
//
// # Authentication
//
// The exec backend relies on git's own credential configuration. The go-git
// backend authenticates HTTPS pushes with a token and SSH pushes through the
// SSH agent; see DefaultAuthResolver.
//
// # Concurrency Model
//
// Repository values are not safe for concurrent use. Run one pipeline per
// repository; the lock package enforces this across processes.
package git
