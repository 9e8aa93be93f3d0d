// Package backup implements the gitsave pipeline: one pass of
// status, stage-all, commit, ensure-remote and push against a git.Repository.
//
// The Runner never returns an error for pipeline outcomes. Each step is
// recorded as a StepResult and the run as a Report, whose Outcome tells the
// caller what happened:
//
//   - a failed stage is a warning and the commit is still attempted
//   - nothing to commit stops the run before the remote is touched
//   - any other commit failure stops the run with a warning
//   - a missing remote is added when a URL is configured; failures are warnings
//   - a failed push prints the error and a force-push suggestion
//
// Report.Err converts the outcome into the sentinel errors of the errors
// package so the CLI can choose an exit code.
//
// # Usage
//
//	runner := backup.NewRunner(repo, log, backup.Options{
//	    RemoteName:    "origin",
//	    RemoteURL:     "https://github.com/acme/project.git",
//	    Branch:        "main",
//	    MessagePrefix: "Sauvegarde automatique",
//	})
//
//	report := runner.Run(ctx)
//	if err := report.Err(); err != nil && !errors.Is(err, errors.ErrNothingToCommit) {
//	    // Handle failure
//	}
package backup
