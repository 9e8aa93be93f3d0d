package backup

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bashhack/gitsave/internal/common"
	"github.com/bashhack/gitsave/internal/constants"
	"github.com/bashhack/gitsave/internal/git"
)

// Options configures a Runner.
type Options struct {
	// ProjectName is shown in the opening banner line.
	ProjectName string

	// RunID identifies the run in logs and metrics; generated when empty.
	RunID string

	RemoteName    string
	RemoteURL     string
	Branch        string
	MessagePrefix string

	// PushRetries is the number of extra push attempts after a failure.
	PushRetries int

	// PushRetryDelay is the pause between push attempts.
	PushRetryDelay time.Duration
}

// Runner executes the backup pipeline once per call to Run.
type Runner struct {
	repo   git.Repository
	logger common.Logger
	opts   Options
	now    func() time.Time
}

// NewRunner creates a Runner with the system clock.
func NewRunner(repo git.Repository, logger common.Logger, opts Options) *Runner {
	return NewRunnerWithClock(repo, logger, opts, time.Now)
}

// NewRunnerWithClock creates a Runner whose commit timestamps come from now.
func NewRunnerWithClock(repo git.Repository, logger common.Logger, opts Options, now func() time.Time) *Runner {
	if opts.RemoteName == "" {
		opts.RemoteName = constants.DefaultRemoteName
	}
	if opts.Branch == "" {
		opts.Branch = constants.DefaultBranch
	}
	if opts.MessagePrefix == "" {
		opts.MessagePrefix = constants.DefaultMessagePrefix
	}
	if opts.PushRetries < 0 {
		opts.PushRetries = 0
	}
	return &Runner{
		repo:   repo,
		logger: logger,
		opts:   opts,
		now:    now,
	}
}

// Run executes status, stage, commit, ensure-remote and push in order.
// Pipeline failures are reported in the returned Report, never as errors.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:     r.opts.RunID,
		StartedAt: r.now(),
	}
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	defer func() { report.FinishedAt = r.now() }()

	if r.opts.ProjectName != "" {
		r.logger.StatusMessage("🚀 Sauvegarde du projet %s...", r.opts.ProjectName)
	} else {
		r.logger.StatusMessage("🚀 Sauvegarde du projet...")
	}
	r.logger.Info("Backup run %s started", report.RunID)

	if r.canceled(ctx, report, StepStatus) {
		return report
	}
	r.queryStatus(ctx, report)

	if r.canceled(ctx, report, StepStage) {
		return report
	}
	r.stageAll(ctx, report)

	if r.canceled(ctx, report, StepCommit) {
		return report
	}
	if !r.commit(ctx, report) {
		return report
	}

	if r.canceled(ctx, report, StepRemote) {
		return report
	}
	r.ensureRemote(ctx, report)

	if r.canceled(ctx, report, StepPush) {
		return report
	}
	r.push(ctx, report)

	return report
}

// queryStatus prints the working tree status. Its exit status never
// changes the control flow.
func (r *Runner) queryStatus(ctx context.Context, report *Report) {
	r.logger.StatusMessage("📊 Vérification de l'état du dépôt...")
	start := r.now()

	res := r.repo.Status(ctx)
	if res.Stdout != "" {
		r.logger.StatusMessage("%s", res.Stdout)
	}
	if !res.Success() {
		r.logger.Info("git status exited with %d: %s", res.ExitCode, res.ErrorText())
	}

	r.record(report, StepStatus, Done, "", start)
}

// stageAll stages every change. A failure is a warning only.
func (r *Runner) stageAll(ctx context.Context, report *Report) {
	r.logger.StatusMessage("📁 Ajout de tous les fichiers...")
	start := r.now()

	res := r.repo.StageAll(ctx)
	if !res.Success() {
		r.logger.WarningToUser("Erreur lors de l'ajout des fichiers: %s", res.ErrorText())
		r.logger.Info("Stage failed with exit code %d: %s", res.ExitCode, res.ErrorText())
		r.record(report, StepStage, Warned, res.ErrorText(), start)
		return
	}

	r.record(report, StepStage, Done, "", start)
}

// commit records the staged changes. It returns false when the pipeline
// must stop.
func (r *Runner) commit(ctx context.Context, report *Report) bool {
	r.logger.StatusMessage("💾 Création du commit...")
	start := r.now()

	report.Message = CommitMessage(r.opts.MessagePrefix, start)
	outcome := r.repo.Commit(ctx, report.Message)

	switch outcome.Kind {
	case git.CommitCreated:
		r.logger.Info("Created commit %q: %s", report.Message, outcome.Message)
		r.record(report, StepCommit, Done, outcome.Message, start)
		return true

	case git.NothingToCommit:
		if r.canceledDuring(ctx, report, StepCommit, start) {
			return false
		}
		r.logger.InfoToUser("Aucun changement à sauvegarder")
		r.logger.Info("Nothing to commit: %s", outcome.Message)
		r.record(report, StepCommit, Aborted, outcome.Message, start)
		report.Outcome = NothingToCommit
		return false

	default:
		if r.canceledDuring(ctx, report, StepCommit, start) {
			return false
		}
		r.logger.WarningToUser("Erreur lors du commit: %s", outcome.Message)
		r.logger.Info("Commit failed with exit code %d: %s", outcome.Result.ExitCode, outcome.Message)
		r.record(report, StepCommit, Failed, outcome.Message, start)
		report.Outcome = CommitFailed
		return false
	}
}

// ensureRemote adds the configured remote when it is missing. Every failure
// here is a warning; the push step reports the consequence.
func (r *Runner) ensureRemote(ctx context.Context, report *Report) {
	r.logger.StatusMessage("🔗 Configuration du dépôt distant...")
	start := r.now()
	name := r.opts.RemoteName

	remotes, res := r.repo.ListRemotes(ctx)
	if !res.Success() {
		// Treated as "remote absent"; adding it is still worth a try.
		r.logger.Info("Listing remotes failed with exit code %d: %s", res.ExitCode, res.ErrorText())
	}

	if git.HasRemote(remotes, name) {
		r.logger.Info("Remote %s already configured", name)
		r.record(report, StepRemote, Skipped, "", start)
		return
	}

	if r.opts.RemoteURL == "" {
		detail := "no remote URL configured"
		r.logger.WarningToUser("Erreur lors de l'ajout du dépôt distant: le dépôt '%s' n'existe pas et aucune URL n'est configurée", name)
		r.record(report, StepRemote, Warned, detail, start)
		return
	}

	res = r.repo.AddRemote(ctx, name, r.opts.RemoteURL)
	if !res.Success() {
		r.logger.WarningToUser("Erreur lors de l'ajout du dépôt distant: %s", res.ErrorText())
		r.logger.Info("Adding remote %s failed with exit code %d: %s", name, res.ExitCode, res.ErrorText())
		r.record(report, StepRemote, Warned, res.ErrorText(), start)
		return
	}

	r.logger.Info("Added remote %s -> %s", name, r.opts.RemoteURL)
	r.record(report, StepRemote, Done, r.opts.RemoteURL, start)
}

// push sends the branch upstream, retrying up to PushRetries extra times.
func (r *Runner) push(ctx context.Context, report *Report) {
	r.logger.StatusMessage("🚀 Envoi des changements vers %s...", r.opts.RemoteName)
	start := r.now()

	opts := git.PushOptions{
		Remote:      r.opts.RemoteName,
		Branch:      r.opts.Branch,
		SetUpstream: true,
	}

	var res git.Result
	attempts := r.opts.PushRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		res = r.repo.Push(ctx, opts)
		if res.Success() {
			break
		}

		r.logger.Info("Push attempt %d/%d failed with exit code %d: %s", attempt, attempts, res.ExitCode, res.ErrorText())
		if attempt == attempts || !r.wait(ctx) {
			break
		}
		r.logger.InfoToUser("Nouvelle tentative d'envoi (%d/%d)...", attempt+1, attempts)
	}

	if res.Success() {
		r.logger.Success("Sauvegarde terminée avec succès !")
		r.record(report, StepPush, Done, "", start)
		report.Outcome = Pushed
		return
	}

	if r.canceledDuring(ctx, report, StepPush, start) {
		return
	}

	r.logger.WarningToUser("Erreur lors du push: %s", res.ErrorText())
	r.logger.StatusMessage("💡 Essayez: %s", ForcePushSuggestion(r.opts.RemoteName, r.opts.Branch))
	r.record(report, StepPush, Failed, res.ErrorText(), start)
	report.Outcome = PushFailed
}

// wait pauses between push attempts. It returns false if ctx ends first.
func (r *Runner) wait(ctx context.Context) bool {
	if r.opts.PushRetryDelay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(r.opts.PushRetryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// canceled checks ctx before a step starts.
func (r *Runner) canceled(ctx context.Context, report *Report, step Step) bool {
	if ctx.Err() == nil {
		return false
	}
	r.logger.Info("Run canceled before step %s", step)
	r.record(report, step, Aborted, ctx.Err().Error(), r.now())
	report.Outcome = Canceled
	return true
}

// canceledDuring attributes a failed step to cancellation when ctx ended
// while the step ran.
func (r *Runner) canceledDuring(ctx context.Context, report *Report, step Step, start time.Time) bool {
	if ctx.Err() == nil {
		return false
	}
	r.logger.WarningToUser("Sauvegarde interrompue")
	r.logger.Info("Run canceled during step %s: %v", step, ctx.Err())
	r.record(report, step, Aborted, ctx.Err().Error(), start)
	report.Outcome = Canceled
	return true
}

func (r *Runner) record(report *Report, step Step, status Status, detail string, start time.Time) {
	report.Steps = append(report.Steps, StepResult{
		Step:     step,
		Status:   status,
		Detail:   detail,
		Duration: r.now().Sub(start),
	})
}
