package backup

import (
	"context"
	"time"

	"github.com/bashhack/gitsave/internal/errors"
)

// Step names a stage of the pipeline.
type Step string

const (
	StepStatus Step = "status"
	StepStage  Step = "stage"
	StepCommit Step = "commit"
	StepRemote Step = "remote"
	StepPush   Step = "push"
)

// Steps lists the pipeline stages in execution order.
var Steps = []Step{StepStatus, StepStage, StepCommit, StepRemote, StepPush}

// Status is how a single step ended.
type Status int

const (
	// Done means the step succeeded.
	Done Status = iota

	// Warned means the step failed but the pipeline went on.
	Warned

	// Skipped means the step had nothing to do.
	Skipped

	// Aborted means the step ended the pipeline without an error
	// (nothing to commit, or cancellation).
	Aborted

	// Failed means the step ended the pipeline with an error.
	Failed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Warned:
		return "warned"
	case Skipped:
		return "skipped"
	case Aborted:
		return "aborted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult records one executed step.
type StepResult struct {
	Step     Step
	Status   Status
	Detail   string
	Duration time.Duration
}

// Outcome is the overall result of a run.
type Outcome int

const (
	// Unfinished is the zero value: the run has not reached a final outcome.
	Unfinished Outcome = iota

	// Pushed means a commit was created and pushed.
	Pushed

	// NothingToCommit means the working tree had no changes.
	NothingToCommit

	// CommitFailed means the commit step failed.
	CommitFailed

	// PushFailed means the commit was created but could not be pushed.
	PushFailed

	// Canceled means the run context was canceled before the pipeline finished.
	Canceled
)

// Outcomes lists every final outcome, for exporters that need the full label set.
var Outcomes = []Outcome{Pushed, NothingToCommit, CommitFailed, PushFailed, Canceled}

// String returns the outcome as a snake_case label.
func (o Outcome) String() string {
	switch o {
	case Pushed:
		return "pushed"
	case NothingToCommit:
		return "nothing_to_commit"
	case CommitFailed:
		return "commit_failed"
	case PushFailed:
		return "push_failed"
	case Canceled:
		return "canceled"
	case Unfinished:
		return "unfinished"
	default:
		return "unknown"
	}
}

// Report describes a finished run.
type Report struct {
	RunID      string
	Message    string
	Steps      []StepResult
	Outcome    Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Step returns the result of the named step, if it ran.
func (r *Report) Step(name Step) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Ran reports whether the named step was executed.
func (r *Report) Ran(name Step) bool {
	_, ok := r.Step(name)
	return ok
}

// Err maps the outcome onto the errors package sentinels. Pushed yields nil;
// NothingToCommit yields ErrNothingToCommit, which callers treat as benign.
func (r *Report) Err() error {
	switch r.Outcome {
	case Pushed:
		return nil
	case NothingToCommit:
		return errors.ErrNothingToCommit
	case CommitFailed:
		return r.wrapDetail(StepCommit, errors.ErrCommitFailed)
	case PushFailed:
		return r.wrapDetail(StepPush, errors.ErrPushFailed)
	case Canceled:
		return context.Canceled
	case Unfinished:
		return errors.ErrRunUnfinished
	default:
		return errors.Errorf("unknown outcome %d", int(r.Outcome))
	}
}

func (r *Report) wrapDetail(step Step, sentinel error) error {
	if s, ok := r.Step(step); ok && s.Detail != "" {
		return errors.Errorf("%w: %s", sentinel, s.Detail)
	}
	return sentinel
}
