package git

import (
	"strings"
)

// Result is the outcome of one git invocation: the captured output and the
// exit status. The go-git backend synthesizes Results with the same shape so
// callers never care which backend produced them.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// ErrorText returns stderr, or stdout when git wrote its complaint there.
func (r Result) ErrorText() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// failedResult builds a Result for an operation that could not run at all.
func failedResult(err error) Result {
	return Result{Stderr: err.Error(), ExitCode: 1}
}

// CommitKind classifies the outcome of a commit attempt.
type CommitKind int

const (
	// CommitCreated means a new commit was recorded.
	CommitCreated CommitKind = iota

	// NothingToCommit means the working tree matched HEAD; not an error.
	NothingToCommit

	// CommitFailed means git refused or failed to create the commit.
	CommitFailed
)

// String returns a human-readable name for the kind.
func (k CommitKind) String() string {
	switch k {
	case CommitCreated:
		return "created"
	case NothingToCommit:
		return "nothing-to-commit"
	case CommitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommitOutcome is the classified result of a commit.
type CommitOutcome struct {
	Kind    CommitKind
	Message string
	Result  Result
}

// emptyCommitMarkers are the phrases git prints, on stdout, when commit has
// nothing to record.
var emptyCommitMarkers = []string{
	"nothing to commit",
	"nothing added to commit",
	"no changes added to commit",
}

// ClassifyCommit maps the Result of `git commit` onto a CommitOutcome.
// Both output streams are searched for the empty-commit markers.
func ClassifyCommit(res Result) CommitOutcome {
	if res.Success() {
		return CommitOutcome{Kind: CommitCreated, Message: firstLine(res.Stdout), Result: res}
	}

	combined := res.Stdout + "\n" + res.Stderr
	for _, marker := range emptyCommitMarkers {
		if strings.Contains(combined, marker) {
			return CommitOutcome{Kind: NothingToCommit, Message: marker, Result: res}
		}
	}

	return CommitOutcome{Kind: CommitFailed, Message: res.ErrorText(), Result: res}
}

// ParseRemoteNames extracts the distinct remote names from `git remote -v`
// (or plain `git remote`) output, in order of appearance.
func ParseRemoteNames(output string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !seen[fields[0]] {
			seen[fields[0]] = true
			names = append(names, fields[0])
		}
	}

	return names
}

// HasRemote reports whether name is one of remotes. Matching is exact.
func HasRemote(remotes []string, name string) bool {
	for _, r := range remotes {
		if r == name {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
