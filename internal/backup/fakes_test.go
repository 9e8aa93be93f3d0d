package backup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bashhack/gitsave/internal/git"
)

// fakeRepository returns canned Results and records the operations called.
type fakeRepository struct {
	status     git.Result
	stage      git.Result
	commit     git.CommitOutcome
	remotes    []string
	listResult git.Result
	addRemote  git.Result
	push       []git.Result

	calls        []string
	messages     []string
	addedRemotes map[string]string
	pushes       []git.PushOptions

	// onPush runs before each push; used to cancel mid-run.
	onPush func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		status:       git.Result{Stdout: "On branch main\nChanges not staged for commit:"},
		commit:       git.CommitOutcome{Kind: git.CommitCreated, Message: "[main abc1234] backup"},
		remotes:      []string{"origin"},
		addedRemotes: make(map[string]string),
	}
}

func (f *fakeRepository) Status(_ context.Context) git.Result {
	f.calls = append(f.calls, "status")
	return f.status
}

func (f *fakeRepository) StageAll(_ context.Context) git.Result {
	f.calls = append(f.calls, "stage")
	return f.stage
}

func (f *fakeRepository) Commit(_ context.Context, message string) git.CommitOutcome {
	f.calls = append(f.calls, "commit")
	f.messages = append(f.messages, message)
	return f.commit
}

func (f *fakeRepository) ListRemotes(_ context.Context) ([]string, git.Result) {
	f.calls = append(f.calls, "list-remotes")
	if !f.listResult.Success() {
		return nil, f.listResult
	}
	return f.remotes, f.listResult
}

func (f *fakeRepository) AddRemote(_ context.Context, name, url string) git.Result {
	f.calls = append(f.calls, "add-remote")
	if f.addRemote.Success() {
		f.addedRemotes[name] = url
	}
	return f.addRemote
}

func (f *fakeRepository) Push(_ context.Context, opts git.PushOptions) git.Result {
	f.calls = append(f.calls, "push")
	f.pushes = append(f.pushes, opts)
	if f.onPush != nil {
		f.onPush()
	}
	if len(f.push) == 0 {
		return git.Result{}
	}
	res := f.push[0]
	if len(f.push) > 1 {
		f.push = f.push[1:]
	}
	return res
}

func (f *fakeRepository) called(op string) bool {
	for _, c := range f.calls {
		if c == op {
			return true
		}
	}
	return false
}

// recordingLogger keeps every line by channel.
type recordingLogger struct {
	mu       sync.Mutex
	info     []string
	warning  []string
	errs     []string
	user     []string
	warnUser []string
	success  []string
	status   []string
}

func (l *recordingLogger) add(dst *[]string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{})    { l.add(&l.info, format, args...) }
func (l *recordingLogger) Warning(format string, args ...interface{}) { l.add(&l.warning, format, args...) }
func (l *recordingLogger) Error(format string, args ...interface{})   { l.add(&l.errs, format, args...) }
func (l *recordingLogger) InfoToUser(format string, args ...interface{}) {
	l.add(&l.user, format, args...)
}
func (l *recordingLogger) WarningToUser(format string, args ...interface{}) {
	l.add(&l.warnUser, format, args...)
}
func (l *recordingLogger) Success(format string, args ...interface{}) {
	l.add(&l.success, format, args...)
}
func (l *recordingLogger) StatusMessage(format string, args ...interface{}) {
	l.add(&l.status, format, args...)
}

func contains(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
