package git

import (
	"context"
	"os/exec"
)

// MockCommandExecutor records commands instead of running them.
type MockCommandExecutor struct {
	Commands            []*exec.Cmd
	ExecuteFn           func(ctx context.Context, cmd *exec.Cmd) error
	ExecuteWithResultFn func(ctx context.Context, cmd *exec.Cmd) Result
}

// Execute implements the CommandExecutor interface
func (m *MockCommandExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	m.Commands = append(m.Commands, cmd)

	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, cmd)
	}
	return nil
}

// ExecuteWithResult implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithResult(ctx context.Context, cmd *exec.Cmd) Result {
	m.Commands = append(m.Commands, cmd)

	if m.ExecuteWithResultFn != nil {
		return m.ExecuteWithResultFn(ctx, cmd)
	}
	return Result{}
}

// LastArgs returns the git arguments of the most recent command, without
// the leading "git -C <path>".
func (m *MockCommandExecutor) LastArgs() []string {
	if len(m.Commands) == 0 {
		return nil
	}
	args := m.Commands[len(m.Commands)-1].Args
	if len(args) >= 3 && args[1] == "-C" {
		return args[3:]
	}
	return args[1:]
}

// NewMockCommandExecutor creates a new mock executor
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Commands: make([]*exec.Cmd, 0),
	}
}
