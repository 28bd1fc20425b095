package shell

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Cyclone1070/agentteam/internal/tool/service/executor"
)

// commandExecutor defines the interface for executing argv vectors.
type commandExecutor interface {
	RunWithTimeout(ctx context.Context, argv []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

// ShellTool runs single command fragments inside the sandbox root.
type ShellTool struct {
	executor commandExecutor
	root     string
	timeout  time.Duration
	deny     map[string]bool
	environ  func() []string
}

// NewShellTool creates a ShellTool. deny lists executable base names that
// are refused outright.
func NewShellTool(exec commandExecutor, root string, timeout time.Duration, deny []string) *ShellTool {
	if exec == nil {
		panic("exec is required")
	}
	if root == "" {
		panic("root is required")
	}
	denied := make(map[string]bool, len(deny))
	for _, d := range deny {
		denied[strings.ToLower(d)] = true
	}
	return &ShellTool{
		executor: exec,
		root:     root,
		timeout:  timeout,
		deny:     denied,
		environ:  os.Environ,
	}
}

// Run executes req.Command as an argv vector with the working directory
// pinned to the sandbox root. A timeout yields the partial response
// together with executor.ErrTimeout.
func (t *ShellTool) Run(ctx context.Context, req *ShellRequest) (*ShellResponse, error) {
	argv, err := SplitCommand(req.Command)
	if err != nil {
		return nil, err
	}
	if t.isDenied(argv[0]) {
		return nil, &DeniedError{Executable: argv[0]}
	}

	result, execErr := t.executor.RunWithTimeout(ctx, argv, t.root, BuildEnv(t.environ()), t.timeout)
	if result == nil {
		if execErr == nil {
			execErr = errors.New("executor returned no result")
		}
		return nil, execErr
	}

	resp := &ShellResponse{
		Command:   req.Command,
		Argv:      argv,
		Stdout:    result.Stdout,
		Stderr:    result.Stderr,
		ExitCode:  result.ExitCode,
		Truncated: result.Truncated,
		TimedOut:  result.TimedOut || errors.Is(execErr, executor.ErrTimeout),
	}
	return resp, execErr
}

func (t *ShellTool) isDenied(exe string) bool {
	if len(t.deny) == 0 {
		return false
	}
	base := strings.ToLower(path.Base(strings.ReplaceAll(exe, `\`, "/")))
	base = strings.TrimSuffix(base, ".exe")
	return t.deny[base]
}
