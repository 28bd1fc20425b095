package tool

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/actor"
	"github.com/Cyclone1070/agentteam/internal/directive"
	"github.com/Cyclone1070/agentteam/internal/tool/directory"
	"github.com/Cyclone1070/agentteam/internal/tool/file"
	"github.com/Cyclone1070/agentteam/internal/tool/research"
	"github.com/Cyclone1070/agentteam/internal/tool/service/executor"
	"github.com/Cyclone1070/agentteam/internal/tool/service/path"
	"github.com/Cyclone1070/agentteam/internal/tool/shell"
)

type fileWriter interface {
	Run(ctx context.Context, req *file.WriteFileRequest) (*file.WriteFileResponse, error)
}

type fileReader interface {
	Run(ctx context.Context, req *file.ReadFileRequest) (*file.ReadFileResponse, error)
}

type fileLister interface {
	Run(ctx context.Context) (*directory.ListFilesResponse, error)
}

type commandRunner interface {
	Run(ctx context.Context, req *shell.ShellRequest) (*shell.ShellResponse, error)
}

type webSearcher interface {
	Configured() bool
	Run(ctx context.Context, history *research.History, req *research.SearchRequest) (*research.SearchResponse, error)
}

// Tools bundles the concrete tools an Executor dispatches to. Search may
// be nil when research is not available.
type Tools struct {
	Write  fileWriter
	Read   fileReader
	List   fileLister
	Shell  commandRunner
	Search webSearcher
}

// Executor checks an actor's capabilities and runs directives through the
// sandboxed tools. It never returns an error: every failure is a Result.
type Executor struct {
	tools  Tools
	logger *zap.Logger
}

// NewExecutor creates an Executor. logger may be nil.
func NewExecutor(tools Tools, logger *zap.Logger) *Executor {
	if tools.Write == nil || tools.Read == nil || tools.List == nil || tools.Shell == nil {
		panic("write, read, list and shell tools are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{tools: tools, logger: logger}
}

// Execute runs d on behalf of caller. history is the session's search
// history and is only consulted for Search directives.
func (e *Executor) Execute(ctx context.Context, caller actor.Actor, history *research.History, d directive.Directive) Result {
	var res Result
	switch d := d.(type) {
	case directive.Write:
		res = e.write(ctx, caller, d)
	case directive.Read:
		resp, err := e.tools.Read.Run(ctx, &file.ReadFileRequest{Path: d.Path})
		res = classify(resp, err)
	case directive.List:
		resp, err := e.tools.List.Run(ctx)
		res = classify(resp, err)
	case directive.Shell:
		res = e.shell(ctx, caller, d)
	case directive.Search:
		res = e.search(ctx, caller, history, d)
	default:
		res = Result{Outcome: ProcessError, Err: fmt.Errorf("%w: unsupported directive %T", ErrProcess, d)}
	}
	res.Directive = d

	e.logger.Debug("directive executed",
		zap.String("actor", caller.Name),
		zap.String("kind", directive.Kind(d)),
		zap.Stringer("outcome", res.Outcome),
		zap.Error(res.Err),
	)
	return res
}

func (e *Executor) write(ctx context.Context, caller actor.Actor, d directive.Write) Result {
	switch {
	case caller.Capabilities.Write == actor.WriteNone:
		return denied(fmt.Errorf("%w: %s is not permitted to write files", ErrAuthorizationDenied, caller.Name))
	case !caller.Capabilities.AllowsWrite(d.Path):
		return denied(fmt.Errorf("%w: %s may only write .md and .txt files, refused %s", ErrAuthorizationDenied, caller.Name, d.Path))
	}
	resp, err := e.tools.Write.Run(ctx, &file.WriteFileRequest{Path: d.Path, Content: d.Content})
	return classify(resp, err)
}

func (e *Executor) shell(ctx context.Context, caller actor.Actor, d directive.Shell) Result {
	if d.Forbidden {
		return denied(fmt.Errorf("%w: %w", ErrAuthorizationDenied, ErrGitForbidden))
	}
	if !caller.Capabilities.Shell {
		return denied(fmt.Errorf("%w: %s is not permitted to run commands", ErrAuthorizationDenied, caller.Name))
	}
	resp, err := e.tools.Shell.Run(ctx, &shell.ShellRequest{Command: d.Command})
	return classify(resp, err)
}

func (e *Executor) search(ctx context.Context, caller actor.Actor, history *research.History, d directive.Search) Result {
	if !caller.Capabilities.Research {
		return denied(fmt.Errorf("%w: %s is not permitted to search", ErrAuthorizationDenied, caller.Name))
	}
	if e.tools.Search == nil || !e.tools.Search.Configured() {
		return Result{Outcome: ProcessError, Err: fmt.Errorf("%w: %w", ErrProcess, research.ErrNotConfigured)}
	}
	resp, err := e.tools.Search.Run(ctx, history, &research.SearchRequest{Query: d.Query, Count: d.Count, Start: d.Start})
	return classify(resp, err)
}

func denied(err error) Result {
	return Result{Outcome: AccessDenied, Err: err}
}

// classify maps a tool's error onto an Outcome and a taxonomy sentinel.
// A typed-nil payload is dropped so callers can test Payload against nil.
func classify[T any](resp *T, err error) Result {
	var payload any
	if resp != nil {
		payload = resp
	}
	if err == nil {
		return Result{Outcome: Success, Payload: payload}
	}

	var deniedExe *shell.DeniedError
	switch {
	case errors.Is(err, path.ErrOutsideWorkspace),
		errors.Is(err, path.ErrEmptyPath),
		errors.Is(err, file.ErrPathRequired):
		return Result{Outcome: AccessDenied, Err: fmt.Errorf("%w: %w", ErrSandboxViolation, err)}
	case errors.As(err, &deniedExe):
		return Result{Outcome: AccessDenied, Err: fmt.Errorf("%w: %w", ErrAuthorizationDenied, err)}
	case errors.Is(err, file.ErrFileMissing):
		return Result{Outcome: NotFound, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	case errors.Is(err, executor.ErrTimeout):
		return Result{Outcome: Timeout, Payload: payload, Err: fmt.Errorf("%w: %w", ErrTimeout, err)}
	default:
		return Result{Outcome: ProcessError, Payload: payload, Err: fmt.Errorf("%w: %w", ErrProcess, err)}
	}
}
