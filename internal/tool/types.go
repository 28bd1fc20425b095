// Package tool executes parsed directives inside the session sandbox and
// renders their typed outcomes as conversation text.
package tool

import (
	"errors"
	"fmt"

	"github.com/Cyclone1070/agentteam/internal/directive"
)

// Outcome classifies how a directive ended.
type Outcome int

const (
	Success Outcome = iota
	AccessDenied
	NotFound
	Timeout
	ProcessError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case AccessDenied:
		return "access denied"
	case NotFound:
		return "not found"
	case Timeout:
		return "timeout"
	case ProcessError:
		return "process error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

var (
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrSandboxViolation    = errors.New("sandbox violation")
	ErrNotFound            = errors.New("not found")
	ErrTimeout             = errors.New("timed out")
	ErrProcess             = errors.New("process error")
	ErrGitForbidden        = errors.New("git commands are not allowed")
)

// Result is the typed outcome of one directive. Payload holds the tool's
// response value (for example *file.ReadFileResponse) and may be set
// alongside Err, as with the partial output of a timed out command.
type Result struct {
	Directive directive.Directive
	Outcome   Outcome
	Payload   any
	Err       error
}

// OK reports whether the directive succeeded.
func (r Result) OK() bool { return r.Outcome == Success && r.Err == nil }
