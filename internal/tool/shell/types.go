package shell

import (
	"fmt"
	"strings"
)

type ShellRequest struct {
	Command string
}

type ShellResponse struct {
	Command   string
	Argv      []string
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	TimedOut  bool
}

// String renders the response the way actors are told to expect it.
func (r *ShellResponse) String() string {
	var b strings.Builder
	if r.TimedOut {
		b.WriteString("Error: process timed out.\nOutput so far:\n")
		b.WriteString(r.Stdout)
		if r.Stderr != "" {
			b.WriteString("\n")
			b.WriteString(r.Stderr)
		}
		return b.String()
	}
	b.WriteString("\n=== COMMAND OUTPUT ===\n")
	b.WriteString(r.Stdout)
	b.WriteString("\n")
	b.WriteString(r.Stderr)
	if r.Truncated {
		b.WriteString("\n[output truncated]")
	}
	fmt.Fprintf(&b, "\n\n[Exit Code]: %d", r.ExitCode)
	return b.String()
}
