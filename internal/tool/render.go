package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/agentteam/internal/directive"
	"github.com/Cyclone1070/agentteam/internal/tool/directory"
	"github.com/Cyclone1070/agentteam/internal/tool/file"
	"github.com/Cyclone1070/agentteam/internal/tool/research"
	"github.com/Cyclone1070/agentteam/internal/tool/shell"
)

// Render turns a Result into the system message fed back to the actors.
func Render(r Result) string {
	label := directive.Kind(r.Directive)
	if subject := subjectOf(r.Directive); subject != "" {
		label += " - " + subject
	}

	if r.Err != nil {
		msg := describeError(r.Err)
		if r.Outcome == Timeout {
			if resp, ok := r.Payload.(*shell.ShellResponse); ok {
				msg = resp.String()
			}
		}
		return fmt.Sprintf("[Tool Error (%s)]: %s", label, msg)
	}
	return fmt.Sprintf("[Tool Result (%s)]: %s", label, renderPayload(r.Payload))
}

func subjectOf(d directive.Directive) string {
	switch d := d.(type) {
	case directive.Write:
		return d.Path
	case directive.Read:
		return d.Path
	case directive.Shell:
		return d.Command
	case directive.Search:
		return d.Query
	default:
		return ""
	}
}

func renderPayload(p any) string {
	switch v := p.(type) {
	case *file.WriteFileResponse:
		return fmt.Sprintf("Successfully wrote %d bytes to %s", v.BytesWritten, v.RelativePath)
	case *file.ReadFileResponse:
		return v.Content
	case *directory.ListFilesResponse:
		return v.String()
	case *shell.ShellResponse:
		return v.String()
	case *research.SearchResponse:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case nil:
		return "OK"
	default:
		return fmt.Sprint(v)
	}
}

// describeError drops the taxonomy prefix for denials of git, whose
// message is already self-explanatory.
func describeError(err error) string {
	if errors.Is(err, ErrGitForbidden) {
		return "Error: " + ErrGitForbidden.Error()
	}
	return "Error: " + strings.TrimSpace(err.Error())
}
