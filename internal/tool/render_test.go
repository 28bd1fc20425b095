package tool

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cyclone1070/agentteam/internal/directive"
	"github.com/Cyclone1070/agentteam/internal/tool/directory"
	"github.com/Cyclone1070/agentteam/internal/tool/file"
	"github.com/Cyclone1070/agentteam/internal/tool/shell"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{
			name: "write",
			res: Result{
				Directive: directive.Write{Path: "docs/plan.md"},
				Payload:   &file.WriteFileResponse{RelativePath: "docs/plan.md", BytesWritten: 12},
			},
			want: "[Tool Result (WriteFile - docs/plan.md)]: Successfully wrote 12 bytes to docs/plan.md",
		},
		{
			name: "list",
			res: Result{
				Directive: directive.List{},
				Payload:   &directory.ListFilesResponse{Files: []string{"a.txt", "b/c.go"}},
			},
			want: "[Tool Result (ListFiles)]: a.txt\nb/c.go",
		},
		{
			name: "git denial",
			res: Result{
				Directive: directive.Shell{Command: "git push", Forbidden: true},
				Outcome:   AccessDenied,
				Err:       fmt.Errorf("%w: %w", ErrAuthorizationDenied, ErrGitForbidden),
			},
			want: "[Tool Error (Shell - git push)]: Error: git commands are not allowed",
		},
		{
			name: "not found",
			res: Result{
				Directive: directive.Read{Path: "x.txt"},
				Outcome:   NotFound,
				Err:       fmt.Errorf("%w: %w", ErrNotFound, file.ErrFileMissing),
			},
			want: "[Tool Error (ReadFile - x.txt)]: Error: not found: file does not exist",
		},
		{
			name: "timeout keeps partial output",
			res: Result{
				Directive: directive.Shell{Command: "dotnet run"},
				Outcome:   Timeout,
				Payload:   &shell.ShellResponse{Stdout: "listening", TimedOut: true},
				Err:       ErrTimeout,
			},
			want: "[Tool Error (Shell - dotnet run)]: Error: process timed out.\nOutput so far:\nlistening",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.res))
		})
	}
}

func TestRender_ShellSuccessIncludesExitCode(t *testing.T) {
	out := Render(Result{
		Directive: directive.Shell{Command: "dotnet build"},
		Payload:   &shell.ShellResponse{Stdout: "Build failed", ExitCode: 1},
	})

	assert.Contains(t, out, "[Tool Result (Shell - dotnet build)]:")
	assert.Contains(t, out, "=== COMMAND OUTPUT ===")
	assert.Contains(t, out, "[Exit Code]: 1")
}
