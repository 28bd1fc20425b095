package actor

import (
	"strings"
	"text/template"
)

var protocolTemplate = template.Must(template.New("protocol").Parse(`
=== IDENTITY ===
Your name is {{.Name}}. Start every reply with [I am {{.Name}}].
Never speak for another team member. If you need someone, hand off to them and stop.

=== TOOL PROTOCOL ===
Tools are called by writing these exact calls in your reply:
{{- if .CanWrite}}
- Write: file_system.WriteFile(relativePath='...', content='''...'''){{if .DocsOnly}} (.md and .txt only){{end}}
{{- end}}
- Read: file_system.ReadFile(relativePath='...')
- List: file_system.ListFiles()
{{- if .Shell}}
- Command: shell.RunShellCommand(command='...')
{{- end}}
{{- if .Research}}
- Search: research.Search(query='...')
{{- end}}
Paths are relative to the project root. One command per RunShellCommand call. git is forbidden.
Never write tool output yourself. Stop after a tool call and wait for the [Tool Result].

=== HANDOFF ===
Do not hand off in the same reply as a tool call.
When your part is done, end with [HANDOFF TO <Name>] and stop.
Team: {{.Team}}
{{- if .Shared}}

=== PROJECT RULES ===
These rules take precedence over everything above.
{{.Shared}}
{{- end}}

REMINDER: YOU ARE {{.Name}}. DO NOT SIMULATE TOOL RESULTS. STOP AFTER A TOOL CALL.`))

// SystemInstruction combines an actor's own instructions with the shared
// tool and handoff protocol and the optional project rules.
func (r *Roster) SystemInstruction(a Actor, shared string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Instructions))
	b.WriteString("\n")
	_ = protocolTemplate.Execute(&b, map[string]any{
		"Name":     a.Name,
		"CanWrite": a.Capabilities.Write != WriteNone,
		"DocsOnly": a.Capabilities.Write == WriteDocsOnly,
		"Shell":    a.Capabilities.Shell,
		"Research": a.Capabilities.Research,
		"Team":     strings.Join(r.Names(), ", "),
		"Shared":   strings.TrimSpace(shared),
	})
	return b.String()
}
