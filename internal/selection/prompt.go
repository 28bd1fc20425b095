package selection

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Cyclone1070/agentteam/internal/conversation"
)

// Mode picks the default flow described to the oracle.
type Mode int

const (
	NewProject Mode = iota
	ExistingProject
)

func (m Mode) String() string {
	if m == ExistingProject {
		return "existing"
	}
	return "new"
}

const newProjectPrompt = `You are the group chat manager. Your only job is to choose who speaks next.
Agents: {{.Agents}}
History:
{{.History}}

Rules:
1. HANDOFF PRIORITY: if the last message contains [HANDOFF TO <Name>], you MUST select <Name>.
2. DEFAULT FLOW:
   - Supervisor or User -> System_Designer
   - System_Designer -> DBA or Programmer
   - DBA -> Programmer
   - Programmer -> Tester
   - Tester -> QA
   - QA (passed) -> Supervisor

Output ONLY the agent name wrapped in <agent> tags.
Example: <agent>Supervisor</agent>`

const existingProjectPrompt = `You are the group chat manager. Your only job is to choose who speaks next.
Agents: {{.Agents}}
History:
{{.History}}

Rules:
1. HANDOFF PRIORITY: if the last message contains [HANDOFF TO <Name>], you MUST select <Name>.
2. INITIALIZATION: if the history holds a single user message, you MUST select Supervisor.
3. DEFAULT FLOW:
   - Supervisor -> System_Designer, DBA or Programmer
   - Programmer -> Tester
   - Tester -> QA
   - QA (passed) -> Supervisor
   - QA (failed) -> Programmer

Output ONLY the agent name wrapped in <agent> tags.
Example: <agent>Programmer</agent>`

var prompts = map[Mode]*template.Template{
	NewProject:      template.Must(template.New("new").Parse(newProjectPrompt)),
	ExistingProject: template.Must(template.New("existing").Parse(existingProjectPrompt)),
}

func renderPrompt(mode Mode, agents []string, window []conversation.Message) (string, error) {
	tmpl, ok := prompts[mode]
	if !ok {
		return "", fmt.Errorf("unknown selection mode %d", int(mode))
	}

	lines := make([]string, len(window))
	for i, m := range window {
		lines[i] = m.Author + ": " + m.Content
	}

	var b strings.Builder
	err := tmpl.Execute(&b, struct {
		Agents  string
		History string
	}{strings.Join(agents, ", "), strings.Join(lines, "\n")})
	return b.String(), err
}
