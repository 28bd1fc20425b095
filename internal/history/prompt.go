package history

import (
	"strings"
	"text/template"

	"github.com/Cyclone1070/agentteam/internal/conversation"
)

const summarizerInstruction = `You compress the working memory of a software team made of autonomous agents.
Write a digest that later agents can rely on instead of the original messages.

Rules:
- Copy file paths, identifiers, commands, error codes and exit codes exactly as written.
- Copy the decision keywords APPROVED, PROJECT_FAILED, HANDOFF, QA_PASSED and REJECTED verbatim wherever they occurred, with who said them.
- For every agent, record its most recent concrete action (the file it wrote, the command it ran and its outcome), not a vague paraphrase.
- Keep open problems and unfinished assignments.
- Do not invent anything that is not in the input. Output only the digest.`

var summaryTemplate = template.Must(template.New("summary").Parse(`{{if .Previous}}=== CURRENT DIGEST ===
{{.Previous}}

{{end}}=== NEW MESSAGES ===
{{range .Messages}}[{{.Author}}]: {{.Content}}
{{end}}
Produce the updated digest.`))

func buildSummaryPrompt(previous string, aged []conversation.Message) string {
	var b strings.Builder
	_ = summaryTemplate.Execute(&b, struct {
		Previous string
		Messages []conversation.Message
	}{previous, aged})
	return b.String()
}

// digestHeader opens every digest message so actors can tell it apart
// from live conversation.
const digestHeader = "[Memory Digest]: Older messages were archived. The original goal is kept above; continue from the recent messages below.\n\n"
