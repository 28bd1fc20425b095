// Package ui prints the session transcript as plain, colour-coded lines.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Cyclone1070/agentteam/internal/conversation"
	"github.com/Cyclone1070/agentteam/internal/directive"
	"github.com/Cyclone1070/agentteam/internal/termination"
	"github.com/Cyclone1070/agentteam/internal/workflow"
)

const separator = "------------------------------"

// Thought markers actors use around private reasoning.
var thoughtEnds = []string{"[END OF THOUGHT]", "[/THOUGHT]"}

const thoughtStart = "[THOUGHT]"

// Printer writes workflow events to out. A nil markdown renderer prints
// content with tool calls and thoughts highlighted instead.
type Printer struct {
	out      io.Writer
	markdown MarkdownRenderer
	verbose  bool
}

func NewPrinter(out io.Writer, markdown MarkdownRenderer, verbose bool) *Printer {
	return &Printer{out: out, markdown: markdown, verbose: verbose}
}

// Consume prints events until the channel is closed and returns the signal
// carried by the DoneEvent, if one arrived.
func (p *Printer) Consume(events <-chan workflow.Event) termination.Signal {
	signal := termination.None
	for e := range events {
		if done, ok := e.(workflow.DoneEvent); ok {
			signal = done.Signal
		}
		p.Handle(e)
	}
	return signal
}

// Handle prints a single event.
func (p *Printer) Handle(e workflow.Event) {
	switch e := e.(type) {
	case workflow.MessageEvent:
		p.message(e.Actor, e.Content)
	case workflow.SpeakerEvent:
		if p.verbose {
			fmt.Fprintln(p.out, NoticeStyle.Render(fmt.Sprintf("> %s speaks (%s)", e.Actor, e.Rule)))
		}
	case workflow.ThinkingEvent:
		if p.verbose {
			fmt.Fprintln(p.out, NoticeStyle.Render(fmt.Sprintf("  %s is thinking (round %d)", e.Actor, e.Round)))
		}
	case workflow.CompressedEvent:
		fmt.Fprintln(p.out, NoticeStyle.Render(fmt.Sprintf("[history compressed: %d -> %d messages]", e.Before, e.After)))
	case workflow.DoneEvent:
		switch e.Signal {
		case termination.Approved:
			fmt.Fprintln(p.out, SuccessStyle.Render("\n--- Project approved ---"))
		case termination.Failed:
			fmt.Fprintln(p.out, ErrorStyle.Render("\n--- Project failed ---"))
		default:
			fmt.Fprintln(p.out, NoticeStyle.Render("\n--- Session stopped ---"))
		}
	case workflow.ToolEvent:
		// The rendered result follows as a MessageEvent.
	}
}

func (p *Printer) message(actor, content string) {
	fmt.Fprintf(p.out, "\n%s\n", HeaderStyle(actor).Render("["+actor+"]:"))

	body := BodyStyle
	if actor == conversation.AuthorInterceptor {
		body = InterceptorStyle
	}

	if p.markdown != nil && actor != conversation.AuthorInterceptor {
		if rendered, err := p.markdown.Render(content); err == nil {
			fmt.Fprint(p.out, rendered)
			fmt.Fprintln(p.out, separator)
			return
		}
	}

	fmt.Fprintln(p.out, highlight(actor, content, body))
	fmt.Fprintln(p.out, separator)
}

// highlight styles tool calls and thought blocks inside content and renders
// everything else with body.
func highlight(actor, content string, body styler) string {
	var b strings.Builder
	pos := 0
	for _, s := range callSpans(actor, content) {
		b.WriteString(thoughts(content[pos:s.Start], body))
		b.WriteString(ToolCallStyle.Render(content[s.Start:s.End]))
		pos = s.End
	}
	b.WriteString(thoughts(content[pos:], body))
	return b.String()
}

// callSpans returns the non-overlapping spans of parsed tool calls in order.
// Shell fragments split from one call share a span.
func callSpans(actor, content string) []directive.Span {
	var spans []directive.Span
	for _, d := range directive.Parse(actor, content) {
		spans = append(spans, d.Source().Span)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	out := spans[:0]
	end := 0
	for _, s := range spans {
		if s.Start < end || s.End > len(content) {
			continue
		}
		out = append(out, s)
		end = s.End
	}
	return out
}

type styler interface {
	Render(strs ...string) string
}

func thoughts(text string, body styler) string {
	var b strings.Builder
	for text != "" {
		start := strings.Index(text, thoughtStart)
		if start < 0 {
			b.WriteString(body.Render(text))
			break
		}
		if start > 0 {
			b.WriteString(body.Render(text[:start]))
		}
		rest := text[start:]
		end := len(rest)
		for _, tag := range thoughtEnds {
			if i := strings.Index(rest, tag); i >= 0 && i+len(tag) < end {
				end = i + len(tag)
			}
		}
		b.WriteString(ThoughtStyle.Render(rest[:end]))
		text = rest[end:]
	}
	return b.String()
}
