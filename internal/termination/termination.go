// Package termination decides when an actor's turn ends and when the whole
// session is over.
package termination

import (
	"strings"

	"github.com/Cyclone1070/agentteam/internal/directive"
)

// Signal is the session-level completion state carried by a message.
type Signal int

const (
	None Signal = iota
	Approved
	Failed
)

func (s Signal) String() string {
	switch s {
	case Approved:
		return "approved"
	case Failed:
		return "failed"
	default:
		return "none"
	}
}

const (
	KeywordApproved = "APPROVED"
	KeywordFailed   = "PROJECT_FAILED"
)

// DetectSignal looks for the completion keywords anywhere in content,
// ignoring case. Failure wins when both are present.
func DetectSignal(content string) Signal {
	upper := strings.ToUpper(content)
	switch {
	case strings.Contains(upper, KeywordFailed):
		return Failed
	case strings.Contains(upper, KeywordApproved):
		return Approved
	default:
		return None
	}
}

// Reason says why a turn ended.
type Reason int

const (
	Continue Reason = iota
	Completion
	ToolCall
	Handoff
)

func (r Reason) String() string {
	switch r {
	case Completion:
		return "completion"
	case ToolCall:
		return "tool call"
	case Handoff:
		return "handoff"
	default:
		return "continue"
	}
}

// Policy ends a turn on a completion keyword, a tool call or a handoff.
// Without any of those the same actor keeps generating, up to MaxRounds.
type Policy struct {
	MaxRounds int
}

// NewPolicy returns a Policy allowing maxRounds generations per turn.
func NewPolicy(maxRounds int) *Policy {
	if maxRounds < 1 {
		maxRounds = 1
	}
	return &Policy{MaxRounds: maxRounds}
}

// Evaluate classifies the actor's latest message.
func (p *Policy) Evaluate(content string) Reason {
	switch {
	case DetectSignal(content) != None:
		return Completion
	case directive.HasDirective(content):
		return ToolCall
	case directive.HasHandoff(content):
		return Handoff
	default:
		return Continue
	}
}

// ShouldEndTurn reports whether content ends the current turn.
func (p *Policy) ShouldEndTurn(content string) bool {
	return p.Evaluate(content) != Continue
}

// Exhausted reports whether round (1-based) was the last one allowed.
func (p *Policy) Exhausted(round int) bool {
	return round >= p.MaxRounds
}
