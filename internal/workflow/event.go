package workflow

import (
	"github.com/Cyclone1070/agentteam/internal/selection"
	"github.com/Cyclone1070/agentteam/internal/termination"
	"github.com/Cyclone1070/agentteam/internal/tool"
)

// Event is the interface for all workflow events.
// Consumers handle events via type switch.
type Event interface {
	isEvent()
}

// SpeakerEvent is emitted when a speaker has been chosen for the next turn.
type SpeakerEvent struct {
	Actor string
	Rule  selection.Rule
}

func (SpeakerEvent) isEvent() {}

// ThinkingEvent is emitted before each oracle call of a turn.
type ThinkingEvent struct {
	Actor string
	Round int
}

func (ThinkingEvent) isEvent() {}

// MessageEvent carries one (actor, content) pair of the transcript, in the
// order it was appended. Tool results are authored by System_Interceptor.
type MessageEvent struct {
	Actor   string
	Content string
}

func (MessageEvent) isEvent() {}

// ToolEvent is emitted after a directive has been executed, just before its
// result message.
type ToolEvent struct {
	Actor   string
	Kind    string
	Outcome tool.Outcome
	Err     error
}

func (ToolEvent) isEvent() {}

// CompressedEvent is emitted when history was summarized.
type CompressedEvent struct {
	Before int
	After  int
}

func (CompressedEvent) isEvent() {}

// DoneEvent is emitted exactly once when a session ends. Signal is None when
// the session stopped for any reason other than a completion keyword.
type DoneEvent struct {
	Signal termination.Signal
}

func (DoneEvent) isEvent() {}
