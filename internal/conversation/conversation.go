// Package conversation holds the explicit, rebuildable state of one session.
package conversation

import "fmt"

// Role classifies who produced a message.
type Role int

const (
	RoleUser Role = iota
	RoleActor
	RoleSystem
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleActor:
		return "actor"
	case RoleSystem:
		return "system"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Reserved authors for messages that no actor wrote.
const (
	AuthorUser        = "User"
	AuthorInterceptor = "System_Interceptor"
	AuthorMemory      = "System_Memory"
)

// Message is one entry of the transcript.
type Message struct {
	Author  string
	Role    Role
	Content string
	Ordinal int
}

// IsToolResult reports whether m was synthesized from a tool execution.
func (m Message) IsToolResult() bool {
	return m.Role == RoleSystem && m.Author == AuthorInterceptor
}

// IsDigest reports whether m carries a history summary.
func (m Message) IsDigest() bool {
	return m.Role == RoleSystem && m.Author == AuthorMemory
}

// Summary records the digest of compressed history. Covered is the first
// ordinal that the digest does not include.
type Summary struct {
	Digest  string
	Covered int
}

// State is the ordered transcript plus an optional summary. It is owned by a
// single control loop and is not safe for concurrent use.
type State struct {
	messages []Message
	summary  *Summary
	next     int
}

// NewState starts a conversation with the user's goal.
func NewState(goal string) *State {
	s := &State{}
	s.Append(AuthorUser, RoleUser, goal)
	return s
}

// Append adds a message and returns it with its assigned ordinal.
func (s *State) Append(author string, role Role, content string) Message {
	m := Message{Author: author, Role: role, Content: content, Ordinal: s.next}
	s.next++
	s.messages = append(s.messages, m)
	return m
}

// Messages returns a copy of the current window.
func (s *State) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len is the number of messages currently held.
func (s *State) Len() int { return len(s.messages) }

// Last returns the most recent message.
func (s *State) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Summary returns the current digest, if any.
func (s *State) Summary() (Summary, bool) {
	if s.summary == nil {
		return Summary{}, false
	}
	return *s.summary, true
}

// Replace swaps in a compressed window and summary. A summary that would
// shrink the covered prefix is rejected, as is a window whose ordinals are
// not strictly increasing.
func (s *State) Replace(messages []Message, summary Summary) error {
	if s.summary != nil && summary.Covered < s.summary.Covered {
		return fmt.Errorf("summary coverage cannot shrink: %d < %d", summary.Covered, s.summary.Covered)
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].Ordinal <= messages[i-1].Ordinal {
			return fmt.Errorf("ordinal %d follows %d", messages[i].Ordinal, messages[i-1].Ordinal)
		}
	}
	s.messages = append(s.messages[:0:0], messages...)
	s.summary = &summary
	return nil
}

// DigestMessage builds the synthetic message that carries a digest. The
// caller passes an ordinal freed by summarization, normally the one just
// before the first retained message, so the window stays in order.
func DigestMessage(digest string, ordinal int) Message {
	return Message{Author: AuthorMemory, Role: RoleSystem, Content: digest, Ordinal: ordinal}
}
