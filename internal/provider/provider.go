// Package provider defines the oracle: the text-completion service every
// actor turn, speaker selection and history summary is generated by.
package provider

import "context"

// Role is the speaker of a prompt message from the model's point of view.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one prompt entry. Name, when set, is shown to the model as
// the author of the content.
type Message struct {
	Role    Role
	Name    string
	Content string
}

// Request is a single completion request.
type Request struct {
	// System is the system instruction, if any.
	System string

	Messages []Message

	// Temperature overrides the provider default when non-nil.
	Temperature *float32
}

// Oracle turns a prompt into text.
type Oracle interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, req *Request) (string, error)

func (f OracleFunc) Generate(ctx context.Context, req *Request) (string, error) {
	return f(ctx, req)
}

// Prompt builds a request holding a single user message.
func Prompt(text string) *Request {
	return &Request{Messages: []Message{{Role: RoleUser, Content: text}}}
}
