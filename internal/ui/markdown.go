package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders actor content for the terminal.
type MarkdownRenderer interface {
	Render(in string) (string, error)
}

// NewGlamourRenderer returns a renderer that wraps at width columns.
func NewGlamourRenderer(width int) (MarkdownRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return r, nil
}
