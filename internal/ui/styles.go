package ui

import "github.com/charmbracelet/lipgloss"

var actorColors = map[string]lipgloss.Color{
	"Supervisor":         lipgloss.Color("9"),
	"System_Designer":    lipgloss.Color("13"),
	"DBA":                lipgloss.Color("11"),
	"Programmer":         lipgloss.Color("14"),
	"Second_Programmer":  lipgloss.Color("6"),
	"Researcher":         lipgloss.Color("10"),
	"Tester":             lipgloss.Color("5"),
	"QA":                 lipgloss.Color("3"),
	"System_Interceptor": lipgloss.Color("12"),
	"System_Memory":      lipgloss.Color("8"),
}

var (
	BodyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	InterceptorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	ToolCallStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	ThoughtStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	NoticeStyle      = lipgloss.NewStyle().Faint(true)
	SuccessStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	ErrorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// HeaderStyle returns the bold style used for an actor's name.
func HeaderStyle(name string) lipgloss.Style {
	c, ok := actorColors[name]
	if !ok {
		c = lipgloss.Color("7")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
