package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the wrap width used by Speech and Hint
const DefaultWidth = 72

var (
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	yellowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	magentaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func Green(s string) string   { return greenStyle.Render(s) }
func Red(s string) string     { return redStyle.Render(s) }
func Yellow(s string) string  { return yellowStyle.Render(s) }
func Cyan(s string) string    { return cyanStyle.Render(s) }
func Magenta(s string) string { return magentaStyle.Render(s) }
func Bold(s string) string    { return boldStyle.Render(s) }

// Rule returns a horizontal separator of the given width
func Rule(width int) string {
	return Cyan(strings.Repeat("=", width))
}

// Speech formats in-game dialogue as "[Speaker]  line" with each line
// wrapped to DefaultWidth
func Speech(speaker string, lines ...string) string {
	return tagged(Magenta(Bold("["+speaker+"]")), lines)
}

// Hint formats tutorial-style hints
func Hint(lines ...string) string {
	return tagged(Yellow(Bold("[HINT]")), lines)
}

func tagged(tag string, lines []string) string {
	var b strings.Builder
	b.WriteString(tag)
	b.WriteString("\t")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wordwrap.String(line, DefaultWidth))
	}
	return b.String()
}
