package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render draws t with r. Font sizes have no terminal equivalent; bold fonts
// are rendered bold and colors are passed through.
func Render(t Text, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var b strings.Builder
	for _, run := range t.Runs {
		b.WriteString(StyleFor(run.Style, r).Render(run.Text))
	}
	return b.String()
}

// StyleFor converts a Style into a lipgloss style bound to r.
func StyleFor(s Style, r *lipgloss.Renderer) lipgloss.Style {
	style := r.NewStyle().Bold(s.Font.Bold)
	if s.Color != "" {
		style = style.Foreground(lipgloss.Color(string(s.Color)))
	}
	return style
}
