package search

import "github.com/charmbracelet/lipgloss"

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BBBEC3")).
			Bold(true)

	moreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D75E3"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#334455"))

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0AF")).
				Bold(true)

	superscriptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#BBBEC3"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D75E3"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BBBEC3")).
			Width(14)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585b70"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
)

func renderHelpWithinWidth(width int, content string) string {
	if width <= 0 {
		return helpStyle.Render(content)
	}

	return helpStyle.Copy().
		Width(width).
		MaxWidth(width).
		Render(content)
}
