package search

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Paintersrp/mixsearch/internal/highlight"
	engine "github.com/Paintersrp/mixsearch/internal/search"
)

const defaultWidth = 80

func (m *Model) View() string {
	width := m.contentWidth()

	var body string
	if len(m.pages) > 0 {
		body = m.viewPage(m.pages[len(m.pages)-1], width)
	} else {
		body = m.viewSearch(width)
	}

	footer := []string{}
	if m.status != "" {
		footer = append(footer, statusStyle.Render(truncate.StringWithTail(m.status, uint(width), "…")))
	}
	if root := m.rootStatusLine(); root != "" {
		footer = append(footer, hintStyle.Render(truncate.StringWithTail(root, uint(width), "…")))
	}
	footer = append(footer, renderHelpWithinWidth(width, m.help.View(m.keys)))

	return appStyle.Render(body + "\n\n" + strings.Join(footer, "\n"))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	h, _ := appStyle.GetFrameSize()
	return max(m.width-h, 20)
}

func (m *Model) rootStatusLine() string {
	if m.state == nil || m.state.RootStatus == nil {
		return ""
	}
	return m.state.RootStatus.Value()
}

func (m *Model) viewSearch(width int) string {
	lines := []string{m.input.View()}

	switch {
	case m.presenter == nil && m.session.State() == engine.StateSearching:
		lines = append(lines, "", hintStyle.Render(m.spinner.View()+" Searching…"))
		return strings.Join(lines, "\n")
	case m.presenter == nil:
		lines = append(lines, "", hintStyle.Render("Type to search contacts, chats, messages and assets."))
		return strings.Join(lines, "\n")
	case m.presenter.IsEmpty():
		lines = append(lines, "", hintStyle.Render("No results"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "")
	selected, _ := m.current()
	for _, s := range m.presenter.Visible() {
		if header, ok := m.presenter.Header(s); ok {
			lines = append(lines, renderHeader(header, width)...)
		}
		for i := 0; i < m.presenter.RowCount(s); i++ {
			row, err := m.presenter.Row(s, i)
			if err != nil {
				continue
			}
			isSelected := selected.section == s && selected.index == i
			lines = append(lines, m.renderRow(row, isSelected, width)...)
		}
	}
	return strings.Join(lines, "\n")
}

// renderHeader draws a section title with a divider above every section
// but the first.
func renderHeader(h engine.Header, width int) []string {
	var lines []string
	if !h.IsFirst {
		lines = append(lines, dividerStyle.Render(strings.Repeat("─", width)))
	}

	title := headerStyle.Render(h.Title)
	if h.ShowsMore {
		more := moreStyle.Render("more ›")
		gap := width - lipgloss.Width(title) - lipgloss.Width(more)
		if gap > 0 {
			title += strings.Repeat(" ", gap) + more
		}
	}
	return append(lines, title)
}

func marker(selected bool) string {
	if selected {
		return selectedMarkerStyle.Render("› ")
	}
	return "  "
}

func badgeMark(b engine.Badge) string {
	switch b {
	case engine.BadgeVerified:
		return "✓"
	case engine.BadgeBot:
		return "⚙"
	default:
		return ""
	}
}

func (m *Model) renderRow(row engine.Row, selected bool, width int) []string {
	inner := max(width-2, 10)

	switch r := row.(type) {
	case engine.NumberRow:
		line := "Search for " + highlight.Render(highlight.Plain(r.Keyword.Trimmed, engine.HighlightedTitleStyle), nil)
		if m.lookup.Busy() {
			line += " " + m.spinner.View()
		}
		return []string{marker(selected) + truncate.StringWithTail(line, uint(inner), "…")}

	case engine.AssetRow:
		line := highlight.Render(r.Result.Symbol, nil) + "  " + hintStyle.Render(r.Result.Asset.Name)
		return []string{marker(selected) + truncate.StringWithTail(line, uint(inner), "…")}

	case engine.ResultRow:
		return m.renderResult(r.Result, selected, inner)
	}
	return nil
}

func (m *Model) renderResult(r engine.Result, selected bool, width int) []string {
	title := highlight.Render(r.Title, nil)
	if mark := badgeMark(r.Badge); mark != "" {
		title += " " + badgeStyle.Render(mark)
	}
	if r.Superscript != nil {
		sup := superscriptStyle.Render(*r.Superscript)
		gap := width - lipgloss.Width(title) - lipgloss.Width(sup)
		if gap > 0 {
			title += strings.Repeat(" ", gap) + sup
		}
	}

	lines := []string{marker(selected) + truncate.StringWithTail(title, uint(width), "…")}
	if r.Description != nil && !r.Description.IsEmpty() {
		desc := highlight.Render(*r.Description, nil)
		lines = append(lines, "  "+truncate.StringWithTail(desc, uint(width), "…"))
	}
	return lines
}

func (m *Model) viewPage(p page, width int) string {
	lines := []string{titleStyle.Render(p.pageTitle()), ""}

	switch p := p.(type) {
	case *detailPage:
		lines = append(lines, p.viewport.View())
	case *listPage:
		if len(p.rows) == 0 {
			lines = append(lines, hintStyle.Render("No results"))
		}
		for i, row := range p.rows {
			lines = append(lines, m.renderRow(row, i == p.cursor, width)...)
		}
	}
	return strings.Join(lines, "\n")
}
