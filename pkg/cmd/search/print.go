/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package search

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Paintersrp/mixsearch/internal/highlight"
	engine "github.com/Paintersrp/mixsearch/internal/search"
)

type printer struct {
	w      io.Writer
	r      *lipgloss.Renderer
	header lipgloss.Style
	more   lipgloss.Style
	dim    lipgloss.Style
}

func newPrinter(w io.Writer, plain bool) *printer {
	r := lipgloss.NewRenderer(w)
	if plain || !isTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	return &printer{
		w:      w,
		r:      r,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		more:   r.NewStyle().Foreground(lipgloss.Color("#3D88F7")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#999999")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) presenter(pr *engine.Presenter) {
	if pr.IsEmpty() {
		fmt.Fprintln(p.w, "No results")
		return
	}

	for _, section := range pr.Visible() {
		if h, ok := pr.Header(section); ok {
			if !h.IsFirst {
				fmt.Fprintln(p.w)
			}
			title := p.header.Render(h.Title)
			if h.ShowsMore {
				title += " " + p.more.Render("(more)")
			}
			fmt.Fprintln(p.w, title)
		}
		for i := 0; i < pr.RowCount(section); i++ {
			row, err := pr.Row(section, i)
			if err != nil {
				continue
			}
			fmt.Fprintln(p.w, p.row(row))
		}
	}
}

func (p *printer) category(section engine.Section, results engine.Results, category engine.Category) {
	if results.Count(category) == 0 {
		fmt.Fprintln(p.w, "No results")
		return
	}

	fmt.Fprintln(p.w, p.header.Render(section.Title()))
	if category == engine.CategoryAsset {
		for _, a := range results.Assets {
			fmt.Fprintln(p.w, p.row(engine.AssetRow{Result: a}))
		}
		return
	}
	for _, r := range results.Rows(category) {
		fmt.Fprintln(p.w, p.row(engine.ResultRow{Result: r}))
	}
}

func (p *printer) row(row engine.Row) string {
	switch row := row.(type) {
	case engine.NumberRow:
		return "  Search for " + row.Keyword.Trimmed
	case engine.AssetRow:
		a := row.Result.Asset
		return fmt.Sprintf("  %s %s %s",
			highlight.Render(row.Result.Symbol, p.r),
			a.Name,
			p.dim.Render(humanize.CommafWithDigits(a.Balance, 8)))
	case engine.ResultRow:
		return p.result(row.Result)
	default:
		return ""
	}
}

func (p *printer) result(r engine.Result) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(highlight.Render(r.Title, p.r))
	if mark := badge(r.Badge); mark != "" {
		b.WriteString(" " + mark)
	}
	if r.Superscript != nil {
		b.WriteString("  " + p.dim.Render(*r.Superscript))
	}
	if r.Description != nil && !r.Description.IsEmpty() {
		b.WriteString("\n    ")
		b.WriteString(highlight.Render(*r.Description, p.r))
	}
	return b.String()
}

func badge(b engine.Badge) string {
	switch b {
	case engine.BadgeVerified:
		return "✓"
	case engine.BadgeBot:
		return "⚙"
	default:
		return ""
	}
}
