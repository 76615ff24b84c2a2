// Package fzf picks one entry from a list in a terminal fuzzy finder.
package fzf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"
)

// ErrNoSelection is returned when the finder is closed without a choice.
var ErrNoSelection = errors.New("nothing selected")

// Entry is one line of the finder. Preview is markdown shown beside it.
type Entry struct {
	Label   string
	Preview string
}

type findFunc func(slice interface{}, itemFunc func(i int) string, opts ...fuzzyfinder.Option) (int, error)

// FuzzyFinder encapsulates the fuzzy finder functionality
type FuzzyFinder struct {
	Header string

	entries []Entry
	find    findFunc
}

func NewFuzzyFinder(header string, entries []Entry) *FuzzyFinder {
	return &FuzzyFinder{Header: header, entries: entries, find: fuzzyfinder.Find}
}

// Run opens the finder and returns the index of the chosen entry.
func (f *FuzzyFinder) Run() (int, error) {
	return f.RunWithQuery("")
}

func (f *FuzzyFinder) RunWithQuery(query string) (int, error) {
	if len(f.entries) == 0 {
		return -1, ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(f.entries, func(i int) string {
		return f.entries[i].Label
	}, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return -1, ErrNoSelection
	}
	if err != nil {
		return -1, fmt.Errorf("error selecting entry: %w", err)
	}
	return idx, nil
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i < 0 || i >= len(f.entries) {
		return ""
	}
	return RenderMarkdown(f.entries[i].Preview, w)
}

// RenderMarkdown renders md for a preview pane of the given width. The
// source is returned as is when it can't be rendered.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
