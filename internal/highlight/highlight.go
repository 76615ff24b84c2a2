// Package highlight produces styled text in which every occurrence of a search
// keyword is marked with an emphasis style.
//
// Matching ignores case, diacritics and character width, so "café" matches
// "CAFE" and full-width "１２３" matches "123". Style runs always refer to
// the original text: a match covers the exact source bytes that folded into
// the keyword, including any trailing combining marks.
package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Font describes the typeface a run is drawn with.
type Font struct {
	Size int
	Bold bool
}

// Color is a hex color such as "#1C1C1E".
type Color string

// Style is a font/color pair applied to a run of text.
type Style struct {
	Font  Font
	Color Color
}

// Run is a contiguous piece of text sharing one style.
type Run struct {
	Text        string
	Style       Style
	Highlighted bool
}

// Text is an ordered list of non-overlapping runs covering the whole input.
type Text struct {
	Runs []Run
}

// Range is a half-open byte range [Start, End) into the source text.
type Range struct {
	Start int
	End   int
}

// Plain wraps text in a single run of the given style.
func Plain(text string, style Style) Text {
	if text == "" {
		return Text{}
	}
	return Text{Runs: []Run{{Text: text, Style: style}}}
}

// String reassembles the unstyled text.
func (t Text) String() string {
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Highlights returns the text of every highlighted run in order.
func (t Text) Highlights() []string {
	var out []string
	for _, r := range t.Runs {
		if r.Highlighted {
			out = append(out, r.Text)
		}
	}
	return out
}

// IsEmpty reports whether the text has no runs.
func (t Text) IsEmpty() bool {
	return len(t.Runs) == 0
}

// Highlight styles text with base and applies emphasis to every
// non-overlapping occurrence of keyword, scanning left to right.
func Highlight(text, keyword string, base, emphasis Style) Text {
	if text == "" {
		return Text{}
	}

	matches := Find(text, keyword)
	if len(matches) == 0 {
		return Plain(text, base)
	}

	runs := make([]Run, 0, len(matches)*2+1)
	cursor := 0
	for _, m := range matches {
		if m.Start > cursor {
			runs = appendRun(runs, Run{Text: text[cursor:m.Start], Style: base})
		}
		runs = appendRun(runs, Run{Text: text[m.Start:m.End], Style: emphasis, Highlighted: true})
		cursor = m.End
	}
	if cursor < len(text) {
		runs = appendRun(runs, Run{Text: text[cursor:], Style: base})
	}
	return Text{Runs: runs}
}

func appendRun(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 && runs[n-1].Style == r.Style && runs[n-1].Highlighted == r.Highlighted {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// Contains reports whether keyword occurs in text under the folded
// comparison.
func Contains(text, keyword string) bool {
	return len(Find(text, keyword)) > 0
}

// Find returns the byte ranges of every non-overlapping occurrence of keyword
// in text. An empty keyword, or one that folds to nothing, matches nothing.
func Find(text, keyword string) []Range {
	if text == "" || keyword == "" {
		return nil
	}

	f := newFolder()
	needle := f.foldString(keyword)
	if len(needle) == 0 {
		return nil
	}

	hay := f.foldText(text)
	if len(needle) > len(hay.runes) {
		return nil
	}

	var out []Range
	for p := 0; p+len(needle) <= len(hay.runes); {
		if !hasPrefixAt(hay.runes, needle, p) {
			p++
			continue
		}

		first := hay.owner[p]
		last := hay.owner[p+len(needle)-1]
		// Marks that folded away belong to the rune they decorate.
		for last+1 < len(hay.spans) && hay.spans[last+1].folded == 0 {
			last++
		}
		out = append(out, Range{Start: hay.spans[first].start, End: hay.spans[last].end})

		p += len(needle)
		for p < len(hay.runes) && hay.owner[p] <= last {
			p++
		}
	}
	return out
}

func hasPrefixAt(hay, needle []rune, at int) bool {
	for i, r := range needle {
		if hay[at+i] != r {
			return false
		}
	}
	return true
}

type span struct {
	start  int
	end    int
	folded int
}

type foldedText struct {
	runes []rune
	// owner maps each folded rune to the index of its source rune in spans.
	owner []int
	spans []span
}

type folder struct {
	t transform.Transformer
}

func newFolder() *folder {
	return &folder{
		t: transform.Chain(
			width.Fold,
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			cases.Fold(),
		),
	}
}

func (f *folder) foldRune(r rune) string {
	out, _, err := transform.String(f.t, string(r))
	if err != nil {
		return strings.ToLower(string(r))
	}
	return out
}

func (f *folder) foldString(s string) []rune {
	var out []rune
	for _, r := range s {
		out = append(out, []rune(f.foldRune(r))...)
	}
	return out
}

func (f *folder) foldText(s string) foldedText {
	ft := foldedText{
		runes: make([]rune, 0, len(s)),
		owner: make([]int, 0, len(s)),
		spans: make([]span, 0, utf8.RuneCountInString(s)),
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		idx := len(ft.spans)
		folded := []rune(f.foldRune(r))
		for _, fr := range folded {
			ft.runes = append(ft.runes, fr)
			ft.owner = append(ft.owner, idx)
		}
		ft.spans = append(ft.spans, span{start: i, end: i + size, folded: len(folded)})
		i += size
	}
	return ft
}
