package fzf

import (
	"errors"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsChosenIndex(t *testing.T) {
	f := NewFuzzyFinder("Pick", []Entry{{Label: "Anna"}, {Label: "Annabel"}})

	var labels []string
	f.find = func(slice interface{}, itemFunc func(i int) string, opts ...fuzzyfinder.Option) (int, error) {
		for i := range f.entries {
			labels = append(labels, itemFunc(i))
		}
		return 1, nil
	}

	idx, err := f.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"Anna", "Annabel"}, labels)
}

func TestRunMapsAbort(t *testing.T) {
	f := NewFuzzyFinder("", []Entry{{Label: "Anna"}})
	f.find = func(interface{}, func(int) string, ...fuzzyfinder.Option) (int, error) {
		return -1, fuzzyfinder.ErrAbort
	}

	_, err := f.Run()
	assert.ErrorIs(t, err, ErrNoSelection)

	f.find = func(interface{}, func(int) string, ...fuzzyfinder.Option) (int, error) {
		return -1, errors.New("no tty")
	}
	_, err = f.Run()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSelection)
}

func TestRunWithoutEntries(t *testing.T) {
	_, err := NewFuzzyFinder("", nil).Run()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestPreview(t *testing.T) {
	f := NewFuzzyFinder("", []Entry{{Label: "Anna", Preview: "# Anna\n\nIdentity 7000101"}})
	assert.Empty(t, f.renderMarkdownPreview(-1, 80, 20))
	assert.Contains(t, f.renderMarkdownPreview(0, 80, 20), "7000101")
	assert.Empty(t, RenderMarkdown("  ", 80))
}
