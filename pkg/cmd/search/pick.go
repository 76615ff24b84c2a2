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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/mixsearch/internal/fzf"
	engine "github.com/Paintersrp/mixsearch/internal/search"
)

type pickable struct {
	entry  fzf.Entry
	action engine.Action
}

// pickables lists the visible rows of p in display order.
func pickables(p *engine.Presenter) []pickable {
	var out []pickable
	for _, section := range p.Visible() {
		for i := 0; i < p.RowCount(section); i++ {
			row, err := p.Row(section, i)
			if err != nil {
				continue
			}
			action, err := p.Select(section, i)
			if err != nil {
				continue
			}
			out = append(out, pickable{entry: entryFor(section, row), action: action})
		}
	}
	return out
}

func entryFor(section engine.Section, row engine.Row) fzf.Entry {
	prefix := section.Title()
	if prefix == "" {
		prefix = "Lookup"
	}

	switch row := row.(type) {
	case engine.NumberRow:
		return fzf.Entry{
			Label:   fmt.Sprintf("[%s] Search for %s", prefix, row.Keyword.Trimmed),
			Preview: fmt.Sprintf("# Search for %s\n\nLook the number up remotely.", row.Keyword.Trimmed),
		}
	case engine.AssetRow:
		a := row.Result.Asset
		return fzf.Entry{
			Label:   fmt.Sprintf("[%s] %s %s", prefix, a.Symbol, a.Name),
			Preview: fmt.Sprintf("# %s\n\n%s\n\nBalance: %v\n\nChain: %s", a.Symbol, a.Name, a.Balance, a.ChainID),
		}
	case engine.ResultRow:
		r := row.Result
		label := fmt.Sprintf("[%s] %s", prefix, r.Title.String())
		var preview strings.Builder
		preview.WriteString("# " + r.Title.String() + "\n")
		if r.Superscript != nil {
			preview.WriteString("\n*" + *r.Superscript + "*\n")
		}
		if r.Description != nil {
			label += " · " + r.Description.String()
			preview.WriteString("\n" + r.Description.String() + "\n")
		}
		return fzf.Entry{Label: label, Preview: preview.String()}
	default:
		return fzf.Entry{Label: prefix}
	}
}

// describe prints an action the way the open command line would take it.
func describe(action engine.Action) string {
	switch a := action.(type) {
	case engine.LookupNumber:
		return "lookup " + a.Keyword.Trimmed
	case engine.Navigate:
		switch d := a.Destination.(type) {
		case engine.ContactDestination:
			return "contact " + d.UserID
		case engine.ConversationDestination:
			return "conversation " + d.ConversationID
		case engine.MessageDestination:
			return fmt.Sprintf("message %s/%s", d.ConversationID, d.MessageID)
		case engine.AssetDestination:
			return "asset " + d.AssetID
		case engine.ConversationSearchDestination:
			return fmt.Sprintf("conversation-search %s %q", d.ConversationID, d.Keyword.Trimmed)
		}
	}
	return fmt.Sprintf("%T", action)
}

func pickRow(cmd *cobra.Command, p *engine.Presenter) error {
	items := pickables(p)
	if len(items) == 0 {
		cmd.Println("No results")
		return nil
	}

	entries := make([]fzf.Entry, len(items))
	for i, it := range items {
		entries[i] = it.entry
	}

	idx, err := fzf.NewFuzzyFinder("Select a result", entries).Run()
	if errors.Is(err, fzf.ErrNoSelection) {
		cmd.Println("No result selected")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), describe(items[idx].action))
	return nil
}
