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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	engine "github.com/Paintersrp/mixsearch/internal/search"
	"github.com/Paintersrp/mixsearch/internal/state"
	"github.com/Paintersrp/mixsearch/pkg/shared/arg"
	"github.com/Paintersrp/mixsearch/pkg/shared/flags"
)

var moreSections = map[string]engine.Section{
	"assets":   engine.SectionAsset,
	"contacts": engine.SectionUser,
	"groups":   engine.SectionGroup,
	"messages": engine.SectionConversationByMessage,
}

func NewCmdSearch(s *state.State) *cobra.Command {
	var more string

	cmd := &cobra.Command{
		Use:     "search [keyword]",
		Aliases: []string{"s", "find"},
		Short:   "Search contacts, chats, messages and assets",
		Long: heredoc.Doc(`
			Search every category for one keyword and print the sections the
			search screen would show, capped the same way.

			Use --more to list one whole section, or --pick to choose a row in
			a fuzzy finder and print where it leads.
		`),
		Example: heredoc.Doc(`
			mixsearch search anna
			mixsearch search anna --more contacts
			mixsearch search trip --pick
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := arg.HandleKeyword(args)
			if keyword == "" {
				return errors.New("a keyword is required")
			}

			pick, err := flags.HandlePick(cmd)
			if err != nil {
				return err
			}
			plain, err := flags.HandlePlain(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := newPrinter(out, plain)

			if more != "" {
				section, ok := moreSections[strings.ToLower(more)]
				if !ok {
					return fmt.Errorf("unknown section %q. Please choose from assets, contacts, groups, messages", more)
				}
				return runMore(cmd, s, p, section, keyword)
			}

			presenter, err := runSearch(s, keyword)
			if err != nil {
				return err
			}

			if pick {
				return pickRow(cmd, presenter)
			}

			p.presenter(presenter)
			return nil
		},
	}

	cmd.Flags().StringVar(&more, "more", "", "List every match of one section: assets, contacts, groups or messages")
	flags.AddPick(cmd)
	flags.AddPlain(cmd)

	return cmd
}

// runSearch drives the session through one search and returns the
// presenter for the published results.
func runSearch(s *state.State, keyword string) (*engine.Presenter, error) {
	req, ok := s.Session.Begin(keyword)
	if !ok {
		if results, shown := s.Session.Results(); shown {
			return newPresenter(s, results), nil
		}
		return nil, errors.New("a keyword is required")
	}

	outcome := s.Session.Execute(req)
	if outcome.Err != nil {
		s.Session.Reset()
		return nil, fmt.Errorf("search failed: %w", outcome.Err)
	}
	if !s.Session.Publish(outcome) {
		return nil, errors.New("search was cancelled")
	}

	results, _ := s.Session.Results()
	return newPresenter(s, results), nil
}

func newPresenter(s *state.State, results engine.Results) *engine.Presenter {
	p := engine.NewPresenter(
		results,
		results.Keyword.MaybeIDOrPhone(s.Region()),
		s.Aggregator.ResultLimit(),
	)
	for _, section := range engine.Sections {
		s.Metrics.SetSectionRows(section.String(), p.RowCount(section))
	}
	return p
}

func runMore(cmd *cobra.Command, s *state.State, p *printer, section engine.Section, raw string) error {
	category, _ := section.Category()
	keyword := engine.NewKeyword(raw)

	results, err := s.Aggregator.SearchCategory(cmd.Context(), keyword, category)
	if err != nil {
		return err
	}

	p.category(section, results, category)
	return nil
}
