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
package lookup

import (
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/mixsearch/internal/model"
	engine "github.com/Paintersrp/mixsearch/internal/search"
	"github.com/Paintersrp/mixsearch/internal/state"
	"github.com/Paintersrp/mixsearch/pkg/shared/arg"
)

func NewCmdLookup(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lookup [identity number or phone]",
		Aliases: []string{"l"},
		Short:   "Look up a user by identity number or phone",
		Long: heredoc.Doc(`
			Ask the remote directory for the user behind an identity number or
			phone number. A user that is found is saved to the local store, so
			later searches find it too.

			Requires api.user_id, api.session_id and api.session_secret.
		`),
		Example: heredoc.Doc(`
			mixsearch lookup 7000101
			mixsearch lookup +14155550100
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Config.RequireAPI(); err != nil {
				return err
			}

			keyword := engine.NewKeyword(arg.HandleKeyword(args))
			if !keyword.MaybeIDOrPhone(s.Region()) {
				return fmt.Errorf("%q is not an identity number or phone number", keyword.Trimmed)
			}

			req := s.Lookup.Start(keyword.Trimmed)
			res, ok := s.Lookup.Finish(s.Lookup.Execute(req))
			if !ok {
				return errors.New("lookup was cancelled")
			}
			if res.User == nil {
				return errors.New(res.Notice)
			}

			printUser(cmd.OutOrStdout(), *res.User)
			return nil
		},
	}

	return cmd
}

var labelStyle = lipgloss.NewStyle().Bold(true).Width(10)

func printUser(w io.Writer, u model.User) {
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}

	name := u.FullName
	switch {
	case u.IsVerified:
		name += " ✓"
	case u.IsBot():
		name += " ⚙"
	}

	line("Name", name)
	line("Identity", u.IdentityNumber)
	line("User ID", u.ID)
	line("Phone", u.Phone)
	line("Bio", u.Biography)
}
