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
package root

import (
	"context"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/constants"
	"github.com/Paintersrp/mixsearch/internal/state"
	"github.com/Paintersrp/mixsearch/pkg/cmd/importer"
	"github.com/Paintersrp/mixsearch/pkg/cmd/initialize"
	"github.com/Paintersrp/mixsearch/pkg/cmd/lookup"
	"github.com/Paintersrp/mixsearch/pkg/cmd/search"
	"github.com/Paintersrp/mixsearch/pkg/cmd/tui"
	"github.com/Paintersrp/mixsearch/pkg/shared/flags"
)

func NewCmdRoot(s *state.State) *cobra.Command {
	var stopMetrics context.CancelFunc

	cmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Search contacts, chats, messages and wallet assets from the terminal.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Search the local message store the way the chat list search does:
			contacts, group chats, conversations with matching messages and
			wallet assets, all for one keyword.

			Run without a command to open the interactive search screen.
		`),
		Example: heredoc.Doc(`
			# Open the search screen
			mixsearch

			# Print the sections for one keyword
			mixsearch search anna

			# Look up an identity number remotely
			mixsearch lookup 7000101
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Config.ApplyOverrides(); err != nil {
				return err
			}
			if cmd.Annotations[constants.SkipStateAnnotation] == "true" {
				return nil
			}
			if err := s.Open(cmd.Context()); err != nil {
				return err
			}

			if addr := s.Config.Metrics.Addr; addr != "" {
				ctx, cancel := context.WithCancel(context.Background())
				stopMetrics = cancel
				go func() {
					if err := s.Metrics.Serve(ctx, addr); err != nil {
						s.Logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
					}
				}()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if stopMetrics != nil {
				stopMetrics()
			}
			return s.Close()
		},
		RunE: tui.NewCmdTUI(s).RunE,
	}

	flags.AddPersistent(cmd)

	cmd.AddCommand(
		tui.NewCmdTUI(s),
		search.NewCmdSearch(s),
		lookup.NewCmdLookup(s),
		importer.NewCmdImport(s),
		initialize.NewCmdInit(s),
	)

	return cmd
}
