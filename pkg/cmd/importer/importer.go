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
package importer

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/state"
)

func NewCmdImport(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import [file]",
		Aliases: []string{"load"},
		Short:   "Import users, chats, messages and assets from a YAML file",
		Long: heredoc.Doc(`
			Load a YAML document with users, conversations, participants,
			messages and assets into the local store. Rows with an existing id
			are replaced. Phone numbers are normalized with the configured
			phone region.
		`),
		Example: heredoc.Doc(`
			mixsearch import fixtures.yaml
			mixsearch import fixtures.yaml --region GB
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := s.Store.ImportFile(cmd.Context(), args[0], s.Region())
			if err != nil {
				return err
			}

			s.Logger.Info("fixtures imported",
				zap.String("path", args[0]),
				zap.Int("users", summary.Users),
				zap.Int("messages", summary.Messages))
			cmd.Printf("Imported %s\n", summary)
			return nil
		},
	}

	return cmd
}
