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
package tui

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/mixsearch/internal/state"
	searchtui "github.com/Paintersrp/mixsearch/internal/tui/search"
)

func NewCmdTUI(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tui",
		Aliases: []string{"t"},
		Short:   "Open the interactive search screen",
		Long:    "Type to search contacts, chats, messages and assets. Results refresh as you type.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchtui.Run(s)
		},
	}

	return cmd
}
