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
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/mixsearch/internal/state"
	"github.com/Paintersrp/mixsearch/pkg/cmd/root"
)

func Execute() {
	// Get Home Directory for locating config files
	home, err := state.GetHomeDir()
	cobra.CheckErr(err)

	cfg, err := state.LoadConfig(home)
	cobra.CheckErr(err)

	rootCmd := root.NewCmdRoot(state.New(home, cfg))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
