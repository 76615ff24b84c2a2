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
package initialize

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/mixsearch/internal/config"
	"github.com/Paintersrp/mixsearch/internal/constants"
	"github.com/Paintersrp/mixsearch/internal/state"
)

var regions = []string{"US", "GB", "CN", "JP", "DE", "FR", "IN", "SG", "CA", "AU"}

func NewCmdInit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"i", "init"},
		Short:   "Set up mixsearch",
		Long: heredoc.Doc(`
			Walk through the settings mixsearch needs: the default phone region
			used to read numbers without a country code, the log level and the
			API session used by the remote number lookup.
		`),
		Example:     "mixsearch init",
		Annotations: map[string]string{constants.SkipStateAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(s.Config, promptkitPrompter{}); err != nil {
				return err
			}
			cmd.Printf("Saved configuration to %s\n", s.Config.GetConfigPath())
			return nil
		},
	}

	return cmd
}

func run(cfg *config.Config, p prompter) error {
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	region, err := p.Select("Default phone region", withFirst(regions, cfg.Search.PhoneRegion))
	if err != nil {
		return err
	}
	if err := cfg.ChangeRegion(region); err != nil {
		return err
	}

	level, err := p.Select("Log level", withFirst(config.ValidLogLevels, cfg.Log.Level))
	if err != nil {
		return err
	}
	if err := cfg.ChangeLogLevel(level); err != nil {
		return err
	}

	fields := []struct {
		prompt string
		target *string
		hidden bool
	}{
		{"API user id", &cfg.API.UserID, false},
		{"API session id", &cfg.API.SessionID, false},
		{"API session secret", &cfg.API.SessionSecret, true},
	}
	for _, f := range fields {
		value, err := p.Input(f.prompt, *f.target, f.hidden)
		if err != nil {
			return err
		}
		*f.target = strings.TrimSpace(value)
	}

	return cfg.Save()
}

// withFirst moves current to the front of choices so it is preselected.
func withFirst(choices []string, current string) []string {
	out := []string{}
	for _, c := range choices {
		if strings.EqualFold(c, current) {
			out = append(out, c)
		}
	}
	for _, c := range choices {
		if !strings.EqualFold(c, current) {
			out = append(out, c)
		}
	}
	if len(out) == len(choices) && current != "" && !contains(choices, current) {
		out = append([]string{current}, out...)
	}
	return out
}

func contains(choices []string, v string) bool {
	for _, c := range choices {
		if strings.EqualFold(c, v) {
			return true
		}
	}
	return false
}
