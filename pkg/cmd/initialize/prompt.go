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
	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
)

type prompter interface {
	Select(prompt string, choices []string) (string, error)
	Input(prompt, initial string, hidden bool) (string, error)
}

type promptkitPrompter struct{}

func (promptkitPrompter) Select(prompt string, choices []string) (string, error) {
	sp := selection.New(prompt, choices)
	sp.PageSize = 5
	return sp.RunPrompt()
}

func (promptkitPrompter) Input(prompt, initial string, hidden bool) (string, error) {
	input := textinput.New(prompt)
	input.InitialValue = initial
	input.Hidden = hidden
	input.Validate = nil
	return input.RunPrompt()
}
