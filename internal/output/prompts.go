package output

import "github.com/AlecAivazis/survey/v2"

// Confirm asks message as a yes/no prompt, defaulting to defaultYes. A
// canceled prompt (Ctrl-C, non-TTY stdin) answers false rather than erroring,
// matching gg's "missing confirmation means don't proceed" convention.
func Confirm(message string, defaultYes bool) bool {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultYes,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false
	}
	return answer
}
