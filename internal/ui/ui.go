// Package ui provides interactive terminal prompts.
package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// Confirmer asks the operator yes/no questions before destructive
// operations.
type Confirmer struct{}

// NewConfirmer creates a Confirmer.
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Confirm shows a yes/no prompt and returns the answer. The default answer
// is no.
func (c *Confirmer) Confirm(message string) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}

	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}

	return answer, nil
}
