// Package dialog provides interactive terminal prompts using charmbracelet/huh.
package dialog

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// AskPassword prompts for a password on the terminal without echoing it.
func AskPassword(title, description string) (string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("password prompt: %w", err)
	}
	return password, nil
}

// Confirm asks a yes/no question on the terminal.
func Confirm(title string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return confirmed, nil
}
