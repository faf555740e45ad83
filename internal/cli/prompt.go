package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// promptLine prints a prompt and reads one trimmed line.
func (a *App) promptLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
// Piped input (tests, scripts) falls back to a plain line read.
func (a *App) promptPassword(prompt string) (string, error) {
	if f, ok := a.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.out, prompt)
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return a.promptLine(prompt)
}

// promptInt reads an integer, returning fallback on an empty line.
func (a *App) promptInt(prompt string, fallback int) (int, error) {
	for {
		line, err := a.promptLine(prompt)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return fallback, nil
		}
		value, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(a.out, "please enter a number")
			continue
		}
		return value, nil
	}
}

// promptYesNo loops until the user answers yes or no.
func (a *App) promptYesNo(prompt string) (bool, error) {
	for {
		line, err := a.promptLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(a.out, "please answer yes or no")
		}
	}
}
