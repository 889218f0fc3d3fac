package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptYesNo asks a yes/no question and returns the answer. Empty
// input, unreadable input, and non-interactive runs all take the
// default.
func PromptYesNo(question string, defaultYes bool) bool {
	prompt := question + " [y/N] "
	if defaultYes {
		prompt = question + " [Y/n] "
	}

	if !IsTerminal() {
		fmt.Printf("%s(non-interactive, defaulting to %t)\n", prompt, defaultYes)
		return defaultYes
	}

	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		fmt.Printf("(error reading input, defaulting to %t)\n", defaultYes)
		return defaultYes
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return defaultYes
}

// Prompt asks for a string, returning defaultValue on empty input or in
// non-interactive runs.
func Prompt(question, defaultValue string) string {
	prompt := fmt.Sprintf("%s (default: %q): ", question, defaultValue)

	if !IsTerminal() {
		fmt.Printf("%s(non-interactive, defaulting to %q)\n", prompt, defaultValue)
		return defaultValue
	}

	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		fmt.Printf("(error reading input, defaulting to %q)\n", defaultValue)
		return defaultValue
	}

	if input := strings.TrimSpace(line); input != "" {
		return input
	}
	return defaultValue
}
