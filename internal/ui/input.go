// Package ui provides interactive input components.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNoInput is returned when input ends before an answer is given.
var ErrNoInput = errors.New("no input")

// stdin is shared by every prompt so buffered lines are not lost between calls.
var stdin = bufio.NewReader(os.Stdin)

// SetInput redirects prompt input.
func SetInput(in io.Reader) {
	stdin = bufio.NewReader(in)
}

// Prompt displays a prompt and reads one line of input.
//
// Parameters:
//   - message: The prompt message to display
//
// Returns:
//   - string: The trimmed line
//   - error: ErrNoInput at end of input, or a read error
func Prompt(message string) (string, error) {
	fmt.Fprintf(stdout, "%s ", InfoStyle.Render(message))

	line, err := stdin.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		return "", ErrNoInput
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptConfirm displays a yes/no confirmation prompt.
//
// Parameters:
//   - message: The prompt message to display
//   - defaultYes: Answer used for an empty line
//
// Returns:
//   - bool: True if user confirmed, false otherwise
//   - error: Any error that occurred
func PromptConfirm(message string, defaultYes bool) (bool, error) {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}

	input, err := Prompt(message + " " + suffix)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(input) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// PromptSelect displays a numbered list and returns the chosen index. An
// empty answer picks the first option.
//
// Parameters:
//   - message: The prompt message to display
//   - options: List of options to choose from
//
// Returns:
//   - int: Index of selected option
//   - error: Any error that occurred
func PromptSelect(message string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("no options to select from")
	}

	fmt.Fprintln(stdout, InfoStyle.Render(message))
	for i, opt := range options {
		fmt.Fprintf(stdout, "    %s %s\n", AccentStyle.Render("["+strconv.Itoa(i+1)+"]"), InfoStyle.Render(opt))
	}

	for {
		input, err := Prompt("Select option [1]:")
		if err != nil {
			return -1, err
		}
		if input == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(options) {
			PrintWarning("Please enter a number between 1 and %d", len(options))
			continue
		}
		return n - 1, nil
	}
}
