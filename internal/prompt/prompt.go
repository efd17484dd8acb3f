// Package prompt asks the user how many times each test should repeat.
package prompt

import (
	"context"
	"errors"
	"strconv"

	"github.com/revyl/pwrun/internal/command"
	"github.com/revyl/pwrun/internal/settings"
)

// InvalidRepeatMessage is shown while the prompt holds an unacceptable value.
const InvalidRepeatMessage = "Please enter a non-negative number (0 or more)."

// RepeatPromptText is the question shown to the user.
const RepeatPromptText = "How many times should each test repeat? (--repeat-each)"

var (
	// ErrPromptCancelled is returned when the user dismisses the prompt.
	ErrPromptCancelled = errors.New("prompt cancelled")

	// ErrInvalidRepeatInput is the validation error for non-numeric or negative input.
	ErrInvalidRepeatInput = errors.New(InvalidRepeatMessage)
)

// Input describes a single-line question.
type Input struct {
	// Prompt is the question text.
	Prompt string

	// Value pre-fills the answer.
	Value string

	// Placeholder is shown when the answer is empty.
	Placeholder string

	// Validate rejects an answer by returning an error whose message is shown
	// to the user. The question stays open until Validate returns nil.
	Validate func(string) error
}

// Asker asks a single-line question. Implementations return
// ErrPromptCancelled when the user dismisses it.
type Asker interface {
	Ask(ctx context.Context, in Input) (string, error)
}

// ValidateRepeatInput accepts text whose leading integer is zero or more.
func ValidateRepeatInput(text string) error {
	n, ok := command.ParseLeadingInt(text)
	if !ok || n < 0 {
		return ErrInvalidRepeatInput
	}
	return nil
}

// PromptForRepeatCount asks for a repeat count, pre-filled with current or
// the default when current is nil.
//
// Parameters:
//   - ctx: Cancels the prompt
//   - asker: How to ask
//   - current: The persisted repeatEach setting, if any
//
// Returns:
//   - int: The accepted count
//   - error: ErrPromptCancelled on dismissal
func PromptForRepeatCount(ctx context.Context, asker Asker, current *int) (int, error) {
	value := strconv.Itoa(settings.DefaultRepeatEach)
	if current != nil {
		value = strconv.Itoa(*current)
	}

	answer, err := asker.Ask(ctx, Input{
		Prompt:      RepeatPromptText,
		Value:       value,
		Placeholder: "Enter a number (e.g., 3)",
		Validate:    ValidateRepeatInput,
	})
	if err != nil {
		return 0, err
	}

	n, ok := command.ParseLeadingInt(answer)
	if !ok || n < 0 {
		return 0, ErrInvalidRepeatInput
	}
	return n, nil
}
