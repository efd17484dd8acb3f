package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9D61FF"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// inputModel is a one-field Bubble Tea form.
type inputModel struct {
	input     textinput.Model
	question  string
	validate  func(string) error
	err       error
	submitted bool
	cancelled bool
}

func newInputModel(in Input) inputModel {
	ti := textinput.New()
	ti.Placeholder = in.Placeholder
	ti.SetValue(in.Value)
	ti.CharLimit = 64
	ti.Focus()

	return inputModel{input: ti, question: in.Prompt, validate: in.Validate}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.err != nil && m.validate != nil && m.validate(m.input.Value()) == nil {
		m.err = nil
	}
	return m, cmd
}

func (m inputModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(questionStyle.Render(m.question))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(hintStyle.Render("enter to confirm • esc to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// TeaAsker asks questions with an inline Bubble Tea text input.
type TeaAsker struct {
	In  io.Reader
	Out io.Writer
}

// Ask runs the text input until the user confirms a valid value or cancels.
func (a TeaAsker) Ask(ctx context.Context, in Input) (string, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.In != nil {
		opts = append(opts, tea.WithInput(a.In))
	}
	if a.Out != nil {
		opts = append(opts, tea.WithOutput(a.Out))
	}

	final, err := tea.NewProgram(newInputModel(in), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return "", ErrPromptCancelled
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(inputModel)
	if !ok || m.cancelled || !m.submitted {
		return "", ErrPromptCancelled
	}
	return m.input.Value(), nil
}
