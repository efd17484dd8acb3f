package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// LineAsker asks questions on plain line-oriented streams, for pipes and
// dumb terminals. End of input cancels.
type LineAsker struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// Ask writes the question and reads answers until one validates. An empty
// line accepts the pre-filled value.
func (a *LineAsker) Ask(ctx context.Context, in Input) (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", ErrPromptCancelled
		}

		if in.Value != "" {
			fmt.Fprintf(a.Out, "%s [%s]: ", in.Prompt, in.Value)
		} else {
			fmt.Fprintf(a.Out, "%s: ", in.Prompt)
		}

		line, err := a.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.Out)
				return "", ErrPromptCancelled
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		answer := strings.TrimRight(line, "\r\n")
		if answer == "" {
			answer = in.Value
		}
		if in.Validate != nil {
			if verr := in.Validate(answer); verr != nil {
				fmt.Fprintln(a.Out, verr.Error())
				continue
			}
		}
		return answer, nil
	}
}

// NewAsker picks the Bubble Tea asker when both streams are terminals and the
// line asker otherwise.
func NewAsker(in *os.File, out *os.File) Asker {
	if isTerminal(in) && isTerminal(out) {
		return TeaAsker{In: in, Out: out}
	}
	return &LineAsker{In: in, Out: out}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
