package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the user presses Ctrl-C or Ctrl-D at a prompt.
var ErrInterrupted = errors.New("prompt interrupted")

// LineReader reads one line of user input.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Prompter asks the user questions on the terminal.
type Prompter struct {
	out       io.Writer
	newReader func(prompt string) (LineReader, error)
}

// NewPrompter creates a prompter reading from in and echoing to out.
func NewPrompter(in io.ReadCloser, out io.Writer) *Prompter {
	return NewLinePrompter(out, func(prompt string) (LineReader, error) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			Stdin:           in,
			Stdout:          out,
			InterruptPrompt: "^C",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create readline instance: %w", err)
		}
		return rl, nil
	})
}

// NewLinePrompter creates a prompter that opens a LineReader per question.
// The reader is expected to show prompt itself.
func NewLinePrompter(out io.Writer, newReader func(prompt string) (LineReader, error)) *Prompter {
	return &Prompter{out: out, newReader: newReader}
}

func (p *Prompter) readLine(prompt string) (string, error) {
	rl, err := p.newReader(prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", fmt.Errorf("readline error: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Ask prompts until a non-empty answer is given.
func (p *Prompter) Ask(prompt string) (string, error) {
	for {
		answer, err := p.readLine(prompt)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// Confirm asks a yes/no question. An empty answer means no.
func (p *Prompter) Confirm(question string) (bool, error) {
	prompt := question + " [y/N]: "
	for {
		answer, err := p.readLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		default:
			fmt.Fprintln(p.out, "Please answer 'y' or 'n'.")
		}
	}
}
