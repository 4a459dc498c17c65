package cli

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReader struct {
	lines []string
	errs  []error
	i     *int
}

func (s scriptedReader) Readline() (string, error) {
	n := *s.i
	*s.i = n + 1
	if n < len(s.errs) && s.errs[n] != nil {
		return "", s.errs[n]
	}
	if n >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[n], nil
}

func (scriptedReader) Close() error { return nil }

func newScriptedPrompter(out io.Writer, lines []string, errs ...error) (*Prompter, *[]string) {
	i := 0
	var prompts []string
	return NewLinePrompter(out, func(prompt string) (LineReader, error) {
		prompts = append(prompts, prompt)
		return scriptedReader{lines: lines, errs: errs, i: &i}, nil
	}), &prompts
}

func TestPrompter_Ask(t *testing.T) {
	p, prompts := newScriptedPrompter(&bytes.Buffer{}, []string{"", "  CATcher-org/pe  "})

	answer, err := p.Ask("Session (org/repo): ")
	require.NoError(t, err)
	assert.Equal(t, "CATcher-org/pe", answer)
	assert.Len(t, *prompts, 2, "empty answers are asked again")
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  bool
	}{
		{"yes", []string{"y"}, true},
		{"YES", []string{"YES"}, true},
		{"no", []string{"n"}, false},
		{"default", []string{""}, false},
		{"retry on garbage", []string{"maybe", "yes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p, _ := newScriptedPrompter(&out, tt.lines)

			got, err := p.Confirm("Continue as octocat?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_Interrupted(t *testing.T) {
	p, _ := newScriptedPrompter(&bytes.Buffer{}, nil, readline.ErrInterrupt)
	_, err := p.Confirm("Continue?")
	assert.ErrorIs(t, err, ErrInterrupted)

	p, _ = newScriptedPrompter(&bytes.Buffer{}, nil)
	_, err = p.Ask("Session: ")
	assert.ErrorIs(t, err, ErrInterrupted, "EOF counts as an interrupt")
}

func TestPrompter_ReaderError(t *testing.T) {
	p := &Prompter{
		out: &bytes.Buffer{},
		newReader: func(string) (LineReader, error) {
			return nil, errors.New("not a terminal")
		},
	}
	_, err := p.Ask("Session: ")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInterrupted)
}
