package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Spinner shows progress while waiting. A quiet spinner does nothing.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner writing to out with the given message.
func NewSpinner(out io.Writer, message string, quiet bool) *Spinner {
	if quiet {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message
	return &Spinner{s: s}
}

// Start begins animating.
func (s *Spinner) Start() {
	if s.s != nil {
		s.s.Start()
	}
}

// Stop stops animating and clears the line.
func (s *Spinner) Stop() {
	if s.s != nil {
		s.s.Stop()
	}
}

// Fail stops animating and leaves msg in red.
func (s *Spinner) Fail(msg string) {
	if s.s != nil {
		s.s.FinalMSG = text.FgRed.Sprint(msg) + "\n"
		s.s.Stop()
	}
}
