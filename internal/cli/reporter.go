package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"catcher/internal/auth"
	catcherstrings "catcher/pkg/strings"
)

// Reporter prints errors handed to it by the auth machine, one line each.
// It never changes auth state.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	count int
	last  error
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// HandleError implements auth.ErrorReporter.
func (r *Reporter) HandleError(err error) {
	if err == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	r.last = err

	msg := catcherstrings.SingleLine(err.Error(), catcherstrings.DefaultMessageMaxLen)
	fmt.Fprintf(r.out, "%s %s\n", text.FgRed.Sprint("✗"), msg)
	if hint := hintFor(err); hint != "" {
		fmt.Fprintf(r.out, "  %s\n", text.FgHiBlack.Sprint(hint))
	}
}

// Count returns how many errors were reported.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Last returns the most recently reported error.
func (r *Reporter) Last() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrUpdateRequired):
		return "Run 'catcher self-update' to install the latest release."
	case errors.Is(err, auth.ErrLoginTimeout):
		return "Run 'catcher login' again and finish signing in within the time limit."
	case errors.Is(err, auth.ErrExchangeTimeout):
		return "The token service did not answer in time. Check your connection and retry."
	default:
		return ""
	}
}
