package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"catcher/internal/auth"
)

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	PrintStatus(&out, StatusView{
		Session: "CATcher-org/pe",
		State:   auth.Authenticated,
		Login:   "octocat",
		Name:    "Mona",
		Storage: "file",
	})

	s := out.String()
	assert.Contains(t, s, "Session:  CATcher-org/pe")
	assert.Contains(t, s, "Authenticated")
	assert.Contains(t, s, "octocat (Mona)")
	assert.Contains(t, s, "Storage:  file")
}

func TestPrintStatus_NoSession(t *testing.T) {
	var out bytes.Buffer
	PrintStatus(&out, StatusView{State: auth.NotAuthenticated})

	assert.Contains(t, out.String(), "(none)")
	assert.Contains(t, out.String(), "Not authenticated")
	assert.NotContains(t, out.String(), "User:")
}

func TestSpinner_QuietIsNoop(t *testing.T) {
	s := NewSpinner(io.Discard, "Waiting for GitHub login...", true)
	s.Start()
	s.Stop()
	s.Fail("failed")
}
