package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthRequiredError(t *testing.T) {
	err := &AuthRequiredError{Session: "CATcher-org/pe"}
	assert.Contains(t, err.Error(), "catcher login CATcher-org/pe")
	assert.Contains(t, (&AuthRequiredError{}).Error(), "catcher login <org/repo>")

	wrapped := fmt.Errorf("status: %w", err)
	assert.True(t, errors.Is(wrapped, &AuthRequiredError{}))
}

func TestAuthFailedError(t *testing.T) {
	reason := errors.New("bad_verification_code")
	err := &AuthFailedError{Reason: reason}

	assert.Contains(t, err.Error(), "bad_verification_code")
	assert.True(t, errors.Is(err, reason))
	assert.True(t, errors.Is(fmt.Errorf("login: %w", err), &AuthFailedError{}))

	var target *AuthFailedError
	assert.True(t, errors.As(fmt.Errorf("login: %w", err), &target))
}

func TestAuthCancelledError(t *testing.T) {
	assert.Equal(t, "Login cancelled", (&AuthCancelledError{}).Error())
	assert.Contains(t, (&AuthCancelledError{Rejected: true}).Error(), "not confirmed")
	assert.True(t, errors.Is(&AuthCancelledError{Rejected: true}, &AuthCancelledError{}))
	assert.False(t, errors.Is(&AuthFailedError{}, &AuthCancelledError{}))
}
