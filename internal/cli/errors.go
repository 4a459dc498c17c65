package cli

import (
	"fmt"
)

// AuthRequiredError indicates a command needs a confirmed login.
// Implements error with actionable guidance.
type AuthRequiredError struct {
	// Session is the org/repo the command was run for, if known.
	Session string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	if e.Session == "" {
		return `Authentication required

To authenticate, run:
  catcher login <org/repo>`
	}
	return fmt.Sprintf(`Authentication required for %s

To authenticate, run:
  catcher login %s`, e.Session, e.Session)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// AuthFailedError indicates the login flow ended in a failure.
type AuthFailedError struct {
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed: %v

To retry authentication, run:
  catcher login`, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}

// AuthCancelledError indicates the user abandoned the login, by closing the
// flow with Ctrl-C or by rejecting the identity.
type AuthCancelledError struct {
	// Rejected is set when the user declined the identity.
	Rejected bool
}

func (e *AuthCancelledError) Error() string {
	if e.Rejected {
		return "Login cancelled: identity not confirmed"
	}
	return "Login cancelled"
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthCancelledError) Is(target error) bool {
	_, ok := target.(*AuthCancelledError)
	return ok
}
