package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUpdateRequired is reported when a newer catcher release exists.
	// Login is refused before any credential work happens.
	ErrUpdateRequired = errors.New("a newer version of catcher is available. Please update to the latest version")

	// ErrExchangeTimeout is reported when the token exchange does not finish in time.
	ErrExchangeTimeout = errors.New("timed out retrieving access token")

	// ErrLoginTimeout is reported when no callback arrives in time.
	ErrLoginTimeout = errors.New("timed out waiting for GitHub login")

	// ErrMachineStopped is returned by operations issued after Run returned.
	ErrMachineStopped = errors.New("auth machine is not running")
)

// ProviderError is an error reported by the identity provider on the callback.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("GitHub login failed: %s (%s)", e.Code, e.Description)
	}
	return fmt.Sprintf("GitHub login failed: %s", e.Code)
}

// IdentityError wraps a failed identity lookup for an accepted token.
type IdentityError struct {
	Err error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("failed to confirm GitHub identity: %v", e.Err)
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}

// TransitionError is returned when an operation is not allowed in the
// current state. It is never reported.
type TransitionError struct {
	Op    string
	State AuthState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.State)
}

// IsTransitionError reports whether err is a TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
