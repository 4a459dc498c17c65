package auth

import "fmt"

// AuthState is the login progress of a session.
type AuthState int

const (
	// NotAuthenticated is the initial and recovery state.
	NotAuthenticated AuthState = iota

	// AwaitingAuthentication means the user has been sent to the provider and
	// a callback is expected.
	AwaitingAuthentication

	// ConfirmOAuthUser means a token was obtained and the user must confirm
	// the identity it belongs to.
	ConfirmOAuthUser

	// Authenticated means the identity was confirmed.
	Authenticated
)

func (s AuthState) String() string {
	switch s {
	case NotAuthenticated:
		return "not_authenticated"
	case AwaitingAuthentication:
		return "awaiting_authentication"
	case ConfirmOAuthUser:
		return "confirm_oauth_user"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("auth_state(%d)", int(s))
	}
}

// StateChange describes one transition. Err is the error reported alongside
// the transition, nil for silent transitions such as a cancel or reject.
type StateChange struct {
	From AuthState
	To   AuthState
	Err  error
}
