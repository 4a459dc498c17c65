package oauth

// ErrorWindowClosed is the error code carried by a callback result produced
// when the login window is closed before the provider redirected back.
const ErrorWindowClosed = "window_closed"

// CallbackResult is the outcome of one provider redirect: either a code and
// state, or an error.
type CallbackResult struct {
	// Code is the authorization code from the OAuth provider.
	Code string

	// State is the state parameter to verify against the original request.
	State string

	// Error is the error code if the authorization failed.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string

	// WindowClosed is set when the user closed the login window, which is a
	// cancel rather than a failure.
	WindowClosed bool
}

// IsError returns true if the callback result represents an error.
func (r CallbackResult) IsError() bool {
	return r.Error != "" || r.WindowClosed
}

// Message returns the error and its description for display.
func (r CallbackResult) Message() string {
	if r.ErrorDescription != "" {
		return r.Error + ": " + r.ErrorDescription
	}
	return r.Error
}

// CallbackSource delivers callback results to a registered listener.
// The returned function unregisters the listener; once it returns no new
// delivery to that listener starts. Calling it more than once is safe.
type CallbackSource interface {
	Listen(fn func(CallbackResult)) (unregister func())
}
