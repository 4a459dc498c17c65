package oauth

import "fmt"

// ExchangeError is returned when an authorization code could not be turned
// into an access token.
type ExchangeError struct {
	// Code is the error reported by the token endpoint, if any.
	Code string

	// Err is the transport or decoding failure, if any.
	Err error
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("token exchange failed: %s", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("token exchange failed: %v", e.Err)
	}
	return "token exchange failed"
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ExchangeError) Unwrap() error {
	return e.Err
}
