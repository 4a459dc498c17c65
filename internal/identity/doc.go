// Package identity looks up the GitHub account an access token belongs to.
//
// The lookup is read-only and happens exactly once per accepted token; the
// auth state machine uses its result to ask the user to confirm who they
// are logged in as before the token is trusted.
package identity
