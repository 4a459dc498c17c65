package auth

import (
	"context"

	"golang.org/x/oauth2"

	"catcher/internal/identity"
	"catcher/internal/oauth"
)

// TokenExchanger trades an authorization code for an access token.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// IdentityFetcher resolves an access token to the user it belongs to.
type IdentityFetcher interface {
	AuthenticatedUser(ctx context.Context, token string) (*identity.User, error)
}

// Redirector sends the user to the provider login page for state.
type Redirector interface {
	Redirect(ctx context.Context, state string) error
}

// VersionChecker reports whether the running build is outdated.
type VersionChecker interface {
	IsOutdated(ctx context.Context) (bool, error)
}

// ErrorReporter displays errors to the user. It must not call back into the
// Machine.
type ErrorReporter interface {
	HandleError(err error)
}

// CredentialStore persists the confirmed credential.
type CredentialStore interface {
	Save(cred *oauth.Credential) error
	Load() (*oauth.Credential, error)
	Clear() error
}

// ErrorReporterFunc adapts a function to ErrorReporter.
type ErrorReporterFunc func(err error)

// HandleError calls f(err).
func (f ErrorReporterFunc) HandleError(err error) {
	f(err)
}
