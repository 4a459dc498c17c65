package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/oauth2"

	"catcher/pkg/logging"
)

// GitHubAuthorizeURL is GitHub's OAuth authorization endpoint.
const GitHubAuthorizeURL = "https://github.com/login/oauth/authorize"

// DefaultScopes are the GitHub scopes catcher requests.
var DefaultScopes = []string{"public_repo", "read:user"}

// BrowserRedirector sends the user to the provider login page.
type BrowserRedirector struct {
	config      *oauth2.Config
	redirectURL func() string
	open        func(string) error
	out         io.Writer
}

// RedirectorConfig configures a BrowserRedirector.
type RedirectorConfig struct {
	// ClientID is the OAuth application's client id.
	ClientID string

	// AuthorizeURL defaults to GitHubAuthorizeURL.
	AuthorizeURL string

	// RedirectURL is the callback server URL.
	RedirectURL string

	// RedirectURLFunc, when set, is consulted on every redirect instead of
	// RedirectURL. Use it when the callback server binds its port later.
	RedirectURLFunc func() string

	// Scopes defaults to DefaultScopes.
	Scopes []string

	// Open opens the login URL. Defaults to OpenBrowser.
	Open func(string) error

	// NoBrowser only prints the URL.
	NoBrowser bool

	// Out receives the login URL so the user can open it manually.
	Out io.Writer
}

// NewBrowserRedirector creates a redirector from cfg.
func NewBrowserRedirector(cfg RedirectorConfig) (*BrowserRedirector, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = GitHubAuthorizeURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}

	open := cfg.Open
	if open == nil {
		open = OpenBrowser
	}
	if cfg.NoBrowser {
		open = nil
	}

	return &BrowserRedirector{
		config: &oauth2.Config{
			ClientID:    cfg.ClientID,
			Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthorizeURL},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		redirectURL: cfg.RedirectURLFunc,
		open:        open,
		out:         cfg.Out,
	}, nil
}

// LoginURL returns the provider login URL carrying state.
func (b *BrowserRedirector) LoginURL(state string) string {
	if b.redirectURL == nil {
		return b.config.AuthCodeURL(state)
	}
	cfg := *b.config
	cfg.RedirectURL = b.redirectURL()
	return cfg.AuthCodeURL(state)
}

// Redirect opens the login URL for state. When the browser cannot be opened
// the URL is still printed so the user can continue manually; the error is
// only returned when there is nowhere to print it either.
func (b *BrowserRedirector) Redirect(_ context.Context, state string) error {
	loginURL := b.LoginURL(state)

	if b.out != nil {
		fmt.Fprintf(b.out, "Open the following URL to log in to GitHub:\n\n  %s\n\n", loginURL)
	}

	if b.open == nil {
		if b.out == nil {
			return errors.New("no browser and no output configured for login URL")
		}
		return nil
	}

	if err := b.open(loginURL); err != nil {
		logging.Warn("OAuth", "Could not open browser: %v", err)
		if b.out == nil {
			return err
		}
	}
	return nil
}
