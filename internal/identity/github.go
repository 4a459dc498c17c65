package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"

	"catcher/pkg/logging"
)

// DefaultAPIURL is the public GitHub REST API.
const DefaultAPIURL = "https://api.github.com/"

// User is the identity bound to an access token.
type User struct {
	Login string
	Name  string
}

// DisplayName returns the user's name, or the login when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// GitHubFetcher resolves tokens to users through the GitHub API.
type GitHubFetcher struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewGitHubFetcher creates a fetcher against apiURL (DefaultAPIURL when
// empty). httpClient may be nil.
func NewGitHubFetcher(apiURL string, httpClient *http.Client) (*GitHubFetcher, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
	}
	return &GitHubFetcher{baseURL: u, httpClient: httpClient}, nil
}

// AuthenticatedUser returns the user token belongs to.
func (f *GitHubFetcher) AuthenticatedUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, errors.New("access token is empty")
	}

	client := github.NewClient(f.httpClient).WithAuthToken(token)
	client.BaseURL = f.baseURL

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authenticated user: %w", err)
	}
	if user.GetLogin() == "" {
		return nil, errors.New("GitHub returned a user without a login")
	}

	logging.Debug("Identity", "Token belongs to %s", user.GetLogin())
	return &User{Login: user.GetLogin(), Name: user.GetName()}, nil
}
