package config

import "time"

const (
	// DefaultClientID is the client id of the CATcher GitHub OAuth application.
	DefaultClientID = "7e2b8a2439b4be7e1e33"

	// DefaultAccessTokenURL is the CATcher token exchange endpoint.
	DefaultAccessTokenURL = "https://catcher-proxy.herokuapp.com/authenticate"

	// DefaultAuthorizeURL is GitHub's OAuth authorization page.
	DefaultAuthorizeURL = "https://github.com/login/oauth/authorize"

	// DefaultGitHubAPIURL is the public GitHub REST API.
	DefaultGitHubAPIURL = "https://api.github.com/"

	// DefaultCallbackPort is the loopback port registered with the OAuth application.
	DefaultCallbackPort = 3000

	// DefaultReleaseRepository is where catcher releases are published.
	DefaultReleaseRepository = "CATcher-org/catcher-cli"

	DefaultExchangeTimeout = 30 * time.Second
	DefaultLoginTimeout    = 10 * time.Minute
)

// GetDefaultConfig returns the default configuration for catcher.
func GetDefaultConfig() CatcherConfig {
	return CatcherConfig{
		OAuth: OAuthConfig{
			ClientID:        DefaultClientID,
			AccessTokenURL:  DefaultAccessTokenURL,
			AuthorizeURL:    DefaultAuthorizeURL,
			CallbackPort:    DefaultCallbackPort,
			Scopes:          []string{"public_repo", "read:user"},
			ExchangeTimeout: DefaultExchangeTimeout,
			LoginTimeout:    DefaultLoginTimeout,
		},
		GitHub: GitHubConfig{
			APIURL: DefaultGitHubAPIURL,
		},
		Storage: StorageConfig{
			Backend: StorageBackendFile,
		},
		Update: UpdateConfig{
			Repository:   DefaultReleaseRepository,
			CheckOnLogin: true,
		},
	}
}
