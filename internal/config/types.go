package config

import "time"

// CatcherConfig is the top-level configuration structure for catcher.
type CatcherConfig struct {
	OAuth   OAuthConfig   `yaml:"oauth"`
	GitHub  GitHubConfig  `yaml:"github"`
	Storage StorageConfig `yaml:"storage"`
	Update  UpdateConfig  `yaml:"update"`
}

// OAuthConfig configures the GitHub login flow.
type OAuthConfig struct {
	ClientID string `yaml:"clientId" env:"CATCHER_CLIENT_ID"`

	// AccessTokenURL is the token exchange endpoint base.
	AccessTokenURL string `yaml:"accessTokenUrl" env:"CATCHER_ACCESS_TOKEN_URL"`

	// AuthorizeURL is the provider login page.
	AuthorizeURL string `yaml:"authorizeUrl" env:"CATCHER_AUTHORIZE_URL"`

	// CallbackPort is the loopback port for the redirect. 0 picks a free one.
	CallbackPort int `yaml:"callbackPort" env:"CATCHER_CALLBACK_PORT"`

	Scopes []string `yaml:"scopes,omitempty"`

	// ExchangeTimeout bounds the token exchange and the identity lookup.
	ExchangeTimeout time.Duration `yaml:"exchangeTimeout" env:"CATCHER_EXCHANGE_TIMEOUT"`

	// LoginTimeout bounds the wait for the browser login. 0 disables it.
	LoginTimeout time.Duration `yaml:"loginTimeout" env:"CATCHER_LOGIN_TIMEOUT"`
}

// GitHubConfig configures the GitHub API used for identity lookups.
type GitHubConfig struct {
	APIURL string `yaml:"apiUrl" env:"CATCHER_GITHUB_API_URL"`
}

// StorageBackend names a session store backend.
type StorageBackend string

const (
	StorageBackendFile   StorageBackend = "file"
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendMemory StorageBackend = "memory"
)

// StorageConfig configures where session state and credentials live.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend" env:"CATCHER_STORAGE_BACKEND"`
	Path    string         `yaml:"path,omitempty" env:"CATCHER_STORAGE_PATH"` // Directory, defaults to the config directory
}

// UpdateConfig configures release checks.
type UpdateConfig struct {
	Repository   string `yaml:"repository"`   // owner/repo releases are published to
	CheckOnLogin bool   `yaml:"checkOnLogin"` // Refuse login when a newer release exists
}
