// Package config provides configuration management for catcher.
//
// Configuration is read from a single directory, ~/.config/catcher by
// default or the directory given with --config-path. The directory holds:
//   - config.yaml (optional, defaults apply when absent)
//   - session.yaml or catcher.db, depending on the storage backend
//   - credentials.json once a login has been confirmed
//
// # Precedence
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults (GetDefaultConfig)
//  2. config.yaml
//  3. CATCHER_* environment variables
//
// The result is validated before it is returned.
//
// # Example config.yaml
//
//	oauth:
//	  clientId: 1234abcd
//	  callbackPort: 3000
//	  exchangeTimeout: 30s
//	  loginTimeout: 10m
//	github:
//	  apiUrl: https://api.github.com/
//	storage:
//	  backend: sqlite
//
// # Environment
//
//	CATCHER_CLIENT_ID         oauth.clientId
//	CATCHER_ACCESS_TOKEN_URL  oauth.accessTokenUrl
//	CATCHER_AUTHORIZE_URL     oauth.authorizeUrl
//	CATCHER_CALLBACK_PORT     oauth.callbackPort
//	CATCHER_EXCHANGE_TIMEOUT  oauth.exchangeTimeout
//	CATCHER_LOGIN_TIMEOUT     oauth.loginTimeout
//	CATCHER_GITHUB_API_URL    github.apiUrl
//	CATCHER_STORAGE_BACKEND   storage.backend
//	CATCHER_STORAGE_PATH      storage.path
package config
