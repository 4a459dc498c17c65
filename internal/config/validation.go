package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks a loaded configuration.
func Validate(cfg CatcherConfig) error {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.OAuth.ClientID) == "" {
		errs.Add("oauth.clientId", "is required")
	}
	validateURL(&errs, "oauth.accessTokenUrl", cfg.OAuth.AccessTokenURL)
	validateURL(&errs, "oauth.authorizeUrl", cfg.OAuth.AuthorizeURL)
	validateURL(&errs, "github.apiUrl", cfg.GitHub.APIURL)

	if cfg.OAuth.CallbackPort < 0 || cfg.OAuth.CallbackPort > 65535 {
		errs.Add("oauth.callbackPort", "must be between 0 and 65535", cfg.OAuth.CallbackPort)
	}
	if cfg.OAuth.ExchangeTimeout <= 0 {
		errs.Add("oauth.exchangeTimeout", "must be positive", cfg.OAuth.ExchangeTimeout)
	}
	if cfg.OAuth.LoginTimeout < 0 {
		errs.Add("oauth.loginTimeout", "must not be negative", cfg.OAuth.LoginTimeout)
	}

	switch cfg.Storage.Backend {
	case StorageBackendFile, StorageBackendSQLite, StorageBackendMemory:
	default:
		errs.Add("storage.backend", fmt.Sprintf("must be one of: %s, %s, %s",
			StorageBackendFile, StorageBackendSQLite, StorageBackendMemory), cfg.Storage.Backend)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateURL(errs *ValidationErrors, field, value string) {
	if value == "" {
		errs.Add(field, "is required")
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add(field, "must be an absolute http(s) URL", value)
	}
}
