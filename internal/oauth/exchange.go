package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"catcher/pkg/logging"
)

// DefaultAccessTokenURL is the catcher token endpoint base URL.
const DefaultAccessTokenURL = "https://catcher-proxy.herokuapp.com/authenticate"

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// maxTokenResponseBytes caps how much of the token response is read.
const maxTokenResponseBytes = 1 << 20

// tokenResponse is the body returned by the token endpoint: either a token or an error.
type tokenResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// Exchanger trades authorization codes for access tokens. Each code is
// exchanged at most once; failures are never retried because codes are
// single-use.
type Exchanger struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// ExchangerConfig configures an Exchanger.
type ExchangerConfig struct {
	// BaseURL is the token endpoint base. Defaults to DefaultAccessTokenURL.
	BaseURL string

	// ClientID is the OAuth application's client id.
	ClientID string

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// NewExchanger creates an Exchanger.
func NewExchanger(cfg ExchangerConfig) (*Exchanger, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAccessTokenURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid access token URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	return &Exchanger{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		clientID:   cfg.ClientID,
		httpClient: httpClient,
	}, nil
}

// tokenURL renders <base>/<code>/client_id/<clientID>.
func (e *Exchanger) tokenURL(code string) string {
	return fmt.Sprintf("%s/%s/client_id/%s", e.baseURL, url.PathEscape(code), url.PathEscape(e.clientID))
}

// Exchange performs the single token request for code.
func (e *Exchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, &ExchangeError{Err: errors.New("authorization code is empty")}
	}

	logging.Info("OAuth", "Retrieving access token from GitHub")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.tokenURL(code), nil)
	if err != nil {
		return nil, &ExchangeError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &ExchangeError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, &ExchangeError{Err: fmt.Errorf("failed to read token response: %w", err)}
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &ExchangeError{Err: fmt.Errorf("token endpoint returned status %d", resp.StatusCode)}
		}
		return nil, &ExchangeError{Err: fmt.Errorf("malformed token response: %w", err)}
	}

	if parsed.Error != "" {
		logging.Info("OAuth", "Error in data fetched from access token URL: %s", parsed.Error)
		return nil, &ExchangeError{Code: parsed.Error}
	}
	if parsed.Token == "" {
		return nil, &ExchangeError{Err: fmt.Errorf("token response (status %d) has neither token nor error", resp.StatusCode)}
	}

	logging.Info("OAuth", "Successfully obtained access token")
	return &oauth2.Token{
		AccessToken: parsed.Token,
		TokenType:   "bearer",
	}, nil
}
