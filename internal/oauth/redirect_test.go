package oauth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserRedirector_LoginURL(t *testing.T) {
	r, err := NewBrowserRedirector(RedirectorConfig{
		ClientID:    "client-123",
		RedirectURL: "http://localhost:3000/callback",
		NoBrowser:   true,
		Out:         &bytes.Buffer{},
	})
	require.NoError(t, err)

	u, err := url.Parse(r.LoginURL("state-Y"))
	require.NoError(t, err)

	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "/login/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "state-Y", q.Get("state"))
	assert.Equal(t, "http://localhost:3000/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "public_repo read:user", q.Get("scope"))
}

func TestBrowserRedirector_LateRedirectURL(t *testing.T) {
	port := 0
	r, err := NewBrowserRedirector(RedirectorConfig{
		ClientID:        "client-123",
		RedirectURLFunc: func() string { return fmt.Sprintf("http://localhost:%d/callback", port) },
		NoBrowser:       true,
		Out:             &bytes.Buffer{},
	})
	require.NoError(t, err)

	port = 4321
	u, err := url.Parse(r.LoginURL("s"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4321/callback", u.Query().Get("redirect_uri"))
}

func TestBrowserRedirector_Redirect(t *testing.T) {
	t.Run("opens browser and prints URL", func(t *testing.T) {
		var opened string
		var out bytes.Buffer
		r, err := NewBrowserRedirector(RedirectorConfig{
			ClientID: "client-123",
			Open:     func(u string) error { opened = u; return nil },
			Out:      &out,
		})
		require.NoError(t, err)

		require.NoError(t, r.Redirect(context.Background(), "s1"))
		assert.Contains(t, opened, "state=s1")
		assert.Contains(t, out.String(), opened)
	})

	t.Run("browser failure falls back to printed URL", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewBrowserRedirector(RedirectorConfig{
			ClientID: "client-123",
			Open:     func(string) error { return errors.New("no display") },
			Out:      &out,
		})
		require.NoError(t, err)

		require.NoError(t, r.Redirect(context.Background(), "s1"))
		assert.Contains(t, out.String(), "state=s1")
	})

	t.Run("browser failure without output is an error", func(t *testing.T) {
		r, err := NewBrowserRedirector(RedirectorConfig{
			ClientID: "client-123",
			Open:     func(string) error { return errors.New("no display") },
		})
		require.NoError(t, err)

		require.Error(t, r.Redirect(context.Background(), "s1"))
	})

	t.Run("requires client id", func(t *testing.T) {
		_, err := NewBrowserRedirector(RedirectorConfig{})
		require.Error(t, err)
	})
}
