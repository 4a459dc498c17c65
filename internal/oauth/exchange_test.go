package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExchanger(t *testing.T, handler http.HandlerFunc) (*Exchanger, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	ex, err := NewExchanger(ExchangerConfig{
		BaseURL:  server.URL + "/authenticate/",
		ClientID: "client-123",
	})
	require.NoError(t, err)
	return ex, &calls
}

func TestExchanger_Success(t *testing.T) {
	ex, calls := newTestExchanger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/authenticate/abc/client_id/client-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t1"}`))
	})

	token, err := ex.Exchange(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "t1", token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestExchanger_EscapesPathSegments(t *testing.T) {
	ex, _ := newTestExchanger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authenticate/a%2Fb/client_id/client-123", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"token":"t1"}`))
	})

	_, err := ex.Exchange(context.Background(), "a/b")
	require.NoError(t, err)
}

func TestExchanger_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"error field", http.StatusOK, `{"error":"bad_verification_code"}`, "bad_verification_code"},
		{"error field with failure status", http.StatusBadRequest, `{"error":"incorrect_client_credentials"}`, "incorrect_client_credentials"},
		{"malformed body", http.StatusOK, `<html>oops</html>`, ""},
		{"non-json failure status", http.StatusBadGateway, `bad gateway`, ""},
		{"empty object", http.StatusOK, `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, calls := newTestExchanger(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			token, err := ex.Exchange(context.Background(), "abc")
			require.Error(t, err)
			assert.Nil(t, token)

			var exErr *ExchangeError
			require.True(t, errors.As(err, &exErr))
			assert.Equal(t, tt.wantCode, exErr.Code)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "exchange must not be retried")
		})
	}
}

func TestExchanger_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	ex, err := NewExchanger(ExchangerConfig{BaseURL: baseURL, ClientID: "client-123"})
	require.NoError(t, err)

	_, err = ex.Exchange(context.Background(), "abc")
	var exErr *ExchangeError
	require.True(t, errors.As(err, &exErr))
	assert.NotNil(t, exErr.Err)
}

func TestExchanger_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	ex, _ := newTestExchanger(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ex.Exchange(ctx, "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExchanger_EmptyCode(t *testing.T) {
	ex, calls := newTestExchanger(t, func(http.ResponseWriter, *http.Request) {})

	_, err := ex.Exchange(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestNewExchanger_RequiresClientID(t *testing.T) {
	_, err := NewExchanger(ExchangerConfig{})
	require.Error(t, err)
}
