package oauth

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"catcher/pkg/logging"
)

// DefaultCallbackPort is the default port for the local OAuth callback server.
const DefaultCallbackPort = 3000

// CallbackPath is the path the provider redirects back to.
const CallbackPath = "/callback"

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

var (
	successTemplate = template.Must(template.New("success").Parse(callbackSuccessHTML))
	errorTemplate   = template.Must(template.New("error").Parse(callbackErrorHTML))
)

// CallbackServer is a local HTTP server for receiving OAuth callbacks.
// It forwards every callback to the registered listener; deciding whether a
// callback belongs to the current login attempt is the listener's job.
type CallbackServer struct {
	mu         sync.Mutex
	port       int
	server     *http.Server
	listener   net.Listener
	serverURL  string
	handler    func(CallbackResult)
	handlerSeq uint64
	closed     bool
	errorCh    chan error
	closeOnce  sync.Once
}

// NewCallbackServer creates a new callback server on the specified port.
// If port is 0, a random available port will be used.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:    port,
		errorCh: make(chan error, 1),
	}
}

// Start starts the callback server and begins listening for OAuth callbacks.
// The server will automatically close when the context is cancelled.
// Returns the callback URL to use in the OAuth authorization request.
func (s *CallbackServer) Start(ctx context.Context) (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)

	s.mu.Lock()
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.serverURL = fmt.Sprintf("http://localhost:%d", s.port)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	logging.Debug("OAuth", "Callback server listening on %s", s.RedirectURI())
	return s.RedirectURI(), nil
}

// Listen registers fn as the receiver of callback results, replacing any
// previous listener. It implements CallbackSource.
//
// A listener registered after Close receives the WindowClosed result
// asynchronously, exactly once, unless it is unregistered first.
func (s *CallbackServer) Listen(fn func(CallbackResult)) func() {
	s.mu.Lock()
	s.handlerSeq++
	id := s.handlerSeq
	s.handler = fn
	closed := s.closed
	s.mu.Unlock()

	if closed {
		go s.deliverClosed(id)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.handlerSeq == id {
			s.handler = nil
		}
	}
}

// deliverClosed hands the WindowClosed result to the listener registered as
// id if it is still the current one.
func (s *CallbackServer) deliverClosed(id uint64) {
	s.mu.Lock()
	handler := s.handler
	if s.handlerSeq != id {
		handler = nil
	}
	if handler != nil {
		s.handler = nil
	}
	s.mu.Unlock()

	if handler != nil {
		handler(CallbackResult{Error: ErrorWindowClosed, WindowClosed: true})
	}
}

// Errors reports fatal serve errors.
func (s *CallbackServer) Errors() <-chan error {
	return s.errorCh
}

func (s *CallbackServer) currentHandler() func(CallbackResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

// handleCallback handles the OAuth callback request.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	handler := s.currentHandler()
	if handler == nil {
		http.Error(w, "No login in progress", http.StatusGone)
		return
	}

	query := r.URL.Query()
	result := CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}
	if result.Code == "" && !result.IsError() {
		http.Error(w, "Missing code or error parameter", http.StatusBadRequest)
		return
	}

	handler(result)

	var (
		tmpl *template.Template
		data interface{}
	)
	if result.IsError() {
		tmpl = errorTemplate
		data = map[string]string{
			"Error":       result.Error,
			"Description": result.ErrorDescription,
		}
	} else {
		tmpl = successTemplate
		data = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Close shuts down the server. If a listener is still registered it receives
// one WindowClosed result first, and listeners registered later receive it
// too. Close is idempotent.
func (s *CallbackServer) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		handler := s.handler
		s.handler = nil
		server := s.server
		listener := s.listener
		s.mu.Unlock()

		if handler != nil {
			handler(CallbackResult{Error: ErrorWindowClosed, WindowClosed: true})
		}

		if server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = server.Shutdown(ctx)
		}
		if listener != nil {
			_ = listener.Close()
		}
	})
	return err
}

// RedirectURI returns the redirect URI for OAuth configuration.
func (s *CallbackServer) RedirectURI() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverURL + CallbackPath
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}
