package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"catcher/internal/identity"
	"catcher/internal/oauth"
)

const waitTimeout = 2 * time.Second

type fakeCallbacks struct {
	mu          sync.Mutex
	handler     func(oauth.CallbackResult)
	last        func(oauth.CallbackResult)
	registers   int
	unregisters int
}

func (f *fakeCallbacks) Listen(fn func(oauth.CallbackResult)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = fn
	f.last = fn
	f.registers++

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.handler = nil
			f.unregisters++
		})
	}
}

// deliver hands r to the registered listener and reports whether one was registered.
func (f *fakeCallbacks) deliver(r oauth.CallbackResult) bool {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return false
	}
	h(r)
	return true
}

// deliverLate hands r to the most recent listener even if it was unregistered,
// as a delivery racing with unregistration would.
func (f *fakeCallbacks) deliverLate(r oauth.CallbackResult) {
	f.mu.Lock()
	h := f.last
	f.mu.Unlock()
	if h != nil {
		h(r)
	}
}

func (f *fakeCallbacks) registered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handler != nil
}

func (f *fakeCallbacks) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registers, f.unregisters
}

type fakeExchanger struct {
	mu    sync.Mutex
	codes []string
	token string
	err   error

	// block, when set, holds every exchange until it is closed. The exchange
	// ignores its context so hung requests can be simulated.
	block chan struct{}
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.mu.Lock()
	f.codes = append(f.codes, code)
	block, token, err := f.block, f.token, f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "bearer"}, nil
}

func (f *fakeExchanger) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.codes...)
}

type fakeIdentity struct {
	mu     sync.Mutex
	tokens []string
	user   *identity.User
	err    error
}

func (f *fakeIdentity) AuthenticatedUser(_ context.Context, token string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

func (f *fakeIdentity) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

type fakeRedirector struct {
	mu     sync.Mutex
	states []string
	err    error
}

func (f *fakeRedirector) Redirect(_ context.Context, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, state)
	return f.err
}

func (f *fakeRedirector) lastState() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.states) == 0 {
		return ""
	}
	return f.states[len(f.states)-1]
}

func (f *fakeRedirector) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.states)
}

type fakeVersion struct {
	outdated bool
	err      error
}

func (f fakeVersion) IsOutdated(context.Context) (bool, error) {
	return f.outdated, f.err
}

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) HandleError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) reported() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

type failingCredentials struct{}

func (failingCredentials) Save(*oauth.Credential) error     { return errors.New("disk full") }
func (failingCredentials) Load() (*oauth.Credential, error) { return nil, nil }
func (failingCredentials) Clear() error                     { return nil }

// harness wires a Machine to fakes and runs it for the duration of a test.
type harness struct {
	machine     *Machine
	callbacks   *fakeCallbacks
	exchanger   *fakeExchanger
	identity    *fakeIdentity
	redirector  *fakeRedirector
	reporter    *recordingReporter
	credentials *oauth.CredentialStore

	mu      sync.Mutex
	changes []StateChange

	cancel   context.CancelFunc
	done     chan error
	stopOnce sync.Once
}

func newHarness(t *testing.T, mutate ...func(*Config)) *harness {
	t.Helper()

	creds, err := oauth.NewCredentialStore(oauth.CredentialStoreConfig{})
	require.NoError(t, err)

	h := &harness{
		callbacks:   &fakeCallbacks{},
		exchanger:   &fakeExchanger{token: "t1"},
		identity:    &fakeIdentity{user: &identity.User{Login: "octocat", Name: "Mona"}},
		redirector:  &fakeRedirector{},
		reporter:    &recordingReporter{},
		credentials: creds,
		done:        make(chan error, 1),
	}

	cfg := Config{
		Callbacks:   h.callbacks,
		Exchanger:   h.exchanger,
		Identity:    h.identity,
		Redirector:  h.redirector,
		Reporter:    h.reporter,
		Credentials: h.credentials,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	h.machine, err = NewMachine(cfg)
	require.NoError(t, err)
	h.machine.Subscribe(func(c StateChange) {
		h.mu.Lock()
		h.changes = append(h.changes, c)
		h.mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.machine.Run(ctx) }()
	t.Cleanup(h.stop)
	return h
}

func (h *harness) stop() {
	h.stopOnce.Do(func() {
		h.cancel()
		select {
		case <-h.done:
		case <-time.After(waitTimeout):
		}
	})
}

func (h *harness) stateChanges() []StateChange {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]StateChange(nil), h.changes...)
}

func (h *harness) waitForState(t *testing.T, want AuthState) {
	t.Helper()
	require.Eventually(t, func() bool { return h.machine.State() == want },
		waitTimeout, 5*time.Millisecond, "machine never reached %s, is %s", want, h.machine.State())
}

// sync waits until every event queued so far has been processed.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, h.machine.do(context.Background(), func() error { return nil }))
}

func (h *harness) startLogin(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.machine.StartLogin(context.Background()))
	require.Equal(t, AwaitingAuthentication, h.machine.State())
	state := h.redirector.lastState()
	require.NotEmpty(t, state)
	return state
}
