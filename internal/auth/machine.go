package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"catcher/internal/identity"
	"catcher/internal/oauth"
	"catcher/pkg/logging"
	pkgoauth "catcher/pkg/oauth"
)

const (
	// DefaultExchangeTimeout bounds the token exchange and the identity lookup.
	DefaultExchangeTimeout = 30 * time.Second

	// DefaultLoginTimeout bounds the wait for the provider callback.
	DefaultLoginTimeout = 10 * time.Minute

	eventBufferSize = 16
)

// Config holds the collaborators of a Machine.
type Config struct {
	// Callbacks delivers provider redirects. Required.
	Callbacks oauth.CallbackSource

	// Exchanger trades codes for tokens. Required.
	Exchanger TokenExchanger

	// Identity looks up the user a token belongs to. Required.
	Identity IdentityFetcher

	// Redirector opens the provider login page. Required.
	Redirector Redirector

	// Version is consulted before every login. Optional.
	Version VersionChecker

	// Reporter receives every error that ends a login attempt. Optional.
	Reporter ErrorReporter

	// Credentials persists the confirmed credential. Optional.
	Credentials CredentialStore

	// NewState generates the anti-forgery state value. Defaults to
	// pkgoauth.GenerateState.
	NewState func() (string, error)

	// ExchangeTimeout defaults to DefaultExchangeTimeout.
	ExchangeTimeout time.Duration

	// LoginTimeout is the wait for a callback. Zero disables it.
	LoginTimeout time.Duration
}

// attempt is one login attempt, from redirect to confirmation or failure.
type attempt struct {
	id           string
	pendingState string
	exchanging   bool

	ctx        context.Context
	cancel     context.CancelFunc
	unregister func()

	loginTimer *time.Timer

	// step numbers the background operation the stepTimer guards, so a
	// timer firing for an earlier step is ignored.
	step      int
	stepTimer *time.Timer
}

// Machine is the auth state machine. Create it with NewMachine, then call
// Run on a dedicated goroutine.
type Machine struct {
	cfg  Config
	gate *Gate

	events  chan func()
	stopped chan struct{}
	running atomic.Bool

	// Loop-owned. Only touched from the Run goroutine.
	runCtx   context.Context
	attempt  *attempt
	starting bool

	// mu guards the published state for readers on other goroutines.
	mu    sync.RWMutex
	state AuthState
	token *oauth2.Token
	user  *identity.User

	subMu       sync.Mutex
	subSeq      uint64
	subscribers map[uint64]func(StateChange)
}

// NewMachine creates a machine in NotAuthenticated.
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.Callbacks == nil {
		return nil, errors.New("callback source is required")
	}
	if cfg.Exchanger == nil {
		return nil, errors.New("token exchanger is required")
	}
	if cfg.Identity == nil {
		return nil, errors.New("identity fetcher is required")
	}
	if cfg.Redirector == nil {
		return nil, errors.New("redirector is required")
	}
	if cfg.NewState == nil {
		cfg.NewState = pkgoauth.GenerateState
	}
	if cfg.ExchangeTimeout <= 0 {
		cfg.ExchangeTimeout = DefaultExchangeTimeout
	}

	m := &Machine{
		cfg:         cfg,
		events:      make(chan func(), eventBufferSize),
		stopped:     make(chan struct{}),
		runCtx:      context.Background(),
		subscribers: make(map[uint64]func(StateChange)),
	}
	m.gate = &Gate{m: m, fetcher: cfg.Identity}
	return m, nil
}

// Run processes events until ctx is done. It must be called exactly once.
// An attempt still in progress when Run returns is abandoned and the machine
// falls back to NotAuthenticated.
func (m *Machine) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return errors.New("auth machine is already running")
	}
	defer close(m.stopped)

	m.runCtx = ctx
	logging.Debug("Auth", "State machine started")

	for {
		select {
		case <-ctx.Done():
			if m.attempt != nil {
				m.abandon()
				m.transition(NotAuthenticated, nil)
			}
			logging.Debug("Auth", "State machine stopped")
			return nil
		case fn := <-m.events:
			fn()
		}
	}
}

// Gate returns the identity confirmation gate.
func (m *Machine) Gate() *Gate {
	return m.gate
}

// State returns the current AuthState.
func (m *Machine) State() AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// AccessToken returns the current access token, or nil.
func (m *Machine) AccessToken() *oauth2.Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil
	}
	t := *m.token
	return &t
}

// User returns the identity known to the machine, or nil before the
// identity lookup completed.
func (m *Machine) User() *identity.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Subscribe registers fn for every state change. fn runs on the machine
// goroutine, before the event that caused the change finishes, so it must
// not call Machine operations directly. The returned function unsubscribes.
func (m *Machine) Subscribe(fn func(StateChange)) func() {
	m.subMu.Lock()
	m.subSeq++
	id := m.subSeq
	m.subscribers[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// Resume restores a stored credential, moving directly to Authenticated.
// It reports whether a credential was found.
func (m *Machine) Resume(ctx context.Context) (bool, error) {
	if m.cfg.Credentials == nil {
		return false, nil
	}

	var resumed bool
	err := m.do(ctx, func() error {
		if st := m.currentState(); st != NotAuthenticated || m.attempt != nil || m.starting {
			return &TransitionError{Op: "resume session", State: st}
		}

		cred, err := m.cfg.Credentials.Load()
		if err != nil {
			return fmt.Errorf("failed to load stored credential: %w", err)
		}
		if !cred.Valid() {
			return nil
		}

		m.setIdentity(cred.Token(), &identity.User{Login: cred.Login, Name: cred.Name})
		logging.Info("Auth", "Resumed session for %s", cred.Login)
		m.transition(Authenticated, nil)
		resumed = true
		return nil
	})
	return resumed, err
}

// StartLogin begins a login attempt: it checks the running version,
// registers for the callback, and redirects the user to the provider.
// ErrUpdateRequired is reported and returned without changing state.
func (m *Machine) StartLogin(ctx context.Context) error {
	err := m.do(ctx, func() error {
		if st := m.currentState(); st != NotAuthenticated || m.attempt != nil || m.starting {
			return &TransitionError{Op: "start login", State: st}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		m.starting = true
		return nil
	})
	if err != nil {
		return err
	}

	// The release lookup is a network call, so it runs on the caller's
	// goroutine. starting keeps other logins out meanwhile.
	outdated := m.isOutdated(ctx)

	// Always run the second step so starting is cleared even when ctx was
	// cancelled during the lookup.
	return m.do(context.WithoutCancel(ctx), func() error {
		m.starting = false
		if err := ctx.Err(); err != nil {
			return err
		}
		if outdated {
			m.report(ErrUpdateRequired)
			return ErrUpdateRequired
		}
		return m.begin(ctx)
	})
}

// SignOut leaves Authenticated, clearing the token and stored credential.
func (m *Machine) SignOut(ctx context.Context) error {
	return m.do(ctx, func() error {
		if st := m.currentState(); st != Authenticated {
			return &TransitionError{Op: "sign out", State: st}
		}

		login := ""
		if m.user != nil {
			login = m.user.Login
		}
		m.setIdentity(nil, nil)
		m.transition(NotAuthenticated, nil)

		logging.Audit(logging.AuditEvent{Action: "sign_out", Outcome: "success", Target: login})
		if m.cfg.Credentials != nil {
			if err := m.cfg.Credentials.Clear(); err != nil {
				return fmt.Errorf("failed to clear stored credential: %w", err)
			}
		}
		return nil
	})
}

func (m *Machine) confirm(ctx context.Context) error {
	return m.do(ctx, func() error {
		if st := m.currentState(); st != ConfirmOAuthUser {
			return &TransitionError{Op: "confirm identity", State: st}
		}

		m.transition(Authenticated, nil)
		logging.Audit(logging.AuditEvent{Action: "identity_confirmed", Outcome: "success", Target: m.user.Login})

		if m.cfg.Credentials != nil {
			cred := &oauth.Credential{
				AccessToken: m.token.AccessToken,
				TokenType:   m.token.TokenType,
				Login:       m.user.Login,
				Name:        m.user.Name,
			}
			if err := m.cfg.Credentials.Save(cred); err != nil {
				logging.Warn("Auth", "Session will not survive a restart: %v", err)
				m.report(fmt.Errorf("failed to save credential: %w", err))
			}
		}
		return nil
	})
}

func (m *Machine) reject(ctx context.Context) error {
	return m.do(ctx, func() error {
		if st := m.currentState(); st != ConfirmOAuthUser {
			return &TransitionError{Op: "reject identity", State: st}
		}

		logging.Audit(logging.AuditEvent{Action: "identity_confirmed", Outcome: "rejected", Target: m.user.Login})
		m.setIdentity(nil, nil)
		m.transition(NotAuthenticated, nil)
		return nil
	})
}

// do runs fn on the machine goroutine and waits for its result. When ctx is
// done first, fn either never runs or has already run and its result is
// returned; it never runs after do has returned.
func (m *Machine) do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	var claimed atomic.Bool
	event := func() {
		if claimed.CompareAndSwap(false, true) {
			result <- fn()
		}
	}

	select {
	case m.events <- event:
	case <-m.stopped:
		return ErrMachineStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-m.stopped:
		select {
		case err := <-result:
			return err
		default:
			return ErrMachineStopped
		}
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err()
		}
		// fn is running on the loop goroutine; Run finishes it before
		// returning, so the result always arrives.
		return <-result
	}
}

// post queues fn for the machine goroutine without waiting for it to run.
// It gives up once the machine stopped.
func (m *Machine) post(fn func()) {
	select {
	case m.events <- fn:
	case <-m.stopped:
	}
}

func (m *Machine) isOutdated(ctx context.Context) bool {
	if m.cfg.Version == nil {
		return false
	}
	outdated, err := m.cfg.Version.IsOutdated(ctx)
	if err != nil {
		logging.Warn("Auth", "Could not check for a newer version: %v", err)
		return false
	}
	return outdated
}

// begin creates the attempt, registers the callback listener and redirects.
func (m *Machine) begin(ctx context.Context) error {
	pending, err := m.cfg.NewState()
	if err != nil {
		err = fmt.Errorf("failed to generate login state: %w", err)
		m.report(err)
		return err
	}

	a := &attempt{
		id:           uuid.NewString(),
		pendingState: pending,
	}
	a.ctx, a.cancel = context.WithCancel(m.runCtx)
	m.attempt = a

	id := a.id
	a.unregister = m.cfg.Callbacks.Listen(func(r oauth.CallbackResult) {
		m.post(func() { m.handleCallback(id, r) })
	})

	if err := m.cfg.Redirector.Redirect(ctx, pending); err != nil {
		m.abandon()
		err = fmt.Errorf("failed to open GitHub login: %w", err)
		m.report(err)
		return err
	}

	if m.cfg.LoginTimeout > 0 {
		a.loginTimer = time.AfterFunc(m.cfg.LoginTimeout, func() {
			m.post(func() { m.handleLoginTimeout(id) })
		})
	}

	logging.Info("Auth", "Waiting for GitHub login (attempt %s)", id)
	m.transition(AwaitingAuthentication, nil)
	return nil
}

// current returns the attempt with the given id while it is still awaiting
// authentication, or nil for stale events.
func (m *Machine) current(id string) *attempt {
	if m.attempt == nil || m.attempt.id != id || m.currentState() != AwaitingAuthentication {
		return nil
	}
	return m.attempt
}

func (m *Machine) handleCallback(id string, r oauth.CallbackResult) {
	a := m.current(id)
	if a == nil {
		logging.Debug("Auth", "Ignoring callback for a finished login attempt")
		return
	}

	switch {
	case r.WindowClosed:
		logging.Info("Auth", "Login window closed by user")
		m.fail(nil)
		return
	case r.Error != "":
		logging.Info("Auth", "Error returned from GitHub login: %s", r.Message())
		m.fail(&ProviderError{Code: r.Error, Description: r.ErrorDescription})
		return
	}

	if a.exchanging {
		logging.Debug("Auth", "Ignoring duplicate callback")
		return
	}
	if !pkgoauth.StatesEqual(a.pendingState, r.State) {
		logging.Warn("Auth", "Received incorrect state, continuing to wait for GitHub login")
		return
	}

	logging.Info("Auth", "Obtained authorisation code from GitHub")
	a.exchanging = true
	if a.loginTimer != nil {
		a.loginTimer.Stop()
	}

	step := m.armStep(a)
	code := r.Code
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, m.cfg.ExchangeTimeout)
		defer cancel()
		token, err := m.cfg.Exchanger.Exchange(ctx, code)
		m.post(func() { m.handleExchange(id, step, token, err) })
	}()
}

func (m *Machine) handleExchange(id string, step int, token *oauth2.Token, err error) {
	a := m.current(id)
	if a == nil || a.step != step {
		return
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logging.Warn("Auth", "Token exchange timed out: %v", err)
			err = ErrExchangeTimeout
		}
		m.fail(err)
		return
	}
	if token == nil || token.AccessToken == "" {
		m.fail(&oauth.ExchangeError{Err: errors.New("token exchange returned no access token")})
		return
	}

	m.setIdentity(token, nil)
	m.gate.lookup(a, token.AccessToken)
}

func (m *Machine) handleIdentity(id string, step int, user *identity.User, err error) {
	a := m.current(id)
	if a == nil || a.step != step {
		return
	}

	if err == nil && (user == nil || user.Login == "") {
		err = errors.New("lookup returned no login")
	}
	if err != nil {
		m.fail(&IdentityError{Err: err})
		return
	}

	m.abandon()
	m.setIdentity(m.token, user)
	logging.Info("Auth", "Access token belongs to %s, awaiting confirmation", user.Login)
	m.transition(ConfirmOAuthUser, nil)
}

func (m *Machine) handleLoginTimeout(id string) {
	a := m.current(id)
	if a == nil || a.exchanging {
		return
	}
	m.fail(ErrLoginTimeout)
}

func (m *Machine) handleStepTimeout(id string, step int) {
	a := m.current(id)
	if a == nil || a.step != step {
		return
	}
	if m.token == nil {
		m.fail(ErrExchangeTimeout)
		return
	}
	m.fail(&IdentityError{Err: context.DeadlineExceeded})
}

// armStep starts a new guarded background step on a and returns its number.
func (m *Machine) armStep(a *attempt) int {
	if a.stepTimer != nil {
		a.stepTimer.Stop()
	}
	a.step++
	step, id := a.step, a.id
	a.stepTimer = time.AfterFunc(m.cfg.ExchangeTimeout, func() {
		m.post(func() { m.handleStepTimeout(id, step) })
	})
	return step
}

// fail ends the attempt, reports err once when non-nil, and returns to
// NotAuthenticated.
func (m *Machine) fail(err error) {
	m.abandon()
	m.setIdentity(nil, nil)
	if err != nil {
		logging.Error("Auth", err, "Login attempt failed")
		m.report(err)
	}
	m.transition(NotAuthenticated, err)
}

// abandon tears down the current attempt: listener, timers and background
// work. Events still queued for it are recognised as stale.
func (m *Machine) abandon() {
	a := m.attempt
	if a == nil {
		return
	}
	m.attempt = nil

	if a.unregister != nil {
		a.unregister()
	}
	if a.loginTimer != nil {
		a.loginTimer.Stop()
	}
	if a.stepTimer != nil {
		a.stepTimer.Stop()
	}
	a.cancel()
}

func (m *Machine) report(err error) {
	if m.cfg.Reporter != nil {
		m.cfg.Reporter.HandleError(err)
	}
}

func (m *Machine) currentState() AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Machine) setIdentity(token *oauth2.Token, user *identity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = user
}

// transition moves to the given state and notifies subscribers.
func (m *Machine) transition(to AuthState, err error) {
	m.mu.Lock()
	from := m.state
	m.state = to
	m.mu.Unlock()

	logging.Info("Auth", "Auth state %s -> %s", from, to)

	change := StateChange{From: from, To: to, Err: err}

	m.subMu.Lock()
	subs := make([]func(StateChange), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}
