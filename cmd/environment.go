package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"catcher/internal/auth"
	"catcher/internal/config"
	"catcher/internal/identity"
	"catcher/internal/oauth"
	"catcher/internal/session"
	"catcher/internal/version"
)

// sqliteFileName is the database file used by the sqlite backend.
const sqliteFileName = "catcher.db"

// environment is the storage a command runs against.
type environment struct {
	cfg         config.CatcherConfig
	sessions    *session.Store
	active      *session.Active
	credentials *oauth.CredentialStore
	closer      io.Closer
}

// openEnvironment loads configuration and opens the session and credential
// stores. Ephemeral environments keep everything in memory.
func openEnvironment(ephemeral bool) (*environment, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if ephemeral {
		cfg.Storage.Backend = config.StorageBackendMemory
	}

	backend := string(cfg.Storage.Backend)
	path := cfg.Storage.Path
	switch cfg.Storage.Backend {
	case config.StorageBackendFile:
		path = filepath.Join(path, session.DefaultFileName)
	case config.StorageBackendSQLite:
		path = filepath.Join(path, sqliteFileName)
	}

	kv, closer, err := session.OpenBackend(backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	credentials, err := oauth.NewCredentialStore(oauth.CredentialStoreConfig{
		StorageDir: cfg.Storage.Path,
		FileMode:   cfg.Storage.Backend != config.StorageBackendMemory,
	})
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &environment{
		cfg:         cfg,
		sessions:    session.NewStore(kv),
		active:      &session.Active{},
		credentials: credentials,
		closer:      closer,
	}, nil
}

func (e *environment) Close() error {
	return e.closer.Close()
}

// machineDeps are the per-command collaborators of the auth machine.
type machineDeps struct {
	callbacks oauth.CallbackSource
	redirect  oauth.RedirectorConfig
	reporter  auth.ErrorReporter
}

// newMachine wires an auth machine to the environment's configuration.
func (e *environment) newMachine(deps machineDeps) (*auth.Machine, error) {
	exchanger, err := oauth.NewExchanger(oauth.ExchangerConfig{
		BaseURL:  e.cfg.OAuth.AccessTokenURL,
		ClientID: e.cfg.OAuth.ClientID,
	})
	if err != nil {
		return nil, err
	}

	fetcher, err := identity.NewGitHubFetcher(e.cfg.GitHub.APIURL, nil)
	if err != nil {
		return nil, err
	}

	redirectCfg := deps.redirect
	redirectCfg.ClientID = e.cfg.OAuth.ClientID
	redirectCfg.AuthorizeURL = e.cfg.OAuth.AuthorizeURL
	redirectCfg.Scopes = e.cfg.OAuth.Scopes
	redirector, err := oauth.NewBrowserRedirector(redirectCfg)
	if err != nil {
		return nil, err
	}

	machineCfg := auth.Config{
		Callbacks:       deps.callbacks,
		Exchanger:       exchanger,
		Identity:        fetcher,
		Redirector:      redirector,
		Reporter:        deps.reporter,
		Credentials:     e.credentials,
		ExchangeTimeout: e.cfg.OAuth.ExchangeTimeout,
		LoginTimeout:    e.cfg.OAuth.LoginTimeout,
	}

	if e.cfg.Update.CheckOnLogin {
		updater, err := version.NewUpdater(e.cfg.Update.Repository)
		if err != nil {
			return nil, err
		}
		machineCfg.Version = version.NewChecker(GetVersion(), updater)
	}

	return auth.NewMachine(machineCfg)
}

// runMachine runs m while fn executes and stops it afterwards. errs carries
// fatal errors from other components, such as the callback server.
func runMachine(ctx context.Context, m *auth.Machine, errs <-chan error, fn func(ctx context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error { return m.Run(gctx) })
	if errs != nil {
		g.Go(func() error {
			select {
			case err := <-errs:
				return fmt.Errorf("callback server failed: %w", err)
			case <-gctx.Done():
				return nil
			}
		})
	}

	fnErr := fn(gctx)
	cancel()
	if err := g.Wait(); err != nil && fnErr == nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return fnErr
}
