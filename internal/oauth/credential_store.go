package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"catcher/pkg/logging"
)

// credentialFileName is the file the credential is written to inside the storage directory.
const credentialFileName = "credentials.json"

// Credential is the confirmed login persisted across restarts.
type Credential struct {
	// AccessToken is the GitHub access token.
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer".
	TokenType string `json:"token_type"`

	// Login is the confirmed GitHub login.
	Login string `json:"login"`

	// Name is the GitHub display name, if any.
	Name string `json:"name,omitempty"`

	// CreatedAt is when the credential was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Token converts the credential to an oauth2.Token.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{AccessToken: c.AccessToken, TokenType: c.TokenType}
}

// Valid reports whether the credential can be resumed from.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && c.Login != ""
}

// CredentialStore persists the single confirmed credential.
//
// SECURITY: This store handles sensitive OAuth credentials:
//   - Files are created with 0600 permissions (owner read/write only)
//   - Storage directory is created with 0700 permissions (owner only)
//   - Token values are NEVER logged (only the login)
type CredentialStore struct {
	mu         sync.RWMutex
	storageDir string
	fileMode   bool
	cached     *Credential
}

// CredentialStoreConfig configures the credential store.
type CredentialStoreConfig struct {
	// StorageDir is the directory holding credentials.json.
	StorageDir string

	// FileMode enables file-based persistence. If false, the credential is in-memory only.
	FileMode bool
}

// NewCredentialStore creates a credential store.
func NewCredentialStore(cfg CredentialStoreConfig) (*CredentialStore, error) {
	if cfg.FileMode {
		if cfg.StorageDir == "" {
			return nil, errors.New("credential storage directory is required in file mode")
		}
		if err := os.MkdirAll(cfg.StorageDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create credential storage directory: %w", err)
		}
	}
	return &CredentialStore{
		storageDir: cfg.StorageDir,
		fileMode:   cfg.FileMode,
	}, nil
}

func (s *CredentialStore) path() string {
	return filepath.Join(s.storageDir, credentialFileName)
}

// Save stores the credential, replacing any previous one.
func (s *CredentialStore) Save(cred *Credential) error {
	if !cred.Valid() {
		return errors.New("refusing to store credential without token or login")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *cred
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.cached = &stored

	if !s.fileMode {
		return nil
	}

	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := s.writeFile(data); err != nil {
		logging.Audit(logging.AuditEvent{Action: "credential_stored", Outcome: "failure", Target: stored.Login, Error: err})
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	logging.Audit(logging.AuditEvent{Action: "credential_stored", Outcome: "success", Target: stored.Login})
	return nil
}

// writeFile replaces the credential file atomically with owner-only
// permissions, whatever the mode of a previous file. Must be called with
// s.mu held.
func (s *CredentialStore) writeFile(data []byte) error {
	tmp, err := os.CreateTemp(s.storageDir, ".credentials-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path())
}

// Load returns the stored credential, or nil if none exists.
func (s *CredentialStore) Load() (*Credential, error) {
	s.mu.RLock()
	if s.cached != nil {
		c := *s.cached
		s.mu.RUnlock()
		return &c, nil
	}
	s.mu.RUnlock()

	if !s.fileMode {
		return nil, nil
	}

	// #nosec G304 -- path is built from the configured storage directory
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	s.mu.Lock()
	s.cached = &cred
	s.mu.Unlock()

	c := cred
	return &c, nil
}

// Clear removes the stored credential. Clearing an empty store is not an error.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	if !s.fileMode {
		return nil
	}

	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Audit(logging.AuditEvent{Action: "credential_cleared", Outcome: "failure", Error: err})
		return fmt.Errorf("failed to remove credential file: %w", err)
	}

	logging.Audit(logging.AuditEvent{Action: "credential_cleared", Outcome: "success"})
	return nil
}
