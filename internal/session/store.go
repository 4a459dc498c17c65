package session

import (
	"context"
	"errors"
	"fmt"

	"catcher/pkg/logging"
)

// Keys under which the session is persisted.
const (
	KeyOrganization   = "org"
	KeyDataRepository = "dataRepo"
)

// KeyValueStore is durable string-keyed storage.
// Get reports found=false for keys that were never set.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Consumer receives the restored session. Session-scoped services implement
// it to learn which organization and repository to operate against.
type Consumer interface {
	UseSession(ctx context.Context, info Info) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, info Info) error

// UseSession calls f(ctx, info).
func (f ConsumerFunc) UseSession(ctx context.Context, info Info) error {
	return f(ctx, info)
}

// Store persists the last used session.
type Store struct {
	kv KeyValueStore
}

// NewStore creates a Store on top of the given key/value backend.
func NewStore(kv KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Save writes both fields, overwriting any previous values.
func (s *Store) Save(ctx context.Context, org, dataRepo string) error {
	if err := s.kv.Set(ctx, KeyOrganization, org); err != nil {
		return fmt.Errorf("failed to save organization: %w", err)
	}
	if err := s.kv.Set(ctx, KeyDataRepository, dataRepo); err != nil {
		return fmt.Errorf("failed to save data repository: %w", err)
	}

	logging.Info("Session", "Selected session repo: %s/%s", org, dataRepo)
	return nil
}

// Load reads both fields. Keys never set come back as empty strings.
func (s *Store) Load(ctx context.Context) (Info, error) {
	org, _, err := s.kv.Get(ctx, KeyOrganization)
	if err != nil {
		return Info{}, fmt.Errorf("failed to load organization: %w", err)
	}
	repo, _, err := s.kv.Get(ctx, KeyDataRepository)
	if err != nil {
		return Info{}, fmt.Errorf("failed to load data repository: %w", err)
	}
	return Info{Organization: org, DataRepository: repo}, nil
}

// Restore loads the stored session and hands it to every consumer.
// All consumers are called even if one fails; their errors are joined.
func (s *Store) Restore(ctx context.Context, consumers ...Consumer) (Info, error) {
	info, err := s.Load(ctx)
	if err != nil {
		return Info{}, err
	}

	var errs []error
	for _, c := range consumers {
		if c == nil {
			continue
		}
		if err := c.UseSession(ctx, info); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return info, fmt.Errorf("failed to restore session %s: %w", info, errors.Join(errs...))
	}

	logging.Debug("Session", "Restored session %s", info)
	return info, nil
}

// Clear removes the stored session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyOrganization); err != nil {
		return fmt.Errorf("failed to clear organization: %w", err)
	}
	if err := s.kv.Delete(ctx, KeyDataRepository); err != nil {
		return fmt.Errorf("failed to clear data repository: %w", err)
	}
	return nil
}
