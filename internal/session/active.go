package session

import (
	"context"
	"sync"
)

// Active holds the session the process is currently operating against.
// It is filled by Store.Restore and read by session-scoped services.
type Active struct {
	mu   sync.RWMutex
	info Info
	set  bool
}

// UseSession implements Consumer.
func (a *Active) UseSession(_ context.Context, info Info) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.info = info
	a.set = true
	return nil
}

// Current returns the active session and whether one has been set.
func (a *Active) Current() (Info, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.info, a.set
}
