package auth

import (
	"context"

	"catcher/internal/identity"
)

// Gate is the identity confirmation step. After a token is accepted the
// machine looks up the identity once and waits in ConfirmOAuthUser until the
// user confirms or rejects it.
type Gate struct {
	m       *Machine
	fetcher IdentityFetcher
}

// Identity returns the identity awaiting confirmation, or the confirmed one.
func (g *Gate) Identity() (*identity.User, bool) {
	switch g.m.State() {
	case ConfirmOAuthUser, Authenticated:
		u := g.m.User()
		return u, u != nil
	default:
		return nil, false
	}
}

// Confirm accepts the identity and moves to Authenticated.
func (g *Gate) Confirm(ctx context.Context) error {
	return g.m.confirm(ctx)
}

// Reject declines the identity and returns to NotAuthenticated without
// reporting an error.
func (g *Gate) Reject(ctx context.Context) error {
	return g.m.reject(ctx)
}

// lookup starts the identity lookup for token within attempt a. It runs on
// the machine goroutine; the result is posted back.
func (g *Gate) lookup(a *attempt, token string) {
	m := g.m
	step := m.armStep(a)
	id := a.id
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, m.cfg.ExchangeTimeout)
		defer cancel()
		user, err := g.fetcher.AuthenticatedUser(ctx, token)
		m.post(func() { m.handleIdentity(id, step, user, err) })
	}()
}
