// Package bootstrap establishes the session state for each protected view:
// credential check, principal fetch, cache reconciliation.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zealess/doj-frontend/internal/identity"
	"github.com/zealess/doj-frontend/internal/session"
)

var (
	// ErrNoCredential means no session exists; callers redirect to the entry
	// path. This path never touches the network.
	ErrNoCredential = errors.New("bootstrap: no credential")

	// ErrUnavailable means the principal fetch failed and no cached copy
	// exists. This is an availability failure: callers surface a load error
	// and must NOT redirect, a transient backend outage never logs the user
	// out.
	ErrUnavailable = errors.New("bootstrap: principal unavailable")
)

// Result is the principal to render plus how it was obtained.
type Result struct {
	Principal *identity.Principal
	// FromCache is set when the cache satisfied the view without a fetch.
	FromCache bool
	// Degraded is set when the fetch failed and the cached copy was used
	// instead.
	Degraded bool
}

type Bootstrapper struct {
	backend  identity.Backend
	sessions *session.Manager
	log      *slog.Logger
}

func New(backend identity.Backend, sessions *session.Manager, log *slog.Logger) *Bootstrapper {
	if log == nil {
		log = slog.Default()
	}
	return &Bootstrapper{backend: backend, sessions: sessions, log: log}
}

// Load resolves the principal for a protected view.
//
// refresh=false lets a cached principal satisfy the view without a backend
// round-trip. refresh=true always hits /auth/me; the Discord link-completion
// marker forces it because the cache is known stale at that instant, and the
// profile view forces it because it is the canonical read.
//
// On fetch success the cache is replaced wholesale with the reply. On fetch
// failure the last cached principal is the fallback; only the complete
// absence of a credential redirects.
func (b *Bootstrapper) Load(ctx context.Context, token string, refresh bool) (Result, error) {
	stored, ok := b.sessions.Read(ctx, token)
	if !ok {
		return Result{}, ErrNoCredential
	}

	if !refresh {
		if cached, ok := b.sessions.Principal(ctx, token); ok {
			return Result{Principal: cached, FromCache: true}, nil
		}
	}

	p, err := b.backend.Me(ctx, stored)
	if err != nil {
		// Stale credential and transport failure look identical here; both
		// degrade to the cache.
		if cached, ok := b.sessions.Principal(ctx, token); ok {
			b.log.Warn("principal fetch failed, rendering cached copy", "err", err)
			return Result{Principal: cached, FromCache: true, Degraded: true}, nil
		}
		b.log.Warn("principal fetch failed with empty cache", "err", err)
		return Result{}, ErrUnavailable
	}

	if err := b.sessions.ReplacePrincipal(ctx, token, &p); err != nil {
		// The canonical principal still renders; only persistence lagged.
		b.log.Warn("identity cache replace failed", "err", err)
	}
	return Result{Principal: &p}, nil
}
