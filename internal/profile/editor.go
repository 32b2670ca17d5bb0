// Package profile drives the structure edit flow: hydrate a draft from the
// cached principal, submit it to the identity backend, reconcile the cache
// with the canonical reply.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zealess/doj-frontend/internal/gate"
	"github.com/zealess/doj-frontend/internal/identity"
	"github.com/zealess/doj-frontend/internal/session"
)

var (
	// ErrForbidden means the principal's Discord highest role is outside the
	// structure-edit allow-list.
	ErrForbidden = errors.New("profile: structure edit not allowed")

	// ErrSaveInFlight means another save for this session has not resolved
	// yet. Retryable once the outstanding request settles.
	ErrSaveInFlight = errors.New("profile: save already in progress")
)

// Draft is the editable form of a principal's structure. The list fields are
// held in their canonical joined text form ("A, B") while being edited and
// re-split on save.
type Draft struct {
	Sector        string `json:"sector"`
	Service       string `json:"service"`
	Poles         string `json:"poles"`
	Habilitations string `json:"habilitations"`
	FJF           bool   `json:"fjf"`
}

// BeginEdit hydrates a draft from p's current assignment, normalizing
// whichever form the backend delivered the list fields in.
func BeginEdit(p identity.Principal) Draft {
	a := p.Assignment()
	return Draft{
		Sector:        a.Sector,
		Service:       a.Service,
		Poles:         a.Poles.Joined(),
		Habilitations: a.Habilitations.Joined(),
		FJF:           a.FJF,
	}
}

type Editor struct {
	backend  identity.Backend
	sessions *session.Manager
}

func NewEditor(backend identity.Backend, sessions *session.Manager) *Editor {
	return &Editor{backend: backend, sessions: sessions}
}

// Save submits the draft. At most one save per session may be outstanding;
// callers hitting ErrSaveInFlight keep their draft and retry later.
//
// On success the identity cache is replaced with the backend's canonical
// principal (the server, not the draft, is the source of truth post-write)
// and that principal is returned so the caller can exit edit mode. On
// failure nothing local changes and the caller keeps the draft unmodified.
func (e *Editor) Save(ctx context.Context, token string, p identity.Principal, d Draft) (identity.Principal, error) {
	if !gate.CanEditStructure(&p) {
		return identity.Principal{}, ErrForbidden
	}

	ok, err := e.sessions.BeginSave(ctx, token)
	if err != nil {
		return identity.Principal{}, fmt.Errorf("profile: save lease: %w", err)
	}
	if !ok {
		return identity.Principal{}, ErrSaveInFlight
	}
	defer e.sessions.EndSave(ctx, token)

	upd := identity.ProfileUpdate{
		Sector:        strings.TrimSpace(d.Sector),
		Service:       strings.TrimSpace(d.Service),
		Poles:         identity.SplitList(d.Poles),
		Habilitations: identity.SplitList(d.Habilitations),
		FJF:           d.FJF,
	}

	updated, err := e.backend.UpdateProfile(ctx, token, upd)
	if err != nil {
		return identity.Principal{}, fmt.Errorf("profile: save: %w", err)
	}

	if err := e.sessions.ReplacePrincipal(ctx, token, &updated); err != nil {
		return identity.Principal{}, fmt.Errorf("profile: cache replace: %w", err)
	}
	return updated, nil
}

// CancelEdit discards the draft and re-hydrates from the last known good
// cached principal.
func (e *Editor) CancelEdit(ctx context.Context, token string) (Draft, bool) {
	p, ok := e.sessions.Principal(ctx, token)
	if !ok {
		return Draft{}, false
	}
	return BeginEdit(*p), true
}
