package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zealess/doj-frontend/internal/identity"
)

// CookieConfig describes the guard cookie. The route guard only ever checks
// its presence; the value is the opaque bearer credential.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Manager owns the credential's two representations: the session record and
// the guard cookie.
//
// Invariants:
// - Save writes both together; a record write failure sets no cookie.
// - Clear removes both together.
// - Read and Principal consult only the record, never the cookie; the cookie
//   is write-mostly and consumed exclusively by the route guard on the
//   request path.
type Manager struct {
	store  Store
	cookie CookieConfig
}

func NewManager(store Store, cookie CookieConfig) *Manager {
	return &Manager{store: store, cookie: cookie}
}

// Save establishes a session: record first, then cookie. With a nil store the
// call is a no-op and no cookie is set, so the two representations never
// split.
func (m *Manager) Save(ctx context.Context, c *gin.Context, token string, user *identity.Principal) error {
	if m.store == nil {
		return nil
	}
	rec := Record{Token: token}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return err
		}
		rec.User = raw
	}
	if err := m.store.Put(ctx, recordKey(token), rec); err != nil {
		return err
	}
	m.setCookie(c, token, int(m.cookie.MaxAge/time.Second))
	return nil
}

// Clear tears the session down. The cookie is expired even when the record
// delete fails; an orphaned record is unreachable without the token and falls
// out with its TTL.
func (m *Manager) Clear(ctx context.Context, c *gin.Context, token string) error {
	if m.store == nil {
		return nil
	}
	err := m.store.Delete(ctx, recordKey(token))
	m.setCookie(c, "", -1)
	return err
}

// Read returns the stored credential. Absent and unreadable are the same
// answer: not authenticated, never an error.
func (m *Manager) Read(ctx context.Context, token string) (string, bool) {
	if m.store == nil || token == "" {
		return "", false
	}
	rec, ok, err := m.store.Get(ctx, recordKey(token))
	if err != nil || !ok || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

// Principal returns the cached principal for the session. Malformed cached
// data is a miss, silently ignored.
func (m *Manager) Principal(ctx context.Context, token string) (*identity.Principal, bool) {
	if m.store == nil || token == "" {
		return nil, false
	}
	rec, ok, err := m.store.Get(ctx, recordKey(token))
	if err != nil || !ok || len(rec.User) == 0 {
		return nil, false
	}
	var p identity.Principal
	if err := json.Unmarshal(rec.User, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// ReplacePrincipal swaps the cached principal wholesale. The stored
// credential is preserved; fields are never merged.
func (m *Manager) ReplacePrincipal(ctx context.Context, token string, p *identity.Principal) error {
	if m.store == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, recordKey(token), Record{Token: token, User: raw})
}

// BeginSave acquires the single in-flight mutation lease for the session.
func (m *Manager) BeginSave(ctx context.Context, token string) (bool, error) {
	if m.store == nil {
		return false, nil
	}
	return m.store.TryAcquireSave(ctx, saveLeaseKey(token))
}

func (m *Manager) EndSave(ctx context.Context, token string) {
	if m.store == nil {
		return
	}
	_ = m.store.ReleaseSave(ctx, saveLeaseKey(token))
}

// CookieName exposes the configured cookie name for the guard and handlers.
func (m *Manager) CookieName() string { return m.cookie.Name }

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	if c == nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, value, maxAge, "/", "", m.cookie.Secure, true)
}
