package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zealess/doj-frontend/internal/identity"
)

func testManager(store Store) *Manager {
	return NewManager(store, CookieConfig{
		Name:   "doj_token",
		MaxAge: 7 * 24 * time.Hour,
		Secure: true,
	})
}

func ginContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	return c, w
}

func TestSaveSetsRecordAndCookieTogether(t *testing.T) {
	store := NewMemoryStore()
	m := testManager(store)
	c, w := ginContext(t)

	user := &identity.Principal{Username: "a.targaryen"}
	if err := m.Save(context.Background(), c, "tok-1", user); err != nil {
		t.Fatalf("save: %v", err)
	}

	if tok, ok := m.Read(context.Background(), "tok-1"); !ok || tok != "tok-1" {
		t.Fatalf("expected stored credential, got %q %v", tok, ok)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "doj_token=tok-1") {
		t.Fatalf("cookie not set: %q", cookie)
	}
	if !strings.Contains(cookie, "Max-Age=604800") {
		t.Fatalf("expected one-week max-age: %q", cookie)
	}
	if !strings.Contains(cookie, "SameSite=Lax") || !strings.Contains(cookie, "Secure") {
		t.Fatalf("expected Lax+Secure attributes: %q", cookie)
	}
	if !strings.Contains(cookie, "Path=/") {
		t.Fatalf("expected Path=/: %q", cookie)
	}
}

func TestClearRemovesRecordAndExpiresCookie(t *testing.T) {
	store := NewMemoryStore()
	m := testManager(store)
	c, _ := ginContext(t)
	if err := m.Save(context.Background(), c, "tok-1", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	c2, w2 := ginContext(t)
	if err := m.Clear(context.Background(), c2, "tok-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := m.Read(context.Background(), "tok-1"); ok {
		t.Fatalf("credential still readable after clear")
	}
	cookie := w2.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "doj_token=") || !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("cookie not expired: %q", cookie)
	}
	if store.Len() != 0 {
		t.Fatalf("record leaked: %d", store.Len())
	}
}

func TestNilStoreIsAbsentAndSetsNoCookie(t *testing.T) {
	m := testManager(nil)
	c, w := ginContext(t)

	if err := m.Save(context.Background(), c, "tok-1", nil); err != nil {
		t.Fatalf("save on nil store: %v", err)
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("cookie must not be set without a record")
	}
	if _, ok := m.Read(context.Background(), "tok-1"); ok {
		t.Fatalf("nil store must read absent")
	}
	if _, ok := m.Principal(context.Background(), "tok-1"); ok {
		t.Fatalf("nil store must have no cached principal")
	}
}

func TestMalformedCachedPrincipalIsAMiss(t *testing.T) {
	store := NewMemoryStore()
	m := testManager(store)

	if err := store.Put(context.Background(), recordKey("tok-1"), Record{
		Token: "tok-1",
		User:  []byte("{not json"),
	}); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok := m.Principal(context.Background(), "tok-1"); ok {
		t.Fatalf("malformed cache must be a miss")
	}
	// The credential itself is still valid.
	if _, ok := m.Read(context.Background(), "tok-1"); !ok {
		t.Fatalf("credential lost on malformed cache")
	}
}

func TestReplacePrincipalIsWholesale(t *testing.T) {
	store := NewMemoryStore()
	m := testManager(store)
	c, _ := ginContext(t)

	old := &identity.Principal{Username: "a.targaryen", Sector: "Section pénale", DiscordLinked: true}
	if err := m.Save(context.Background(), c, "tok-1", old); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The replacement omits sector and linked; nothing may survive the swap.
	if err := m.ReplacePrincipal(context.Background(), "tok-1", &identity.Principal{Username: "a.targaryen"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	p, ok := m.Principal(context.Background(), "tok-1")
	if !ok {
		t.Fatalf("expected cached principal")
	}
	if p.Sector != "" || p.DiscordLinked {
		t.Fatalf("replacement merged fields: %+v", p)
	}
}

func TestSaveLeaseIsExclusive(t *testing.T) {
	store := NewMemoryStore()
	m := testManager(store)

	ok, err := m.BeginSave(context.Background(), "tok-1")
	if err != nil || !ok {
		t.Fatalf("first acquire: %v %v", ok, err)
	}
	ok, err = m.BeginSave(context.Background(), "tok-1")
	if err != nil || ok {
		t.Fatalf("second acquire must fail: %v %v", ok, err)
	}
	m.EndSave(context.Background(), "tok-1")
	ok, err = m.BeginSave(context.Background(), "tok-1")
	if err != nil || !ok {
		t.Fatalf("acquire after release: %v %v", ok, err)
	}
}
