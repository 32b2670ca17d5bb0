package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLoginRelaysBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Identifiants incorrects."}`))
	}))
	defer srv.Close()

	b, err := NewHTTPBackend(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	_, err = b.Login(context.Background(), "a.targaryen", "wrong")
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Status != http.StatusUnauthorized || be.Message != "Identifiants incorrects." {
		t.Fatalf("unexpected backend error: %+v", be)
	}
}

func TestMeSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		_, _ = w.Write([]byte(`{"user":{"username":"a.targaryen","discordLinked":true}}`))
	}))
	defer srv.Close()

	b, _ := NewHTTPBackend(srv.URL, 5*time.Second)
	p, err := b.Me(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if p.Username != "a.targaryen" || !p.DiscordLinked {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestUpdateProfileReturnsCanonicalUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/profile" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		// The server is the source of truth post-write; reply with a shape
		// that differs from the submitted draft.
		_, _ = w.Write([]byte(`{"user":{"username":"a.targaryen","sector":"Section pénale","poles":"A, B"}}`))
	}))
	defer srv.Close()

	b, _ := NewHTTPBackend(srv.URL, 5*time.Second)
	p, err := b.UpdateProfile(context.Background(), "tok-1", ProfileUpdate{Sector: "ignored"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Sector != "Section pénale" || p.Poles.Joined() != "A, B" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestDiscordLinkURLCarriesToken(t *testing.T) {
	b, _ := NewHTTPBackend("https://doj-backend.example/", 0)
	u := b.DiscordLinkURL("tok 1")
	if !strings.HasPrefix(u, "https://doj-backend.example/auth/discord?token=") {
		t.Fatalf("unexpected link url: %q", u)
	}
	if !strings.Contains(u, "tok+1") && !strings.Contains(u, "tok%201") {
		t.Fatalf("token not escaped: %q", u)
	}
}
