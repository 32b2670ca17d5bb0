package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend is the identity service consumed by the portal gateway. The gateway
// never validates credentials or parses tokens itself; every trust decision
// belongs to this collaborator.
type Backend interface {
	Login(ctx context.Context, identifier, password string) (LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) error
	Me(ctx context.Context, token string) (Principal, error)
	UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (Principal, error)
	DiscordLinkURL(token string) string
}

type LoginResult struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ProfileUpdate is the structure-edit payload. Poles and Habilitations are
// always submitted in split form, never as joined strings.
type ProfileUpdate struct {
	Sector        string   `json:"sector"`
	Service       string   `json:"service"`
	Poles         []string `json:"poles"`
	Habilitations []string `json:"habilitations"`
	FJF           bool     `json:"fjf"`
}

// BackendError carries the backend's user-facing message for a non-2xx reply.
// Login relays Message verbatim to the caller.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("identity: backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("identity: backend returned %d", e.Status)
}

// HTTPBackend talks to the identity backend over its JSON API.
type HTTPBackend struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPBackend builds a client for the backend at baseURL. The timeout is a
// hardening default, not part of the session contract; zero disables it and
// requests then terminate only on network-level resolution.
func NewHTTPBackend(baseURL string, timeout time.Duration) (*HTTPBackend, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("identity: backend base URL is required")
	}
	return &HTTPBackend{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

func (b *HTTPBackend) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	var out LoginResult
	if err := b.do(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" {
		return LoginResult{}, errors.New("identity: login reply missing token")
	}
	return out, nil
}

func (b *HTTPBackend) Register(ctx context.Context, req RegisterRequest) error {
	return b.do(ctx, http.MethodPost, "/auth/register", "", req, nil)
}

func (b *HTTPBackend) Me(ctx context.Context, token string) (Principal, error) {
	var out struct {
		User Principal `json:"user"`
	}
	if err := b.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return Principal{}, err
	}
	return out.User, nil
}

func (b *HTTPBackend) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (Principal, error) {
	var out struct {
		User Principal `json:"user"`
	}
	if err := b.do(ctx, http.MethodPut, "/auth/profile", token, upd, &out); err != nil {
		return Principal{}, err
	}
	return out.User, nil
}

// DiscordLinkURL is the redirect handoff target for Discord account linking.
// The credential travels as a query parameter; the backend sends the browser
// back to the dashboard with the link-completion marker.
func (b *HTTPBackend) DiscordLinkURL(token string) string {
	return b.baseURL + "/auth/discord?token=" + url.QueryEscape(token)
}

func (b *HTTPBackend) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("identity: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		return fmt.Errorf("identity: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity: decode %s reply: %w", path, err)
	}
	return nil
}

// readErrorMessage extracts the backend's "message" field when the error body
// is JSON, falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
