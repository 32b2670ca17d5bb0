package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Record is one browser session: the bearer credential and the serialized
// cached principal, stored together under a single key. The record stands in
// for the browser-side storage pair the portal pages used to manage; the
// guard cookie is the other representation of the same credential.
type Record struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// Store persists session records.
//
// Contract:
// - Get returns ok=false for unknown keys, never an error for plain misses.
// - Put replaces the record wholesale; there is no partial update.
// - TryAcquireSave/ReleaseSave implement the single in-flight mutation lease
//   per session used by the structure editor.
//
// A nil Store is valid everywhere a Store is accepted: the manager then
// treats every session as absent, the same behavior the portal has when no
// storage backend is reachable.
type Store interface {
	Put(ctx context.Context, key string, rec Record) error
	Get(ctx context.Context, key string) (Record, bool, error)
	Delete(ctx context.Context, key string) error

	TryAcquireSave(ctx context.Context, key string) (bool, error)
	ReleaseSave(ctx context.Context, key string) error
}

// recordKey derives the storage key from the raw credential. The token never
// appears in key names or logs.
func recordKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "doj:session:" + hex.EncodeToString(sum[:])
}

func saveLeaseKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "doj:saving:" + hex.EncodeToString(sum[:])
}
