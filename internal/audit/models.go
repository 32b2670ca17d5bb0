package audit

import "time"

// Event is an immutable, append-only journal record of portal activity.
// Connections and profile mutations may be journaled, per the portal's access
// conditions.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and IP capture are best-effort; authentication flows must never
//   block on journal failures.
//
// Storage (Postgres):
// - Table portal_audit_events with an INSERT-only policy.
// - Optional: partition by time for retention.
type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the portal flow that produced the record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID identifies the authenticated principal, when one exists
	// (failed logins have none).
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	// ActorUsername is the portal login identifier.
	ActorUsername string `json:"actor_username,omitempty" db:"actor_username"`

	// IPAddress is the resolved client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLogin         EventType = "login"
	EventTypeLoginFailed   EventType = "login_failed"
	EventTypeLogout        EventType = "logout"
	EventTypeProfileUpdate EventType = "profile_update"
	EventTypeDiscordLink   EventType = "discord_link_started"
)
