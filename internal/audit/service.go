package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for journal events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service journals portal activity.
//
// Callers treat journaling as best-effort: a nil service or a failing
// repository never blocks login, logout, or profile flows.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogLogin records a successful portal connection.
func (s *Service) LogLogin(ctx context.Context, userID, username, ip string) error {
	return s.Append(ctx, Event{
		Type:          EventTypeLogin,
		ActorUserID:   userID,
		ActorUsername: username,
		IPAddress:     ip,
		Message:       "portal login",
	})
}

// LogLoginFailed records a rejected login attempt. Only the submitted
// identifier is kept; no credential material is journaled.
func (s *Service) LogLoginFailed(ctx context.Context, identifier, ip string) error {
	return s.Append(ctx, Event{
		Type:          EventTypeLoginFailed,
		ActorUsername: identifier,
		IPAddress:     ip,
		Message:       "portal login rejected",
	})
}

// LogLogout records a session teardown.
func (s *Service) LogLogout(ctx context.Context, userID, username, ip string) error {
	return s.Append(ctx, Event{
		Type:          EventTypeLogout,
		ActorUserID:   userID,
		ActorUsername: username,
		IPAddress:     ip,
		Message:       "portal logout",
	})
}

// LogProfileUpdate records a structure mutation with its submitted payload.
func (s *Service) LogProfileUpdate(ctx context.Context, userID, username, ip, metadata string) error {
	return s.Append(ctx, Event{
		Type:          EventTypeProfileUpdate,
		ActorUserID:   userID,
		ActorUsername: username,
		IPAddress:     ip,
		Message:       "structure updated",
		Metadata:      metadata,
	})
}

// LogDiscordLink records the start of a Discord link handoff.
func (s *Service) LogDiscordLink(ctx context.Context, userID, username, ip string) error {
	return s.Append(ctx, Event{
		Type:          EventTypeDiscordLink,
		ActorUserID:   userID,
		ActorUsername: username,
		IPAddress:     ip,
		Message:       "discord link started",
	})
}
