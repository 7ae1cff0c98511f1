// Package session manages per-user wizard conversation state.
package session

import (
	"context"
	"encoding/json"
	"errors"
)

// Well-known session fields. Every other field is keyed by the wizard
// step that collected it.
const (
	FieldCategory = "service_category"
	FieldService  = "service"
	FieldStep     = "step"
	FieldCriteria = "criteria"
)

var (
	// ErrSessionNotFound indicates that no session exists for the user,
	// either because none was started or because it expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrFieldNotFound indicates that a session field has not been set.
	ErrFieldNotFound = errors.New("session field not found")
	// ErrSessionBusy indicates that another interaction for the same user
	// is already in flight.
	ErrSessionBusy = errors.New("session is busy, try again later")
)

// Session is a handle to one user's conversation state.
type Session struct {
	UserID string `json:"user_id"`
}

// Store defines the persistence contract for wizard sessions. Find must
// renew the session TTL atomically with the existence check so a racing
// expiry is never observed half-way.
type Store interface {
	// Start creates or overwrites the session for the user and arms its TTL.
	Start(ctx context.Context, userID string) (*Session, error)
	// Find returns the session for the user, renewing its TTL, or
	// ErrSessionNotFound when absent or expired.
	Find(ctx context.Context, userID string) (*Session, error)
	// Save upserts a single field without touching the TTL.
	Save(ctx context.Context, sess *Session, field, value string) error
	// Get returns a field value or ErrFieldNotFound.
	Get(ctx context.Context, sess *Session, field string) (string, error)
	// All returns every stored field for the session.
	All(ctx context.Context, sess *Session) (map[string]string, error)
	// Clear removes all state for the session. Idempotent.
	Clear(ctx context.Context, sess *Session) error
}

// Locker serializes interactions for a single user across the chat and
// webhook request paths.
type Locker interface {
	// Acquire takes the per-user lock or returns ErrSessionBusy.
	Acquire(ctx context.Context, userID string) error
	// Release frees the per-user lock.
	Release(ctx context.Context, userID string)
}

// EncodeCriteria serializes a learned step-value whitelist for storage
// under FieldCriteria.
func EncodeCriteria(criteria map[string][]string) (string, error) {
	data, err := json.Marshal(criteria)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeCriteria parses the stored FieldCriteria value.
func DecodeCriteria(raw string) (map[string][]string, error) {
	criteria := make(map[string][]string)
	if raw == "" {
		return criteria, nil
	}
	if err := json.Unmarshal([]byte(raw), &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}
