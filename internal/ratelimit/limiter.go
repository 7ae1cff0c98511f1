// Package ratelimit throttles inbound chat traffic per user so a
// misbehaving client cannot monopolize the wizard backend.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Result captures the outcome of a rate-limit evaluation.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether one more turn is allowed for a user.
type Limiter interface {
	Allow(ctx context.Context, userID string) (*Result, error)
}

// ErrLimitExceeded indicates the per-user limit has been reached.
var ErrLimitExceeded = errors.New("rate limit exceeded")
