// Package ratelimit bounds how many practice sessions an anonymous guest
// may start per question type in a rolling window. Registered users are
// never consulted here.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// Window is the trailing period a guest's session starts are counted over.
const Window = 24 * time.Hour

// SessionCounter is the storage seam: how many practice sessions the guest
// started for the type since the given instant.
type SessionCounter interface {
	CountGuestSessionsSince(ctx context.Context, guestID uuid.UUID, t model.QuestionType, since time.Time) (int, error)
}

// GuestLimiter checks guest practice limits with a count-then-act pattern.
//
// The check and the subsequent session creation are not atomic: two
// concurrent starts from the same guest can both read "under limit" and
// both create, overshooting by one. The limit is soft: overshoot is
// bounded by the number of racing requests.
type GuestLimiter struct {
	counter SessionCounter
	limit   int
}

// NewGuestLimiter creates a limiter with the configured per-type limit.
func NewGuestLimiter(counter SessionCounter, limit int) *GuestLimiter {
	return &GuestLimiter{counter: counter, limit: limit}
}

// Allow reports whether the guest may start another session of the given
// type right now. The caller creating the session is the consumption; there
// is no separate reservation step.
func (l *GuestLimiter) Allow(ctx context.Context, guestID uuid.UUID, t model.QuestionType, now time.Time) (bool, error) {
	count, err := l.counter.CountGuestSessionsSince(ctx, guestID, t, now.Add(-Window))
	if err != nil {
		return false, fmt.Errorf("count guest sessions: %w", err)
	}
	return count < l.limit, nil
}

// Limit exposes the configured per-type limit for response shaping.
func (l *GuestLimiter) Limit() int { return l.limit }
