package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzavrishon/prep-backend/internal/model"
)

type fakeCounter struct {
	starts    []time.Time
	lastSince time.Time
}

func (f *fakeCounter) CountGuestSessionsSince(_ context.Context, _ uuid.UUID, _ model.QuestionType, since time.Time) (int, error) {
	f.lastSince = since
	n := 0
	for _, s := range f.starts {
		if s.After(since) {
			n++
		}
	}
	return n, nil
}

func TestAllowUnderLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	counter := &fakeCounter{starts: []time.Time{now.Add(-time.Hour), now.Add(-2 * time.Hour)}}
	limiter := NewGuestLimiter(counter, 3)

	ok, err := limiter.Allow(context.Background(), uuid.New(), model.QuestionTypeQuantitative, now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, now.Add(-24*time.Hour), counter.lastSince, "trailing 24h window")
}

func TestDenyAtLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	counter := &fakeCounter{starts: []time.Time{
		now.Add(-time.Hour), now.Add(-4 * time.Hour), now.Add(-23 * time.Hour),
	}}
	limiter := NewGuestLimiter(counter, 3)

	ok, err := limiter.Allow(context.Background(), uuid.New(), model.QuestionTypeQuantitative, now)
	require.NoError(t, err)
	assert.False(t, ok, "count == limit denies")
}

func TestOldSessionsAgeOut(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	counter := &fakeCounter{starts: []time.Time{
		now.Add(-time.Hour), now.Add(-25 * time.Hour), now.Add(-48 * time.Hour),
	}}
	limiter := NewGuestLimiter(counter, 2)

	ok, err := limiter.Allow(context.Background(), uuid.New(), model.QuestionTypeVerbalAnalogy, now)
	require.NoError(t, err)
	assert.True(t, ok, "sessions older than the window do not count")
}
