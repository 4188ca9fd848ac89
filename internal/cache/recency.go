// Package cache holds the Redis-backed hot-path caches. Postgres stays the
// source of truth everywhere; a cold or broken cache degrades to DB reads.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// recencyTTL bounds how long an idle identity's recency list survives.
// Matches the age-based pruning of the durable log, which is the authority.
const recencyTTL = 7 * 24 * time.Hour

// Recency caches each identity's recently served practice question ids as a
// capped Redis list, newest first. Implements service.RecencyCache.
type Recency struct {
	rdb *redis.Client
}

// NewRecency creates a Recency cache over the given client.
func NewRecency(rdb *redis.Client) *Recency {
	return &Recency{rdb: rdb}
}

// Recent returns up to limit recent question ids, or nil on a cache miss.
// Unparseable entries are skipped rather than failing the read.
func (c *Recency) Recent(ctx context.Context, identity model.Identity, t model.QuestionType, limit int) ([]uuid.UUID, error) {
	raw, err := c.rdb.LRange(ctx, key(identity, t), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Push prepends one question id and trims the list to max entries.
func (c *Recency) Push(ctx context.Context, identity model.Identity, t model.QuestionType, questionID uuid.UUID, max int) error {
	k := key(identity, t)
	pipe := c.rdb.Pipeline()
	pipe.LPush(ctx, k, questionID.String())
	pipe.LTrim(ctx, k, 0, int64(max)-1)
	pipe.Expire(ctx, k, recencyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Fill replaces the list with ids (newest first), healing a cold cache
// from the durable log.
func (c *Recency) Fill(ctx context.Context, identity model.Identity, t model.QuestionType, ids []uuid.UUID) error {
	k := key(identity, t)
	values := make([]interface{}, len(ids))
	// RPUSH keeps the newest-first order of the input.
	for i, id := range ids {
		values[i] = id.String()
	}

	pipe := c.rdb.Pipeline()
	pipe.Del(ctx, k)
	pipe.RPush(ctx, k, values...)
	pipe.Expire(ctx, k, recencyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func key(identity model.Identity, t model.QuestionType) string {
	if identity.IsRegistered() {
		return fmt.Sprintf("recent:user:%s:%s", identity.UserID, t)
	}
	return fmt.Sprintf("recent:guest:%s:%s", identity.GuestID, t)
}
