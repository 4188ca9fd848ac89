package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// GuestRepository handles anonymous guest identity records.
type GuestRepository struct {
	pool *pgxpool.Pool
}

// NewGuestRepository creates a new GuestRepository.
func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

// FindOrCreate upserts a guest identity and refreshes last_seen_at. The
// upsert makes concurrent first contacts from the same guest id converge on
// one row.
func (r *GuestRepository) FindOrCreate(ctx context.Context, guestID uuid.UUID) (*model.GuestIdentity, error) {
	g := &model.GuestIdentity{GuestID: guestID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO guest_identities (guest_id)
		 VALUES ($1)
		 ON CONFLICT (guest_id) DO UPDATE SET last_seen_at = now()
		 RETURNING created_at, last_seen_at`,
		guestID,
	).Scan(&g.CreatedAt, &g.LastSeenAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}
