package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// PracticeRepository handles practice session, answer and recency-log data
// access. It implements ratelimit.SessionCounter.
type PracticeRepository struct {
	pool *pgxpool.Pool
}

// NewPracticeRepository creates a new PracticeRepository.
func NewPracticeRepository(pool *pgxpool.Pool) *PracticeRepository {
	return &PracticeRepository{pool: pool}
}

// CreateSession inserts a practice session for a user or a guest.
func (r *PracticeRepository) CreateSession(ctx context.Context, s *model.PracticeSession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO practice_sessions (id, user_id, guest_id, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING started_at`,
		s.ID, s.UserID, s.GuestID, s.Type,
	).Scan(&s.StartedAt)
}

// GetSession retrieves a practice session by id.
func (r *PracticeRepository) GetSession(ctx context.Context, id uuid.UUID) (*model.PracticeSession, error) {
	s := &model.PracticeSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, guest_id, type, started_at, ended_at
		 FROM practice_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.GuestID, &s.Type, &s.StartedAt, &s.EndedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FinishSession stamps the session's end time once; later calls are no-ops.
func (r *PracticeRepository) FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE practice_sessions SET ended_at = $1 WHERE id = $2 AND ended_at IS NULL`,
		endedAt, id)
	return err
}

// CountGuestSessionsSince counts a guest's sessions of one type started
// after the given instant. Feeds the guest rate limiter.
func (r *PracticeRepository) CountGuestSessionsSince(ctx context.Context, guestID uuid.UUID, t model.QuestionType, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM practice_sessions
		 WHERE guest_id = $1 AND type = $2 AND started_at > $3`,
		guestID, t, since,
	).Scan(&count)
	return count, err
}

// InsertAnswer writes one practice answer.
func (r *PracticeRepository) InsertAnswer(ctx context.Context, a *model.PracticeAnswer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO practice_answers (id, session_id, question_id, selected_option_id, answer_raw, is_correct, time_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING answered_at`,
		a.ID, a.SessionID, a.QuestionID, a.SelectedOptionID, a.AnswerRaw, a.IsCorrect, a.TimeMs,
	).Scan(&a.AnsweredAt)
}

// AnswersBySession retrieves a session's answers in submission order.
func (r *PracticeRepository) AnswersBySession(ctx context.Context, sessionID uuid.UUID) ([]model.PracticeAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, question_id, selected_option_id, answer_raw, is_correct, time_ms, answered_at
		 FROM practice_answers
		 WHERE session_id = $1
		 ORDER BY answered_at`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.PracticeAnswer
	for rows.Next() {
		var a model.PracticeAnswer
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.SelectedOptionID,
			&a.AnswerRaw, &a.IsCorrect, &a.TimeMs, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// AppendRecent appends one recency-log entry. The log is append-only from
// the engine's side; pruning by age is an external maintenance task.
func (r *PracticeRepository) AppendRecent(ctx context.Context, rec *model.RecentQuestion) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recent_questions (id, user_id, guest_id, question_id, type)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.UserID, rec.GuestID, rec.QuestionID, rec.Type)
	return err
}

// RecentQuestionIDs returns the identity's most recently served question ids
// for a type, newest first, capped at limit. The result becomes the
// sampler's exclude set.
func (r *PracticeRepository) RecentQuestionIDs(ctx context.Context, identity model.Identity, t model.QuestionType, limit int) ([]uuid.UUID, error) {
	query := `SELECT question_id FROM recent_questions
	          WHERE user_id = $1 AND type = $2
	          ORDER BY served_at DESC
	          LIMIT $3`
	key := identity.UserID
	if !identity.IsRegistered() {
		query = `SELECT question_id FROM recent_questions
		         WHERE guest_id = $1 AND type = $2
		         ORDER BY served_at DESC
		         LIMIT $3`
		key = identity.GuestID
	}

	rows, err := r.pool.Query(ctx, query, key, t, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TypeStatsByUser aggregates a registered user's practice accuracy per
// question type.
func (r *PracticeRepository) TypeStatsByUser(ctx context.Context, userID uuid.UUID) ([]model.TypeStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.type, COUNT(a.id), COUNT(a.id) FILTER (WHERE a.is_correct)
		 FROM practice_answers a
		 JOIN practice_sessions s ON a.session_id = s.id
		 WHERE s.user_id = $1
		 GROUP BY s.type
		 ORDER BY s.type`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.TypeStats
	for rows.Next() {
		var st model.TypeStats
		if err := rows.Scan(&st.Type, &st.Answered, &st.Correct); err != nil {
			return nil, err
		}
		if st.Answered > 0 {
			st.Accuracy = 100 * float64(st.Correct) / float64(st.Answered)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
