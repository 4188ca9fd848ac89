package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// ExamRepository handles exam attempt, section and answer data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const sectionColumns = `id, attempt_id, type, order_index, duration_seconds, started_at, ended_at, locked, score_section`

// CreateAttempt inserts an attempt and its four sections in one
// transaction, so a half-created attempt can never be observed.
func (r *ExamRepository) CreateAttempt(ctx context.Context, attempt *model.ExamAttempt, sections []model.ExamSection) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exam_attempts (id, user_id) VALUES ($1, $2) RETURNING created_at`,
		attempt.ID, attempt.UserID,
	).Scan(&attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	for i := range sections {
		s := &sections[i]
		_, err = tx.Exec(ctx,
			`INSERT INTO exam_sections (id, attempt_id, type, order_index, duration_seconds, started_at, locked)
			 VALUES ($1, $2, $3, $4, $5, $6, false)`,
			s.ID, s.AttemptID, s.Type, s.OrderIndex, s.DurationSeconds, s.StartedAt,
		)
		if err != nil {
			return fmt.Errorf("insert section %d: %w", s.OrderIndex, err)
		}
	}

	return tx.Commit(ctx)
}

// GetAttempt retrieves an attempt by id.
func (r *ExamRepository) GetAttempt(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, completed_at, total_score_90
		 FROM exam_attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.CreatedAt, &a.CompletedAt, &a.TotalScore90)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttemptsByUser retrieves a user's attempts, newest first.
func (r *ExamRepository) ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.ExamAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, created_at, completed_at, total_score_90
		 FROM exam_attempts
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.ExamAttempt
	for rows.Next() {
		var a model.ExamAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.CreatedAt, &a.CompletedAt, &a.TotalScore90); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CompleteAttempt stamps completion and the 90-point total.
func (r *ExamRepository) CompleteAttempt(ctx context.Context, attemptID uuid.UUID, totalScore90 int, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_attempts SET completed_at = $1, total_score_90 = $2 WHERE id = $3`,
		completedAt, totalScore90, attemptID)
	return err
}

// SectionsByAttempt retrieves all sections of an attempt in order.
func (r *ExamRepository) SectionsByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ExamSection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sectionColumns+`
		 FROM exam_sections
		 WHERE attempt_id = $1
		 ORDER BY order_index`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.ExamSection
	for rows.Next() {
		var s model.ExamSection
		if err := rows.Scan(&s.ID, &s.AttemptID, &s.Type, &s.OrderIndex, &s.DurationSeconds,
			&s.StartedAt, &s.EndedAt, &s.Locked, &s.ScoreSection); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// StartSection records activation of a pending section. The locked guard
// keeps a lazily expired racer from reopening a section it just locked.
func (r *ExamRepository) StartSection(ctx context.Context, sectionID uuid.UUID, startedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sections
		 SET started_at = $1
		 WHERE id = $2 AND started_at IS NULL AND NOT locked`,
		startedAt, sectionID)
	return err
}

// LockSection marks a section terminal with its end time and score. The
// NOT locked guard makes a double lock a no-op rather than a rescore.
func (r *ExamRepository) LockSection(ctx context.Context, sectionID uuid.UUID, endedAt time.Time, score int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sections
		 SET locked = true, ended_at = $1, score_section = $2
		 WHERE id = $3 AND NOT locked`,
		endedAt, score, sectionID)
	return err
}

// AnswersBySection retrieves a section's answers in submission order.
func (r *ExamRepository) AnswersBySection(ctx context.Context, sectionID uuid.UUID) ([]model.ExamAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, section_id, question_id, selected_option_id, answer_raw, is_correct, time_ms, order_index, answered_at
		 FROM exam_answers
		 WHERE section_id = $1
		 ORDER BY order_index`, sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExamAnswers(rows)
}

// AnswersByAttempt retrieves every answer of an attempt, grouped by section
// order then submission order.
func (r *ExamRepository) AnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ExamAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.section_id, a.question_id, a.selected_option_id, a.answer_raw, a.is_correct, a.time_ms, a.order_index, a.answered_at
		 FROM exam_answers a
		 JOIN exam_sections s ON a.section_id = s.id
		 WHERE s.attempt_id = $1
		 ORDER BY s.order_index, a.order_index`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExamAnswers(rows)
}

// InsertAnswer writes one answer. The (section_id, question_id) unique
// constraint plus ON CONFLICT DO NOTHING means a racing duplicate gets
// pgx.ErrNoRows back instead of a second row; callers map that to the
// duplicate-answer condition.
func (r *ExamRepository) InsertAnswer(ctx context.Context, a *model.ExamAnswer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_answers (id, section_id, question_id, selected_option_id, answer_raw, is_correct, time_ms, order_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (section_id, question_id) DO NOTHING
		 RETURNING answered_at`,
		a.ID, a.SectionID, a.QuestionID, a.SelectedOptionID, a.AnswerRaw, a.IsCorrect, a.TimeMs, a.OrderIndex,
	).Scan(&a.AnsweredAt)
}

func scanExamAnswers(rows pgx.Rows) ([]model.ExamAnswer, error) {
	var answers []model.ExamAnswer
	for rows.Next() {
		var a model.ExamAnswer
		if err := rows.Scan(&a.ID, &a.SectionID, &a.QuestionID, &a.SelectedOptionID,
			&a.AnswerRaw, &a.IsCorrect, &a.TimeMs, &a.OrderIndex, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
