package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// Storage seams consumed by the services. The repository package provides
// the pgx-backed implementations; tests substitute in-memory fakes. A
// missing row is reported as pgx.ErrNoRows by both.

// QuestionStore serves immutable question content.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	OptionsByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.QuestionOption, error)
	AcceptableAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.AcceptableAnswer, error)
}

// ExamStore persists attempts, sections and exam answers.
type ExamStore interface {
	CreateAttempt(ctx context.Context, attempt *model.ExamAttempt, sections []model.ExamSection) error
	GetAttempt(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error)
	ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.ExamAttempt, error)
	CompleteAttempt(ctx context.Context, attemptID uuid.UUID, totalScore90 int, completedAt time.Time) error
	SectionsByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ExamSection, error)
	StartSection(ctx context.Context, sectionID uuid.UUID, startedAt time.Time) error
	LockSection(ctx context.Context, sectionID uuid.UUID, endedAt time.Time, score int) error
	AnswersBySection(ctx context.Context, sectionID uuid.UUID) ([]model.ExamAnswer, error)
	AnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ExamAnswer, error)
	InsertAnswer(ctx context.Context, a *model.ExamAnswer) error
}

// PracticeStore persists practice sessions, answers and the recency log.
type PracticeStore interface {
	CreateSession(ctx context.Context, s *model.PracticeSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*model.PracticeSession, error)
	FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time) error
	InsertAnswer(ctx context.Context, a *model.PracticeAnswer) error
	AnswersBySession(ctx context.Context, sessionID uuid.UUID) ([]model.PracticeAnswer, error)
	AppendRecent(ctx context.Context, rec *model.RecentQuestion) error
	RecentQuestionIDs(ctx context.Context, identity model.Identity, t model.QuestionType, limit int) ([]uuid.UUID, error)
	TypeStatsByUser(ctx context.Context, userID uuid.UUID) ([]model.TypeStats, error)
}

// GuestStore persists anonymous guest identities.
type GuestStore interface {
	FindOrCreate(ctx context.Context, guestID uuid.UUID) (*model.GuestIdentity, error)
}

// UserStore persists registered accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RecencyCache is the hot-path cache in front of the durable recency log.
// Recent returns nil on a miss; the caller falls back to the log and
// repopulates via Fill. Push prepends one id after an answer.
type RecencyCache interface {
	Recent(ctx context.Context, identity model.Identity, t model.QuestionType, limit int) ([]uuid.UUID, error)
	Push(ctx context.Context, identity model.Identity, t model.QuestionType, questionID uuid.UUID, max int) error
	Fill(ctx context.Context, identity model.Identity, t model.QuestionType, ids []uuid.UUID) error
}
