package model

import (
	"time"

	"github.com/google/uuid"
)

// PracticeSession is an untimed single-type drill. Exactly one of UserID and
// GuestID is set (enforced by a CHECK constraint in the schema).
type PracticeSession struct {
	ID        uuid.UUID    `json:"id"`
	UserID    *uuid.UUID   `json:"user_id,omitempty"`
	GuestID   *uuid.UUID   `json:"guest_id,omitempty"`
	Type      QuestionType `json:"type"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
}

// PracticeAnswer mirrors ExamAnswer without the section reference or order
// index; practice answers are unordered.
type PracticeAnswer struct {
	ID               uuid.UUID  `json:"id"`
	SessionID        uuid.UUID  `json:"session_id"`
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	AnswerRaw        string     `json:"answer_raw,omitempty"`
	IsCorrect        bool       `json:"is_correct"`
	TimeMs           int        `json:"time_ms"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

// GuestIdentity is an anonymous identity token; it keys rate limiting and
// recency exclusion and carries no PII.
type GuestIdentity struct {
	GuestID    uuid.UUID `json:"guest_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// RecentQuestion is one append-only recency log entry. Entries are pruned by
// age from outside the engine, never mutated by it.
type RecentQuestion struct {
	ID         uuid.UUID    `json:"id"`
	UserID     *uuid.UUID   `json:"user_id,omitempty"`
	GuestID    *uuid.UUID   `json:"guest_id,omitempty"`
	QuestionID uuid.UUID    `json:"question_id"`
	Type       QuestionType `json:"type"`
	ServedAt   time.Time    `json:"served_at"`
}

// StartPracticeRequest is the payload for starting a practice session.
type StartPracticeRequest struct {
	Type string `json:"type" binding:"required,oneof=VERBAL_ANALOGY SHAPE_ANALOGY INSTRUCTIONS_DIRECTIONS QUANTITATIVE"`
}

// PracticeSessionResponse is returned by start-session. When a guest hit
// their daily limit no session is created and LimitReached is true.
type PracticeSessionResponse struct {
	SessionID          *uuid.UUID `json:"session_id,omitempty"`
	Type               string     `json:"type"`
	LimitReached       bool       `json:"limit_reached"`
	QuestionsAvailable int        `json:"questions_available"`
}

// PracticeSummaryResponse is returned when a session is finished.
type PracticeSummaryResponse struct {
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
	TotalTimeMs    int     `json:"total_time_ms"`
}
