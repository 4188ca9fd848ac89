package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptSummary is one row in a user's exam history.
type AttemptSummary struct {
	AttemptID    uuid.UUID  `json:"attempt_id"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	TotalScore90 *int       `json:"total_score_90,omitempty"`
}

// TypeStats aggregates practice performance for one question type.
type TypeStats struct {
	Type     QuestionType `json:"type"`
	Answered int          `json:"answered"`
	Correct  int          `json:"correct"`
	Accuracy float64      `json:"accuracy"`
}

// ProgressSummaryResponse is the registered user's progress overview.
type ProgressSummaryResponse struct {
	Attempts      []AttemptSummary `json:"attempts"`
	PracticeStats []TypeStats      `json:"practice_stats"`
	TotalAnswered int              `json:"total_answered"`
	TotalCorrect  int              `json:"total_correct"`
}
