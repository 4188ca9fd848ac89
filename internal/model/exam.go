package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamAttempt is one user's run through the fixed four-section exam.
type ExamAttempt struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	TotalScore90 *int       `json:"total_score_90,omitempty"`
}

// ExamSection is one timed, single-type block within an attempt.
//
// Lifecycle: Pending (StartedAt nil, Locked false) → Active (StartedAt set,
// Locked false) → Locked (terminal, EndedAt set). At most one section per
// attempt is Active at any instant, and sections activate strictly in
// OrderIndex order. A locked section is never reopened.
type ExamSection struct {
	ID              uuid.UUID    `json:"id"`
	AttemptID       uuid.UUID    `json:"attempt_id"`
	Type            QuestionType `json:"type"`
	OrderIndex      int          `json:"order_index"`
	DurationSeconds int          `json:"duration_seconds"`
	StartedAt       *time.Time   `json:"started_at,omitempty"`
	EndedAt         *time.Time   `json:"ended_at,omitempty"`
	Locked          bool         `json:"locked"`
	ScoreSection    *int         `json:"score_section,omitempty"`
}

// ExamAnswer records one submitted answer within a section. The
// (SectionID, QuestionID) pair is unique; OrderIndex is the count of prior
// answers in the section at submission time.
type ExamAnswer struct {
	ID               uuid.UUID  `json:"id"`
	SectionID        uuid.UUID  `json:"section_id"`
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	AnswerRaw        string     `json:"answer_raw,omitempty"`
	IsCorrect        bool       `json:"is_correct"`
	TimeMs           int        `json:"time_ms"`
	OrderIndex       int        `json:"order_index"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

// SectionInfo is the section skeleton returned at attempt start: no question
// content, just enough for the client to render the exam outline.
type SectionInfo struct {
	SectionID       uuid.UUID    `json:"section_id"`
	Type            QuestionType `json:"type"`
	OrderIndex      int          `json:"order_index"`
	DurationSeconds int          `json:"duration_seconds"`
	Locked          bool         `json:"locked"`
}

// StartExamResponse is returned by the start-attempt operation.
type StartExamResponse struct {
	AttemptID uuid.UUID     `json:"attempt_id"`
	Sections  []SectionInfo `json:"sections"`
}

// CurrentSectionResponse describes the resolved current section, its
// question batch, and which questions the client already answered (so a
// re-fetch is idempotent).
type CurrentSectionResponse struct {
	SectionID            uuid.UUID          `json:"section_id"`
	Type                 QuestionType       `json:"type"`
	OrderIndex           int                `json:"order_index"`
	RemainingTimeSeconds int64              `json:"remaining_time_seconds"`
	Expired              bool               `json:"expired"`
	Questions            []QuestionResponse `json:"questions"`
	AnsweredQuestionIDs  []uuid.UUID        `json:"answered_question_ids"`
}

// SubmitAnswerRequest is the shared answer submission payload for exam and
// practice flows.
type SubmitAnswerRequest struct {
	QuestionID       uuid.UUID  `json:"question_id" binding:"required"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	TextAnswer       string     `json:"text_answer" binding:"max=1000"`
	TimeMs           int        `json:"time_ms" binding:"min=0"`
}

// AnswerResponse reports correctness. Explanation is only populated in
// practice mode; exams never reveal it mid-attempt.
type AnswerResponse struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// SectionScore is a per-section result block in the exam summary.
type SectionScore struct {
	Correct          int     `json:"correct"`
	Total            int     `json:"total"`
	Accuracy         float64 `json:"accuracy"`
	TimeSpentSeconds *int64  `json:"time_spent_seconds,omitempty"`
}

// ExamSummaryResponse is the whole-attempt breakdown returned by finish.
type ExamSummaryResponse struct {
	TotalScore90     int                           `json:"total_score_90"`
	TotalQuestions   int                           `json:"total_questions"`
	CorrectAnswers   int                           `json:"correct_answers"`
	TotalTimeSeconds int64                         `json:"total_time_seconds"`
	Sections         map[QuestionType]SectionScore `json:"sections"`
}
