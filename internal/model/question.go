package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the four psychometric question categories.
// The exam template always runs its sections in this order.
type QuestionType string

const (
	QuestionTypeVerbalAnalogy          QuestionType = "VERBAL_ANALOGY"
	QuestionTypeShapeAnalogy           QuestionType = "SHAPE_ANALOGY"
	QuestionTypeInstructionsDirections QuestionType = "INSTRUCTIONS_DIRECTIONS"
	QuestionTypeQuantitative           QuestionType = "QUANTITATIVE"
)

// SectionOrder is the fixed section order of an exam attempt.
var SectionOrder = [4]QuestionType{
	QuestionTypeVerbalAnalogy,
	QuestionTypeShapeAnalogy,
	QuestionTypeInstructionsDirections,
	QuestionTypeQuantitative,
}

// ParseQuestionType validates a raw string against the known types.
func ParseQuestionType(raw string) (QuestionType, bool) {
	t := QuestionType(raw)
	switch t {
	case QuestionTypeVerbalAnalogy, QuestionTypeShapeAnalogy,
		QuestionTypeInstructionsDirections, QuestionTypeQuantitative:
		return t, true
	}
	return "", false
}

// QuestionFormat distinguishes how a question is answered.
type QuestionFormat string

const (
	FormatSingleChoiceImage QuestionFormat = "SINGLE_CHOICE_IMAGE"
	FormatFreeText          QuestionFormat = "FREE_TEXT"
)

// Question is an immutable content record. Exactly one option is flagged
// correct by data contract; the engine tolerates violations (see service
// layer) because content import may lag cleanup.
type Question struct {
	ID             uuid.UUID      `json:"id"`
	Type           QuestionType   `json:"type"`
	Format         QuestionFormat `json:"format"`
	PromptText     string         `json:"prompt_text,omitempty"`
	PromptImageURL string         `json:"prompt_image_url,omitempty"`
	Explanation    string         `json:"explanation,omitempty"`
	IsExamQuestion bool           `json:"-"`
	CreatedAt      time.Time      `json:"-"`
}

// QuestionOption is one ordered choice of a question.
type QuestionOption struct {
	ID          uuid.UUID `json:"id"`
	QuestionID  uuid.UUID `json:"-"`
	Text        string    `json:"text,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	OptionOrder int       `json:"option_order"`
	IsCorrect   bool      `json:"-"`
}

// AcceptableAnswer is an accepted free-text or numeric answer for a
// non-multiple-choice question. Tolerance is a decimal string; empty means
// exact match.
type AcceptableAnswer struct {
	ID         uuid.UUID
	QuestionID uuid.UUID
	AnswerText string
	Tolerance  string
}

// QuestionResponse is the client-facing question shape. Option correctness
// flags and acceptable answers are never serialized to clients.
type QuestionResponse struct {
	ID             uuid.UUID              `json:"id"`
	Type           QuestionType           `json:"type"`
	Format         QuestionFormat         `json:"format"`
	PromptText     string                 `json:"prompt_text,omitempty"`
	PromptImageURL string                 `json:"prompt_image_url,omitempty"`
	Options        []QuestionOptionPublic `json:"options,omitempty"`
}

// QuestionOptionPublic is an option stripped of its correctness flag.
type QuestionOptionPublic struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	OptionOrder int       `json:"option_order"`
}

// PublicQuestion maps a question and its ordered options to the client shape.
func PublicQuestion(q Question, options []QuestionOption) QuestionResponse {
	resp := QuestionResponse{
		ID:             q.ID,
		Type:           q.Type,
		Format:         q.Format,
		PromptText:     q.PromptText,
		PromptImageURL: q.PromptImageURL,
	}
	for _, opt := range options {
		resp.Options = append(resp.Options, QuestionOptionPublic{
			ID:          opt.ID,
			Text:        opt.Text,
			ImageURL:    opt.ImageURL,
			OptionOrder: opt.OptionOrder,
		})
	}
	return resp
}
