package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tzavrishon/prep-backend/internal/matcher"
	"github.com/tzavrishon/prep-backend/internal/model"
)

// answerChecker resolves correctness for a submitted answer. The same logic
// backs exams and practice.
type answerChecker struct {
	questions QuestionStore
	log       zerolog.Logger
}

func newAnswerChecker(questions QuestionStore, log zerolog.Logger) *answerChecker {
	return &answerChecker{questions: questions, log: log}
}

// Check evaluates a submission against a question. When a selected option id
// is present correctness is purely "is that the option flagged correct";
// text/numeric matching is never consulted. Otherwise the raw text is
// compared against each acceptable answer, numerically when both sides
// parse as numbers, textually when not.
func (c *answerChecker) Check(ctx context.Context, question *model.Question, req model.SubmitAnswerRequest) (bool, error) {
	if req.SelectedOptionID != nil {
		options, err := c.questions.OptionsByQuestion(ctx, question.ID)
		if err != nil {
			return false, fmt.Errorf("load options: %w", err)
		}
		c.reportIntegrity(question, options)

		for _, opt := range options {
			if opt.ID == *req.SelectedOptionID {
				return opt.IsCorrect, nil
			}
		}
		// Unknown option id for this question: wrong, not an error.
		return false, nil
	}

	if req.TextAnswer == "" {
		return false, nil
	}

	acceptable, err := c.questions.AcceptableAnswersByQuestion(ctx, question.ID)
	if err != nil {
		return false, fmt.Errorf("load acceptable answers: %w", err)
	}

	for _, a := range acceptable {
		if c.matchesAcceptable(a, req.TextAnswer) {
			return true, nil
		}
	}
	return false, nil
}

// matchesAcceptable tries a numeric comparison first; a parse failure on
// either side is not an error, it just means "compare as text".
func (c *answerChecker) matchesAcceptable(a model.AcceptableAnswer, candidate string) bool {
	expected, expOK := matcher.ParseNumeric(a.AnswerText)
	got, gotOK := matcher.ParseNumeric(candidate)
	if expOK && gotOK {
		tolerance := decimal.Zero
		if a.Tolerance != "" {
			if d, err := decimal.NewFromString(a.Tolerance); err == nil {
				tolerance = d
			}
		}
		return matcher.NumericMatches(expected, got, tolerance)
	}
	return matcher.Matches(a.AnswerText, candidate)
}

// reportIntegrity flags questions whose option set violates the
// exactly-one-correct contract. Content import may lag cleanup, so this is
// a diagnostic for operators; scoring proceeds on the flags as stored and
// the user flow is never blocked.
func (c *answerChecker) reportIntegrity(question *model.Question, options []model.QuestionOption) {
	if question.Format != model.FormatSingleChoiceImage {
		return
	}
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		c.log.Warn().
			Str("question_id", question.ID.String()).
			Str("type", string(question.Type)).
			Int("correct_options", correct).
			Msg("question violates the single-correct-option contract")
	}
}
