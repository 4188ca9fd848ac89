package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/tzavrishon/prep-backend/internal/config"
	"github.com/tzavrishon/prep-backend/internal/model"
	"github.com/tzavrishon/prep-backend/internal/sampler"
	"github.com/tzavrishon/prep-backend/internal/scoring"
)

// ExamService owns the timed, ordered section lifecycle of exam attempts.
//
// No background timers run here: section expiry is detected lazily whenever
// an operation touches the attempt, so an expired section may stay Active
// in storage until the next interaction. The guarantee is "locked no later
// than the next touch", not wall-clock accuracy.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	sampler   *sampler.Sampler
	checker   *answerChecker
	cfg       *config.Config
	locks     *attemptLocks
	log       zerolog.Logger

	// now is swapped out in tests to drive expiry.
	now func() time.Time
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, questions QuestionStore, smp *sampler.Sampler, cfg *config.Config, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		sampler:   smp,
		checker:   newAnswerChecker(questions, log),
		cfg:       cfg,
		locks:     newAttemptLocks(),
		log:       log.With().Str("component", "exam_service").Logger(),
		now:       time.Now,
	}
}

// StartAttempt creates an attempt with its four sections in the fixed
// template order, all pending, then activates section 0. The response is a
// section skeleton only; question content is delivered per section by
// GetCurrentSection.
func (s *ExamService) StartAttempt(ctx context.Context, userID uuid.UUID) (*model.StartExamResponse, error) {
	now := s.now()
	attempt := &model.ExamAttempt{ID: uuid.New(), UserID: userID}

	sections := make([]model.ExamSection, len(model.SectionOrder))
	for i, t := range model.SectionOrder {
		sections[i] = model.ExamSection{
			ID:              uuid.New(),
			AttemptID:       attempt.ID,
			Type:            t,
			OrderIndex:      i,
			DurationSeconds: s.cfg.SectionDuration(t),
		}
	}
	sections[0].StartedAt = &now

	if err := s.exams.CreateAttempt(ctx, attempt, sections); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	resp := &model.StartExamResponse{AttemptID: attempt.ID}
	for _, sec := range sections {
		resp.Sections = append(resp.Sections, model.SectionInfo{
			SectionID:       sec.ID,
			Type:            sec.Type,
			OrderIndex:      sec.OrderIndex,
			DurationSeconds: sec.DurationSeconds,
			Locked:          sec.Locked,
		})
	}
	return resp, nil
}

// GetCurrentSection resolves the attempt's current section, applying lazy
// expiry first, and returns it with its question batch, remaining time and
// the already-answered question ids (so client re-fetches are idempotent).
func (s *ExamService) GetCurrentSection(ctx context.Context, attemptID, userID uuid.UUID) (*model.CurrentSectionResponse, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	if _, err := s.ownedAttempt(ctx, attemptID, userID); err != nil {
		return nil, err
	}

	section, err := s.resolveCurrent(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	return s.buildSectionResponse(ctx, section)
}

// SubmitAnswer records one answer against the current section. An expired
// section is lazily locked first, so the submission is evaluated against
// whatever section is actually current. Duplicate and cross-section
// submissions are rejected.
func (s *ExamService) SubmitAnswer(ctx context.Context, attemptID, userID uuid.UUID, req model.SubmitAnswerRequest) (*model.AnswerResponse, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	if _, err := s.ownedAttempt(ctx, attemptID, userID); err != nil {
		return nil, err
	}

	section, err := s.resolveCurrent(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question.Type != section.Type {
		return nil, ErrWrongSection
	}

	answers, err := s.exams.AnswersBySection(ctx, section.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	for _, a := range answers {
		if a.QuestionID == req.QuestionID {
			return nil, ErrDuplicateAnswer
		}
	}

	correct, err := s.checker.Check(ctx, question, req)
	if err != nil {
		return nil, err
	}

	answer := &model.ExamAnswer{
		ID:               uuid.New(),
		SectionID:        section.ID,
		QuestionID:       req.QuestionID,
		SelectedOptionID: req.SelectedOptionID,
		AnswerRaw:        req.TextAnswer,
		IsCorrect:        correct,
		TimeMs:           req.TimeMs,
		OrderIndex:       len(answers),
	}
	if err := s.exams.InsertAnswer(ctx, answer); err != nil {
		// The unique constraint caught a racer that slipped past the list
		// check in another process.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDuplicateAnswer
		}
		return nil, fmt.Errorf("insert answer: %w", err)
	}

	// Exam mode returns correctness only; explanations wait for the summary.
	return &model.AnswerResponse{Correct: correct}, nil
}

// ConfirmFinishSection locks the current section explicitly and activates
// the next pending one, if any.
func (s *ExamService) ConfirmFinishSection(ctx context.Context, attemptID, userID uuid.UUID) error {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	if _, err := s.ownedAttempt(ctx, attemptID, userID); err != nil {
		return err
	}

	section, err := s.resolveCurrent(ctx, attemptID)
	if err != nil {
		return err
	}

	if err := s.lockAndScore(ctx, section); err != nil {
		return err
	}

	// Activate the next pending section immediately so its timer starts at
	// confirmation, not at the user's next fetch.
	sections, err := s.exams.SectionsByAttempt(ctx, attemptID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	for _, next := range sections {
		if !next.Locked && next.ID != section.ID {
			now := s.now()
			if err := s.exams.StartSection(ctx, next.ID, now); err != nil {
				return fmt.Errorf("start section %d: %w", next.OrderIndex, err)
			}
			break
		}
	}
	return nil
}

// FinishExam locks every still-open section, computes the 90-point total
// over all answers, stamps completion and returns the full breakdown.
func (s *ExamService) FinishExam(ctx context.Context, attemptID, userID uuid.UUID) (*model.ExamSummaryResponse, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	attempt, err := s.ownedAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.CompletedAt != nil {
		return nil, ErrAttemptComplete
	}

	now := s.now()
	sections, err := s.exams.SectionsByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	for i := range sections {
		if sections[i].Locked {
			continue
		}
		if err := s.lockAndScore(ctx, &sections[i]); err != nil {
			return nil, err
		}
	}

	allAnswers, err := s.exams.AnswersByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list attempt answers: %w", err)
	}
	correct := 0
	for _, a := range allAnswers {
		if a.IsCorrect {
			correct++
		}
	}
	total := scoring.TotalScore90(correct, len(allAnswers))

	if err := s.exams.CompleteAttempt(ctx, attemptID, total, now); err != nil {
		return nil, fmt.Errorf("complete attempt: %w", err)
	}

	summary := &model.ExamSummaryResponse{
		TotalScore90:     total,
		TotalQuestions:   len(allAnswers),
		CorrectAnswers:   correct,
		TotalTimeSeconds: int64(now.Sub(attempt.CreatedAt).Seconds()),
		Sections:         make(map[model.QuestionType]model.SectionScore),
	}
	for _, sec := range sections {
		answers, err := s.exams.AnswersBySection(ctx, sec.ID)
		if err != nil {
			return nil, fmt.Errorf("list section answers: %w", err)
		}
		flags := make([]bool, len(answers))
		for i, a := range answers {
			flags[i] = a.IsCorrect
		}
		res := scoring.Section(flags, sec.StartedAt, sec.EndedAt)
		summary.Sections[sec.Type] = model.SectionScore{
			Correct:          res.Correct,
			Total:            res.Total,
			Accuracy:         res.Accuracy,
			TimeSpentSeconds: res.TimeSpentSeconds,
		}
	}
	return summary, nil
}

// ListAttempts returns a user's attempt history for the progress view.
func (s *ExamService) ListAttempts(ctx context.Context, userID uuid.UUID) ([]model.ExamAttempt, error) {
	return s.exams.ListAttemptsByUser(ctx, userID)
}

// resolveCurrent is the single place the lazy-expiry rule lives. It walks
// sections in order, skipping locked ones; an Active section past its
// duration is locked and scored in place, then resolution continues. The
// first unlocked section found is activated if still pending. The caller
// must hold the attempt lock.
func (s *ExamService) resolveCurrent(ctx context.Context, attemptID uuid.UUID) (*model.ExamSection, error) {
	sections, err := s.exams.SectionsByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	for i := range sections {
		sec := &sections[i]
		if sec.Locked {
			continue
		}

		now := s.now()
		if sec.StartedAt == nil {
			if err := s.exams.StartSection(ctx, sec.ID, now); err != nil {
				return nil, fmt.Errorf("start section %d: %w", sec.OrderIndex, err)
			}
			sec.StartedAt = &now
			return sec, nil
		}

		elapsed := now.Sub(*sec.StartedAt)
		if elapsed >= time.Duration(sec.DurationSeconds)*time.Second {
			if err := s.lockAndScore(ctx, sec); err != nil {
				return nil, err
			}
			s.log.Debug().
				Str("attempt_id", attemptID.String()).
				Int("order_index", sec.OrderIndex).
				Msg("section expired, locked lazily")
			continue
		}
		return sec, nil
	}

	return nil, ErrAttemptComplete
}

// lockAndScore makes a section terminal and records its correct count.
// Idempotent at the storage layer: a locked section stays locked.
func (s *ExamService) lockAndScore(ctx context.Context, sec *model.ExamSection) error {
	answers, err := s.exams.AnswersBySection(ctx, sec.ID)
	if err != nil {
		return fmt.Errorf("score section %d: %w", sec.OrderIndex, err)
	}
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}

	now := s.now()
	if err := s.exams.LockSection(ctx, sec.ID, now, correct); err != nil {
		return fmt.Errorf("lock section %d: %w", sec.OrderIndex, err)
	}
	sec.Locked = true
	sec.EndedAt = &now
	sec.ScoreSection = &correct
	return nil
}

func (s *ExamService) buildSectionResponse(ctx context.Context, sec *model.ExamSection) (*model.CurrentSectionResponse, error) {
	resp := &model.CurrentSectionResponse{
		SectionID:  sec.ID,
		Type:       sec.Type,
		OrderIndex: sec.OrderIndex,
	}

	if sec.StartedAt != nil {
		remaining := int64(sec.DurationSeconds) - int64(s.now().Sub(*sec.StartedAt).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingTimeSeconds = remaining
		resp.Expired = remaining <= 0
	} else {
		resp.RemainingTimeSeconds = int64(sec.DurationSeconds)
	}

	// Exam sampling never excludes: the batch is redrawn per fetch and the
	// answered-ids list lets the client reconcile.
	questions, err := s.sampler.Sample(ctx, sec.Type, sampler.PoolExam, nil, s.cfg.SectionQuestionCount(sec.Type))
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		options, err := s.questions.OptionsByQuestion(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("load options: %w", err)
		}
		resp.Questions = append(resp.Questions, model.PublicQuestion(q, options))
	}

	answers, err := s.exams.AnswersBySection(ctx, sec.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	resp.AnsweredQuestionIDs = make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		resp.AnsweredQuestionIDs = append(resp.AnsweredQuestionIDs, a.QuestionID)
	}
	return resp, nil
}

// ownedAttempt fetches the attempt and enforces ownership.
func (s *ExamService) ownedAttempt(ctx context.Context, attemptID, userID uuid.UUID) (*model.ExamAttempt, error) {
	attempt, err := s.exams.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, ErrNotOwner
	}
	return attempt, nil
}
