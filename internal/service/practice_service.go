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
	"github.com/tzavrishon/prep-backend/internal/ratelimit"
	"github.com/tzavrishon/prep-backend/internal/sampler"
	"github.com/tzavrishon/prep-backend/internal/scoring"
)

// registeredBatchSize is the practice batch size for registered users.
// Guests get their remaining daily allowance instead.
const registeredBatchSize = 10

// PracticeService handles untimed single-type drills for registered users
// and rate-limited guests.
type PracticeService struct {
	practice PracticeStore
	guests   GuestStore
	sampler  *sampler.Sampler
	checker  *answerChecker
	limiter  *ratelimit.GuestLimiter
	recency  RecencyCache
	cfg      *config.Config
	log      zerolog.Logger

	now func() time.Time
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(practice PracticeStore, guests GuestStore, questions QuestionStore, smp *sampler.Sampler, limiter *ratelimit.GuestLimiter, recency RecencyCache, cfg *config.Config, log zerolog.Logger) *PracticeService {
	return &PracticeService{
		practice: practice,
		guests:   guests,
		sampler:  smp,
		checker:  newAnswerChecker(questions, log),
		limiter:  limiter,
		recency:  recency,
		cfg:      cfg,
		log:      log.With().Str("component", "practice_service").Logger(),
		now:      time.Now,
	}
}

// StartSession opens a practice session for the identity. Guests are
// checked against the per-type daily limit; hitting it returns a
// limit-reached response without creating a session. The check and the
// create are not atomic; a soft limit, see the ratelimit package.
func (s *PracticeService) StartSession(ctx context.Context, identity model.Identity, t model.QuestionType) (*model.PracticeSessionResponse, error) {
	session := &model.PracticeSession{ID: uuid.New(), Type: t}
	available := registeredBatchSize

	if identity.IsRegistered() {
		session.UserID = identity.UserID
	} else {
		if _, err := s.guests.FindOrCreate(ctx, *identity.GuestID); err != nil {
			return nil, fmt.Errorf("resolve guest: %w", err)
		}

		allowed, err := s.limiter.Allow(ctx, *identity.GuestID, t, s.now())
		if err != nil {
			return nil, err
		}
		if !allowed {
			return &model.PracticeSessionResponse{
				Type:         string(t),
				LimitReached: true,
			}, nil
		}
		session.GuestID = identity.GuestID
		available = s.limiter.Limit()
	}

	if err := s.practice.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &model.PracticeSessionResponse{
		SessionID:          &session.ID,
		Type:               string(t),
		QuestionsAvailable: available,
	}, nil
}

// GetQuestions samples a practice batch for the session, excluding the
// identity's most recently served question ids (capped at the configured
// cache size). When exclusion would empty the pool, the sampler falls back
// to repetition.
func (s *PracticeService) GetQuestions(ctx context.Context, sessionID uuid.UUID, identity model.Identity) ([]model.QuestionResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, identity)
	if err != nil {
		return nil, err
	}

	exclude, err := s.recentExcludeSet(ctx, identity, session.Type)
	if err != nil {
		// The cache and log are an optimization; sampling proceeds
		// unfiltered rather than failing the fetch.
		s.log.Warn().Err(err).Msg("recency lookup failed, sampling unfiltered")
		exclude = nil
	}

	count := registeredBatchSize
	if !identity.IsRegistered() {
		count = s.limiter.Limit()
	}

	questions, err := s.sampler.Sample(ctx, session.Type, sampler.PoolPractice, exclude, count)
	if err != nil {
		return nil, err
	}

	responses := make([]model.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		options, err := s.checker.questions.OptionsByQuestion(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("load options: %w", err)
		}
		s.checker.reportIntegrity(&q, options)
		responses = append(responses, model.PublicQuestion(q, options))
	}
	return responses, nil
}

// SubmitAnswer validates and records one practice answer, appends the
// question to the recency log and returns correctness with the
// explanation. Practice mode returns explanations immediately.
func (s *PracticeService) SubmitAnswer(ctx context.Context, sessionID uuid.UUID, identity model.Identity, req model.SubmitAnswerRequest) (*model.AnswerResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, identity)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, ErrSessionFinished
	}

	question, err := s.checker.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question.Type != session.Type {
		return nil, ErrTypeMismatch
	}

	correct, err := s.checker.Check(ctx, question, req)
	if err != nil {
		return nil, err
	}

	answer := &model.PracticeAnswer{
		ID:               uuid.New(),
		SessionID:        session.ID,
		QuestionID:       question.ID,
		SelectedOptionID: req.SelectedOptionID,
		AnswerRaw:        req.TextAnswer,
		IsCorrect:        correct,
		TimeMs:           req.TimeMs,
	}
	if err := s.practice.InsertAnswer(ctx, answer); err != nil {
		return nil, fmt.Errorf("insert answer: %w", err)
	}

	s.trackRecent(ctx, identity, question)

	return &model.AnswerResponse{
		Correct:     correct,
		Explanation: question.Explanation,
	}, nil
}

// FinishSession closes the session exactly once and returns its summary.
func (s *PracticeService) FinishSession(ctx context.Context, sessionID uuid.UUID, identity model.Identity) (*model.PracticeSummaryResponse, error) {
	session, err := s.ownedSession(ctx, sessionID, identity)
	if err != nil {
		return nil, err
	}

	if err := s.practice.FinishSession(ctx, session.ID, s.now()); err != nil {
		return nil, fmt.Errorf("finish session: %w", err)
	}

	answers, err := s.practice.AnswersBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	correct, totalMs := 0, 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
		totalMs += a.TimeMs
	}
	return &model.PracticeSummaryResponse{
		TotalQuestions: len(answers),
		CorrectAnswers: correct,
		Accuracy:       scoring.Accuracy(correct, len(answers)),
		TotalTimeMs:    totalMs,
	}, nil
}

// recentExcludeSet reads the identity's recent question ids, cache first
// with a fallback to the durable log. A log hit repopulates the cache so
// the next fetch is cheap.
func (s *PracticeService) recentExcludeSet(ctx context.Context, identity model.Identity, t model.QuestionType) ([]uuid.UUID, error) {
	size := s.cfg.RecentQuestionsCacheSize

	ids, err := s.recency.Recent(ctx, identity, t, size)
	if err != nil {
		return nil, fmt.Errorf("recency cache: %w", err)
	}
	if ids != nil {
		return ids, nil
	}

	ids, err = s.practice.RecentQuestionIDs(ctx, identity, t, size)
	if err != nil {
		return nil, fmt.Errorf("recency log: %w", err)
	}
	if len(ids) > 0 {
		if err := s.recency.Fill(ctx, identity, t, ids); err != nil {
			s.log.Warn().Err(err).Msg("recency cache fill failed")
		}
	}
	return ids, nil
}

// trackRecent appends to the durable log and the cache. Failures are
// logged, never surfaced: recency is a preference, not a correctness
// property of the answer flow.
func (s *PracticeService) trackRecent(ctx context.Context, identity model.Identity, question *model.Question) {
	rec := &model.RecentQuestion{
		ID:         uuid.New(),
		UserID:     identity.UserID,
		GuestID:    identity.GuestID,
		QuestionID: question.ID,
		Type:       question.Type,
	}
	if err := s.practice.AppendRecent(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("question_id", question.ID.String()).Msg("recency log append failed")
	}
	if err := s.recency.Push(ctx, identity, question.Type, question.ID, s.cfg.RecentQuestionsCacheSize); err != nil {
		s.log.Warn().Err(err).Msg("recency cache push failed")
	}
}

// ownedSession fetches a session and enforces that it belongs to the
// calling identity (user XOR guest).
func (s *PracticeService) ownedSession(ctx context.Context, sessionID uuid.UUID, identity model.Identity) (*model.PracticeSession, error) {
	session, err := s.practice.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	switch {
	case session.UserID != nil && identity.UserID != nil && *session.UserID == *identity.UserID:
	case session.GuestID != nil && identity.GuestID != nil && *session.GuestID == *identity.GuestID:
	default:
		return nil, ErrNotOwner
	}
	return session, nil
}
