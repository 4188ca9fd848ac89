package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// ProgressService aggregates a registered user's exam history and practice
// accuracy for the progress view.
type ProgressService struct {
	exams    ExamStore
	practice PracticeStore
}

// NewProgressService creates a new ProgressService.
func NewProgressService(exams ExamStore, practice PracticeStore) *ProgressService {
	return &ProgressService{exams: exams, practice: practice}
}

// Summary builds the whole progress overview in one call.
func (s *ProgressService) Summary(ctx context.Context, userID uuid.UUID) (*model.ProgressSummaryResponse, error) {
	attempts, err := s.exams.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	stats, err := s.practice.TypeStatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("practice stats: %w", err)
	}

	resp := &model.ProgressSummaryResponse{
		Attempts:      make([]model.AttemptSummary, 0, len(attempts)),
		PracticeStats: stats,
	}
	for _, a := range attempts {
		resp.Attempts = append(resp.Attempts, model.AttemptSummary{
			AttemptID:    a.ID,
			CreatedAt:    a.CreatedAt,
			CompletedAt:  a.CompletedAt,
			TotalScore90: a.TotalScore90,
		})
	}
	for _, st := range stats {
		resp.TotalAnswered += st.Answered
		resp.TotalCorrect += st.Correct
	}
	return resp, nil
}
