// Package sampler selects random question batches, preferring to skip
// recently served questions but never returning an empty batch because of
// that preference.
package sampler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// Pool names the two mutually exclusive content pools. Content is tagged
// exam-only or practice-only by import; the sampler never crosses pools.
type Pool string

const (
	PoolExam     Pool = "exam"
	PoolPractice Pool = "practice"
)

// Source is the storage seam the sampler draws from. Implementations must
// return uniform random selections without replacement, up to limit.
type Source interface {
	RandomQuestions(ctx context.Context, t model.QuestionType, pool Pool, limit int) ([]model.Question, error)
	RandomQuestionsExcluding(ctx context.Context, t model.QuestionType, pool Pool, exclude []uuid.UUID, limit int) ([]model.Question, error)
}

// Sampler applies the exclusion-with-fallback policy over a Source.
type Sampler struct {
	src Source
}

// New creates a Sampler over the given source.
func New(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample returns up to count questions of the given type from the given
// pool. A non-empty exclude set is filtered out first; if filtering leaves
// no candidates the sampler falls back to the unfiltered pool, so a small
// question bank repeats instead of starving.
func (s *Sampler) Sample(ctx context.Context, t model.QuestionType, pool Pool, exclude []uuid.UUID, count int) ([]model.Question, error) {
	if len(exclude) == 0 {
		questions, err := s.src.RandomQuestions(ctx, t, pool, count)
		if err != nil {
			return nil, fmt.Errorf("sample %s/%s: %w", pool, t, err)
		}
		return questions, nil
	}

	questions, err := s.src.RandomQuestionsExcluding(ctx, t, pool, exclude, count)
	if err != nil {
		return nil, fmt.Errorf("sample %s/%s excluding %d: %w", pool, t, len(exclude), err)
	}
	if len(questions) > 0 {
		return questions, nil
	}

	// The exclude set covered the whole pool.
	questions, err = s.src.RandomQuestions(ctx, t, pool, count)
	if err != nil {
		return nil, fmt.Errorf("sample %s/%s fallback: %w", pool, t, err)
	}
	return questions, nil
}
