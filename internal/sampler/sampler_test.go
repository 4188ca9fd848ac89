package sampler

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzavrishon/prep-backend/internal/model"
)

// fakeSource samples from an in-memory slice the way the SQL source does:
// uniform, without replacement, honoring the exclude set.
type fakeSource struct {
	questions []model.Question
}

func (f *fakeSource) RandomQuestions(_ context.Context, t model.QuestionType, _ Pool, limit int) ([]model.Question, error) {
	return f.pick(t, nil, limit), nil
}

func (f *fakeSource) RandomQuestionsExcluding(_ context.Context, t model.QuestionType, _ Pool, exclude []uuid.UUID, limit int) ([]model.Question, error) {
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	return f.pick(t, excluded, limit), nil
}

func (f *fakeSource) pick(t model.QuestionType, excluded map[uuid.UUID]bool, limit int) []model.Question {
	var pool []model.Question
	for _, q := range f.questions {
		if q.Type == t && !excluded[q.ID] {
			pool = append(pool, q)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

func makeQuestions(t model.QuestionType, n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{ID: uuid.New(), Type: t}
	}
	return qs
}

func TestSampleWithoutExclusion(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(model.QuestionTypeQuantitative, 20)}
	s := New(src)

	got, err := s.Sample(context.Background(), model.QuestionTypeQuantitative, PoolPractice, nil, 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	seen := make(map[uuid.UUID]bool)
	for _, q := range got {
		assert.False(t, seen[q.ID], "no replacement")
		seen[q.ID] = true
	}
}

func TestSampleExcludesRecentlyServed(t *testing.T) {
	qs := makeQuestions(model.QuestionTypeVerbalAnalogy, 10)
	src := &fakeSource{questions: qs}
	s := New(src)

	exclude := []uuid.UUID{qs[0].ID, qs[1].ID, qs[2].ID}
	got, err := s.Sample(context.Background(), model.QuestionTypeVerbalAnalogy, PoolPractice, exclude, 10)
	require.NoError(t, err)
	assert.Len(t, got, 7)
	for _, q := range got {
		assert.NotContains(t, exclude, q.ID)
	}
}

func TestSampleFallsBackWhenExclusionCoversPool(t *testing.T) {
	qs := makeQuestions(model.QuestionTypeShapeAnalogy, 5)
	src := &fakeSource{questions: qs}
	s := New(src)

	exclude := make([]uuid.UUID, len(qs))
	for i, q := range qs {
		exclude[i] = q.ID
	}

	got, err := s.Sample(context.Background(), model.QuestionTypeShapeAnalogy, PoolPractice, exclude, 5)
	require.NoError(t, err)
	assert.Len(t, got, 5, "repetition beats an empty batch")
}

func TestSampleShortPool(t *testing.T) {
	src := &fakeSource{questions: makeQuestions(model.QuestionTypeInstructionsDirections, 3)}
	s := New(src)

	got, err := s.Sample(context.Background(), model.QuestionTypeInstructionsDirections, PoolExam, nil, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3, "short pools return what exists")
}
