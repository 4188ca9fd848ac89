package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tzavrishon/prep-backend/internal/model"
	"github.com/tzavrishon/prep-backend/internal/sampler"
)

// QuestionRepository handles question content data access. It also
// implements sampler.Source: random selection runs in SQL so the uniform
// without-replacement guarantee holds under any pool size.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, type, format, prompt_text, prompt_image_url, explanation, is_exam_question, created_at`

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.Type, &q.Format, &q.PromptText, &q.PromptImageURL,
		&q.Explanation, &q.IsExamQuestion, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// OptionsByQuestion retrieves a question's options ordered by option_order.
func (r *QuestionRepository) OptionsByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.QuestionOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, text, image_url, option_order, is_correct
		 FROM question_options
		 WHERE question_id = $1
		 ORDER BY option_order`, questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []model.QuestionOption
	for rows.Next() {
		var o model.QuestionOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.ImageURL, &o.OptionOrder, &o.IsCorrect); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// AcceptableAnswersByQuestion retrieves the accepted free-text/numeric
// answers for a question. Empty for pure multiple-choice questions.
func (r *QuestionRepository) AcceptableAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.AcceptableAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, answer_text, COALESCE(tolerance::text, '')
		 FROM acceptable_answers
		 WHERE question_id = $1`, questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AcceptableAnswer
	for rows.Next() {
		var a model.AcceptableAnswer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AnswerText, &a.Tolerance); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// RandomQuestions selects up to limit random questions of the given type
// from one pool. ORDER BY random() is uniform without replacement.
func (r *QuestionRepository) RandomQuestions(ctx context.Context, t model.QuestionType, pool sampler.Pool, limit int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE type = $1 AND is_exam_question = $2
		 ORDER BY random()
		 LIMIT $3`, t, pool == sampler.PoolExam, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// RandomQuestionsExcluding is RandomQuestions minus an exclude id set.
func (r *QuestionRepository) RandomQuestionsExcluding(ctx context.Context, t model.QuestionType, pool sampler.Pool, exclude []uuid.UUID, limit int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE type = $1 AND is_exam_question = $2 AND NOT (id = ANY($3))
		 ORDER BY random()
		 LIMIT $4`, t, pool == sampler.PoolExam, exclude, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Type, &q.Format, &q.PromptText, &q.PromptImageURL,
			&q.Explanation, &q.IsExamQuestion, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
