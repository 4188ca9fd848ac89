package service

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tzavrishon/prep-backend/internal/model"
	"github.com/tzavrishon/prep-backend/internal/sampler"
)

// In-memory store fakes. They mirror the repository contracts, including
// pgx.ErrNoRows for missing rows and the conflict-insert behavior of
// exam_answers.

type fakeQuestionStore struct {
	questions  map[uuid.UUID]model.Question
	options    map[uuid.UUID][]model.QuestionOption
	acceptable map[uuid.UUID][]model.AcceptableAnswer
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		questions:  make(map[uuid.UUID]model.Question),
		options:    make(map[uuid.UUID][]model.QuestionOption),
		acceptable: make(map[uuid.UUID][]model.AcceptableAnswer),
	}
}

// addChoiceQuestion creates a single-choice question with four options and
// returns it with the id of the correct option.
func (f *fakeQuestionStore) addChoiceQuestion(t model.QuestionType, exam bool) (model.Question, uuid.UUID) {
	q := model.Question{
		ID:             uuid.New(),
		Type:           t,
		Format:         model.FormatSingleChoiceImage,
		Explanation:    "הסבר לדוגמה",
		IsExamQuestion: exam,
	}
	f.questions[q.ID] = q

	var correctID uuid.UUID
	for i := 0; i < 4; i++ {
		opt := model.QuestionOption{
			ID:          uuid.New(),
			QuestionID:  q.ID,
			OptionOrder: i,
			IsCorrect:   i == 0,
		}
		if opt.IsCorrect {
			correctID = opt.ID
		}
		f.options[q.ID] = append(f.options[q.ID], opt)
	}
	return q, correctID
}

func (f *fakeQuestionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &q, nil
}

func (f *fakeQuestionStore) OptionsByQuestion(_ context.Context, questionID uuid.UUID) ([]model.QuestionOption, error) {
	return f.options[questionID], nil
}

func (f *fakeQuestionStore) AcceptableAnswersByQuestion(_ context.Context, questionID uuid.UUID) ([]model.AcceptableAnswer, error) {
	return f.acceptable[questionID], nil
}

// RandomQuestions / RandomQuestionsExcluding make the fake double as a
// sampler.Source.
func (f *fakeQuestionStore) RandomQuestions(_ context.Context, t model.QuestionType, pool sampler.Pool, limit int) ([]model.Question, error) {
	return f.pick(t, pool, nil, limit), nil
}

func (f *fakeQuestionStore) RandomQuestionsExcluding(_ context.Context, t model.QuestionType, pool sampler.Pool, exclude []uuid.UUID, limit int) ([]model.Question, error) {
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	return f.pick(t, pool, excluded, limit), nil
}

func (f *fakeQuestionStore) pick(t model.QuestionType, pool sampler.Pool, excluded map[uuid.UUID]bool, limit int) []model.Question {
	var out []model.Question
	for _, q := range f.questions {
		if q.Type == t && q.IsExamQuestion == (pool == sampler.PoolExam) && !excluded[q.ID] {
			out = append(out, q)
		}
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type fakeExamStore struct {
	attempts map[uuid.UUID]model.ExamAttempt
	sections map[uuid.UUID]model.ExamSection
	answers  map[uuid.UUID]model.ExamAnswer

	// now stands in for the database's now(); tests point it at the
	// fixture clock.
	now func() time.Time
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{
		attempts: make(map[uuid.UUID]model.ExamAttempt),
		sections: make(map[uuid.UUID]model.ExamSection),
		answers:  make(map[uuid.UUID]model.ExamAnswer),
		now:      time.Now,
	}
}

func (f *fakeExamStore) CreateAttempt(_ context.Context, attempt *model.ExamAttempt, sections []model.ExamSection) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = f.now()
	}
	f.attempts[attempt.ID] = *attempt
	for _, s := range sections {
		f.sections[s.ID] = s
	}
	return nil
}

func (f *fakeExamStore) GetAttempt(_ context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (f *fakeExamStore) ListAttemptsByUser(_ context.Context, userID uuid.UUID) ([]model.ExamAttempt, error) {
	var out []model.ExamAttempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeExamStore) CompleteAttempt(_ context.Context, attemptID uuid.UUID, totalScore90 int, completedAt time.Time) error {
	a := f.attempts[attemptID]
	a.CompletedAt = &completedAt
	a.TotalScore90 = &totalScore90
	f.attempts[attemptID] = a
	return nil
}

func (f *fakeExamStore) SectionsByAttempt(_ context.Context, attemptID uuid.UUID) ([]model.ExamSection, error) {
	var out []model.ExamSection
	for _, s := range f.sections {
		if s.AttemptID == attemptID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeExamStore) StartSection(_ context.Context, sectionID uuid.UUID, startedAt time.Time) error {
	s := f.sections[sectionID]
	if s.StartedAt == nil && !s.Locked {
		s.StartedAt = &startedAt
		f.sections[sectionID] = s
	}
	return nil
}

func (f *fakeExamStore) LockSection(_ context.Context, sectionID uuid.UUID, endedAt time.Time, score int) error {
	s := f.sections[sectionID]
	if !s.Locked {
		s.Locked = true
		s.EndedAt = &endedAt
		s.ScoreSection = &score
		f.sections[sectionID] = s
	}
	return nil
}

func (f *fakeExamStore) AnswersBySection(_ context.Context, sectionID uuid.UUID) ([]model.ExamAnswer, error) {
	var out []model.ExamAnswer
	for _, a := range f.answers {
		if a.SectionID == sectionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeExamStore) AnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ExamAnswer, error) {
	sections, _ := f.SectionsByAttempt(ctx, attemptID)
	var out []model.ExamAnswer
	for _, s := range sections {
		answers, _ := f.AnswersBySection(ctx, s.ID)
		out = append(out, answers...)
	}
	return out, nil
}

func (f *fakeExamStore) InsertAnswer(_ context.Context, a *model.ExamAnswer) error {
	for _, existing := range f.answers {
		if existing.SectionID == a.SectionID && existing.QuestionID == a.QuestionID {
			return pgx.ErrNoRows // conflict: no row inserted
		}
	}
	a.AnsweredAt = f.now()
	f.answers[a.ID] = *a
	return nil
}

type fakePracticeStore struct {
	sessions map[uuid.UUID]model.PracticeSession
	answers  map[uuid.UUID]model.PracticeAnswer
	recent   []model.RecentQuestion

	now func() time.Time
}

func newFakePracticeStore() *fakePracticeStore {
	return &fakePracticeStore{
		sessions: make(map[uuid.UUID]model.PracticeSession),
		answers:  make(map[uuid.UUID]model.PracticeAnswer),
		now:      time.Now,
	}
}

func (f *fakePracticeStore) CreateSession(_ context.Context, s *model.PracticeSession) error {
	if s.StartedAt.IsZero() {
		s.StartedAt = f.now()
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakePracticeStore) GetSession(_ context.Context, id uuid.UUID) (*model.PracticeSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (f *fakePracticeStore) FinishSession(_ context.Context, id uuid.UUID, endedAt time.Time) error {
	s := f.sessions[id]
	if s.EndedAt == nil {
		s.EndedAt = &endedAt
		f.sessions[id] = s
	}
	return nil
}

func (f *fakePracticeStore) InsertAnswer(_ context.Context, a *model.PracticeAnswer) error {
	a.AnsweredAt = f.now()
	f.answers[a.ID] = *a
	return nil
}

func (f *fakePracticeStore) AnswersBySession(_ context.Context, sessionID uuid.UUID) ([]model.PracticeAnswer, error) {
	var out []model.PracticeAnswer
	for _, a := range f.answers {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnsweredAt.Before(out[j].AnsweredAt) })
	return out, nil
}

func (f *fakePracticeStore) AppendRecent(_ context.Context, rec *model.RecentQuestion) error {
	rec.ServedAt = f.now()
	f.recent = append(f.recent, *rec)
	return nil
}

func (f *fakePracticeStore) RecentQuestionIDs(_ context.Context, identity model.Identity, t model.QuestionType, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for i := len(f.recent) - 1; i >= 0 && len(ids) < limit; i-- {
		r := f.recent[i]
		if r.Type != t {
			continue
		}
		switch {
		case identity.UserID != nil && r.UserID != nil && *r.UserID == *identity.UserID:
			ids = append(ids, r.QuestionID)
		case identity.GuestID != nil && r.GuestID != nil && *r.GuestID == *identity.GuestID:
			ids = append(ids, r.QuestionID)
		}
	}
	return ids, nil
}

func (f *fakePracticeStore) TypeStatsByUser(_ context.Context, userID uuid.UUID) ([]model.TypeStats, error) {
	byType := make(map[model.QuestionType]*model.TypeStats)
	for _, a := range f.answers {
		s := f.sessions[a.SessionID]
		if s.UserID == nil || *s.UserID != userID {
			continue
		}
		st, ok := byType[s.Type]
		if !ok {
			st = &model.TypeStats{Type: s.Type}
			byType[s.Type] = st
		}
		st.Answered++
		if a.IsCorrect {
			st.Correct++
		}
	}
	var out []model.TypeStats
	for _, st := range byType {
		if st.Answered > 0 {
			st.Accuracy = 100 * float64(st.Correct) / float64(st.Answered)
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// CountGuestSessionsSince implements ratelimit.SessionCounter.
func (f *fakePracticeStore) CountGuestSessionsSince(_ context.Context, guestID uuid.UUID, t model.QuestionType, since time.Time) (int, error) {
	n := 0
	for _, s := range f.sessions {
		if s.GuestID != nil && *s.GuestID == guestID && s.Type == t && s.StartedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type fakeGuestStore struct {
	guests map[uuid.UUID]model.GuestIdentity
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{guests: make(map[uuid.UUID]model.GuestIdentity)}
}

func (f *fakeGuestStore) FindOrCreate(_ context.Context, guestID uuid.UUID) (*model.GuestIdentity, error) {
	g, ok := f.guests[guestID]
	if !ok {
		g = model.GuestIdentity{GuestID: guestID, CreatedAt: time.Now()}
	}
	g.LastSeenAt = time.Now()
	f.guests[guestID] = g
	return &g, nil
}

type fakeUserStore struct {
	users map[uuid.UUID]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

// memRecency is an in-process stand-in for the Redis recency cache.
type memRecency struct {
	lists map[string][]uuid.UUID
}

func newMemRecency() *memRecency {
	return &memRecency{lists: make(map[string][]uuid.UUID)}
}

func (m *memRecency) listKey(identity model.Identity, t model.QuestionType) string {
	if identity.IsRegistered() {
		return "u:" + identity.UserID.String() + ":" + string(t)
	}
	return "g:" + identity.GuestID.String() + ":" + string(t)
}

func (m *memRecency) Recent(_ context.Context, identity model.Identity, t model.QuestionType, limit int) ([]uuid.UUID, error) {
	ids := m.lists[m.listKey(identity, t)]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memRecency) Push(_ context.Context, identity model.Identity, t model.QuestionType, questionID uuid.UUID, max int) error {
	k := m.listKey(identity, t)
	ids := append([]uuid.UUID{questionID}, m.lists[k]...)
	if len(ids) > max {
		ids = ids[:max]
	}
	m.lists[k] = ids
	return nil
}

func (m *memRecency) Fill(_ context.Context, identity model.Identity, t model.QuestionType, ids []uuid.UUID) error {
	m.lists[m.listKey(identity, t)] = append([]uuid.UUID(nil), ids...)
	return nil
}
