package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splatbot/internal/models"
)

type fakeQuestionSource struct {
	byID          map[uuid.UUID]*models.Question
	byCategory    map[string][]*models.Question
	bySubcategory map[string][]*models.Question
	all           []*models.Question
}

func newFakeQuestionSource() *fakeQuestionSource {
	return &fakeQuestionSource{
		byID:          make(map[uuid.UUID]*models.Question),
		byCategory:    make(map[string][]*models.Question),
		bySubcategory: make(map[string][]*models.Question),
	}
}

func (f *fakeQuestionSource) add(q *models.Question) {
	f.byID[q.ID] = q
	f.byCategory[q.Category] = append(f.byCategory[q.Category], q)
	if q.Subcategory != nil {
		f.bySubcategory[*q.Subcategory] = append(f.bySubcategory[*q.Subcategory], q)
	}
	f.all = append(f.all, q)
}

func (f *fakeQuestionSource) GetByID(_ context.Context, id uuid.UUID) (*models.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, errors.New("question not found")
	}
	return q, nil
}

func clip(qs []*models.Question, limit int) []*models.Question {
	if len(qs) > limit {
		return qs[:limit]
	}
	return qs
}

func (f *fakeQuestionSource) RandomByCategory(_ context.Context, category string, limit int) ([]*models.Question, error) {
	return clip(f.byCategory[category], limit), nil
}

func (f *fakeQuestionSource) RandomBySubcategory(_ context.Context, subcategory string, limit int) ([]*models.Question, error) {
	return clip(f.bySubcategory[subcategory], limit), nil
}

func (f *fakeQuestionSource) RandomAcross(_ context.Context, limit int) ([]*models.Question, error) {
	return clip(f.all, limit), nil
}

func (f *fakeQuestionSource) RandomSplat(_ context.Context, limit int) ([]*models.Question, error) {
	var splat []*models.Question
	for _, sub := range []string{"badlex", "badparse", "badsemantics", "badexecution", "goodexecution"} {
		splat = append(splat, f.bySubcategory[sub]...)
	}
	return clip(splat, limit), nil
}

type fakeProfileStore struct {
	users map[int64]*models.User
}

func (f *fakeProfileStore) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	u, ok := f.users[telegramID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeProfileStore) ApplyAnswer(_ context.Context, telegramID int64, correct bool) error {
	u := f.users[telegramID]
	u.TotalAnswered++
	if correct {
		u.CorrectAnswers++
		u.CurrentStreak++
		if u.CurrentStreak > u.BestStreak {
			u.BestStreak = u.CurrentStreak
		}
	} else {
		u.CurrentStreak = 0
	}
	return nil
}

type fakeAnswerLog struct {
	records []*models.AnswerRecord
}

func (f *fakeAnswerLog) Create(_ context.Context, a *models.AnswerRecord) error {
	copied := *a
	f.records = append(f.records, &copied)
	return nil
}

type fakeSessionLog struct {
	created   []*models.QuizSession
	completed map[uuid.UUID]struct {
		correct int
		score   float64
	}
}

func newFakeSessionLog() *fakeSessionLog {
	return &fakeSessionLog{completed: make(map[uuid.UUID]struct {
		correct int
		score   float64
	})}
}

func (f *fakeSessionLog) CreateSession(_ context.Context, q *models.QuizSession) error {
	q.ID = uuid.New()
	f.created = append(f.created, q)
	return nil
}

func (f *fakeSessionLog) CompleteSession(_ context.Context, id uuid.UUID, correctAnswers int, score float64) error {
	if _, done := f.completed[id]; done {
		// completed_at IS NULL guard: second stamp is a no-op
		return nil
	}
	f.completed[id] = struct {
		correct int
		score   float64
	}{correctAnswers, score}
	return nil
}

func sampleQuestion(category, correct string) *models.Question {
	sub := "badlex"
	return &models.Question{
		ID:            uuid.New(),
		Category:      category,
		Subcategory:   &sub,
		QuestionText:  "What exception does this SPLAT code throw?",
		OptionA:       "LexException",
		OptionB:       "ParseException",
		CorrectAnswer: correct,
		Explanation:   "The lexer catches invalid characters first.",
		Difficulty:    "easy",
	}
}

const userID int64 = 42

func newTestEngine(t *testing.T, questions *fakeQuestionSource) (*Engine, *fakeProfileStore, *fakeAnswerLog, *fakeSessionLog) {
	t.Helper()

	profiles := &fakeProfileStore{users: map[int64]*models.User{
		userID: {ID: uuid.New(), TelegramID: userID},
	}}
	answers := &fakeAnswerLog{}
	sessions := newFakeSessionLog()
	engine := NewEngine(questions, profiles, answers, sessions, NewMemorySessionStore())

	return engine, profiles, answers, sessions
}

func TestStart_DrawsTopicQuestions(t *testing.T) {
	questions := newFakeQuestionSource()
	for i := 0; i < 3; i++ {
		questions.add(sampleQuestion("lexer", "A"))
	}

	engine, _, _, sessions := newTestEngine(t, questions)

	progress, err := engine.Start(context.Background(), userID, "quiz_lexer")
	require.NoError(t, err)

	assert.Equal(t, 1, progress.Position)
	assert.Equal(t, 3, progress.Total)
	assert.Equal(t, "lexer", progress.Question.Category)

	require.Len(t, sessions.created, 1)
	assert.Equal(t, 3, sessions.created[0].TotalQuestions)
	assert.Equal(t, "lexer", sessions.created[0].Category)
}

func TestStart_EmptyTopicStaysIdle(t *testing.T) {
	engine, _, _, sessions := newTestEngine(t, newFakeQuestionSource())

	_, err := engine.Start(context.Background(), userID, "quiz_java")
	require.ErrorIs(t, err, ErrNoQuestions)

	// no session row, and the user is still idle
	assert.Empty(t, sessions.created)
	_, err = engine.Current(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}

func TestStart_UnknownTopic(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, newFakeQuestionSource())

	_, err := engine.Start(context.Background(), userID, "quiz_brainfuck")
	assert.ErrorIs(t, err, ErrUnknownTopic)
}

func TestStart_DrawCappedAtDrawSize(t *testing.T) {
	questions := newFakeQuestionSource()
	for i := 0; i < DrawSize+5; i++ {
		questions.add(sampleQuestion("parser", "B"))
	}

	engine, _, _, sessions := newTestEngine(t, questions)

	progress, err := engine.Start(context.Background(), userID, "quiz_parser")
	require.NoError(t, err)

	assert.Equal(t, DrawSize, progress.Total)
	assert.Equal(t, DrawSize, sessions.created[0].TotalQuestions)
}

func TestSubmit_GradesAgainstStoredQuestion(t *testing.T) {
	questions := newFakeQuestionSource()
	q := sampleQuestion("lexer", "A")
	questions.add(q)

	engine, profiles, answers, _ := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_lexer")
	require.NoError(t, err)

	grade, err := engine.Submit(context.Background(), userID, q.ID, "A")
	require.NoError(t, err)
	assert.True(t, grade.Correct)

	require.Len(t, answers.records, 1)
	record := answers.records[0]
	assert.Equal(t, record.IsCorrect, record.SelectedAnswer == q.CorrectAnswer)

	user := profiles.users[userID]
	assert.Equal(t, 1, user.TotalAnswered)
	assert.Equal(t, 1, user.CorrectAnswers)
	assert.Equal(t, 1, user.CurrentStreak)
}

func TestSubmit_RejectsQuestionOutsideDraw(t *testing.T) {
	questions := newFakeQuestionSource()
	inQuiz := sampleQuestion("lexer", "A")
	outside := sampleQuestion("parser", "B")
	questions.add(inQuiz)

	engine, _, answers, _ := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_lexer")
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), userID, outside.ID, "A")
	assert.ErrorIs(t, err, ErrQuestionNotInQuiz)
	assert.Empty(t, answers.records)
}

func TestSubmit_RejectsInvalidLetter(t *testing.T) {
	questions := newFakeQuestionSource()
	q := sampleQuestion("lexer", "A")
	questions.add(q)

	engine, _, _, _ := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_lexer")
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), userID, q.ID, "Z")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestStreakLaw(t *testing.T) {
	questions := newFakeQuestionSource()
	var qs []*models.Question
	for i := 0; i < 4; i++ {
		q := sampleQuestion("lexer", "A")
		questions.add(q)
		qs = append(qs, q)
	}

	engine, profiles, _, _ := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_lexer")
	require.NoError(t, err)

	// three correct answers from a fresh streak
	for i := 0; i < 3; i++ {
		_, err := engine.Submit(context.Background(), userID, qs[i].ID, "A")
		require.NoError(t, err)
		engine.Advance(context.Background(), userID)
	}

	user := profiles.users[userID]
	assert.Equal(t, 3, user.CurrentStreak)
	assert.GreaterOrEqual(t, user.BestStreak, 3)

	// one incorrect resets the running streak, not the best
	_, err = engine.Submit(context.Background(), userID, qs[3].ID, "B")
	require.NoError(t, err)

	assert.Equal(t, 0, user.CurrentStreak)
	assert.Equal(t, 3, user.BestStreak)
}

func TestQuizFlow_ThreeCorrectOneWrong(t *testing.T) {
	questions := newFakeQuestionSource()
	var qs []*models.Question
	for i := 0; i < 4; i++ {
		q := sampleQuestion("executor", "A")
		questions.add(q)
		qs = append(qs, q)
	}

	engine, _, _, sessions := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_executor")
	require.NoError(t, err)

	answers := []string{"A", "A", "A", "B"}
	for i, letter := range answers {
		_, err := engine.Submit(context.Background(), userID, qs[i].ID, letter)
		require.NoError(t, err)

		_, err = engine.Advance(context.Background(), userID)
		if i < len(answers)-1 {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, ErrQuizDone)
		}
	}

	summary, err := engine.Finish(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Correct)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 75.0, summary.Score)

	stamped := sessions.completed[sessions.created[0].ID]
	assert.Equal(t, 3, stamped.correct)
	assert.Equal(t, 75.0, stamped.score)
}

func TestFinish_IsOneShot(t *testing.T) {
	questions := newFakeQuestionSource()
	q := sampleQuestion("lexer", "A")
	questions.add(q)

	engine, _, _, sessions := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_lexer")
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), userID, q.ID, "A")
	require.NoError(t, err)

	summary, err := engine.Finish(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Score)

	// transient state is gone; a repeat finalize cannot double-count
	_, err = engine.Finish(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
	assert.Len(t, sessions.completed, 1)
}

func TestEarlyEnd_ScoresAgainstFullDraw(t *testing.T) {
	questions := newFakeQuestionSource()
	var qs []*models.Question
	for i := 0; i < 4; i++ {
		q := sampleQuestion("cfg", "A")
		questions.add(q)
		qs = append(qs, q)
	}

	engine, _, _, _ := newTestEngine(t, questions)

	_, err := engine.Start(context.Background(), userID, "quiz_cfg")
	require.NoError(t, err)

	_, err = engine.Submit(context.Background(), userID, qs[0].ID, "A")
	require.NoError(t, err)

	summary, err := engine.Finish(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Correct)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 25.0, summary.Score)
}

func TestAnswerLog_ReconcilesWithProfileCounters(t *testing.T) {
	questions := newFakeQuestionSource()
	lexQ := sampleQuestion("lexer", "A")
	cfgQ := sampleQuestion("cfg", "A")
	questions.add(lexQ)
	questions.add(cfgQ)

	engine, profiles, answers, _ := newTestEngine(t, questions)
	ctx := context.Background()

	_, err := engine.Start(ctx, userID, "quiz_lexer")
	require.NoError(t, err)
	_, err = engine.Submit(ctx, userID, lexQ.ID, "A")
	require.NoError(t, err)
	_, err = engine.Finish(ctx, userID)
	require.NoError(t, err)

	_, err = engine.Start(ctx, userID, "quiz_cfg")
	require.NoError(t, err)
	_, err = engine.Submit(ctx, userID, cfgQ.ID, "B")
	require.NoError(t, err)
	_, err = engine.Finish(ctx, userID)
	require.NoError(t, err)

	// summing the answer log per category must reconcile with the
	// profile's running totals
	totals := make(map[string]int)
	correct := 0
	for _, r := range answers.records {
		q := questions.byID[r.QuestionID]
		totals[q.Category]++
		if r.IsCorrect {
			correct++
		}
	}

	user := profiles.users[userID]
	assert.Equal(t, user.TotalAnswered, totals["lexer"]+totals["cfg"])
	assert.Equal(t, user.CorrectAnswers, correct)
	assert.Equal(t, 1, totals["lexer"])
	assert.Equal(t, 1, totals["cfg"])
}

func TestMemorySessionStore_CopiesState(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	original := &Session{QuizID: uuid.New(), QuestionIDs: []uuid.UUID{uuid.New()}}
	require.NoError(t, store.Put(ctx, userID, original))

	loaded, err := store.Get(ctx, userID)
	require.NoError(t, err)

	loaded.Index = 7
	again, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Index)

	require.NoError(t, store.Delete(ctx, userID))
	_, err = store.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}
