package quiz

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"splatbot/internal/models"
)

// DrawSize is how many questions one quiz pulls at most.
const DrawSize = 10

var (
	// ErrNoQuestions means the selected topic has no stored questions.
	ErrNoQuestions = errors.New("no questions available for this topic")
	// ErrNoActiveQuiz means the user has no quiz in progress.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrUnknownTopic means the topic tag has no mapping.
	ErrUnknownTopic = errors.New("unknown quiz topic")
	// ErrQuestionNotInQuiz means the submitted question id is not part of
	// the active draw. Such submissions are rejected, not graded.
	ErrQuestionNotInQuiz = errors.New("question is not part of the active quiz")
	// ErrInvalidOption means the submitted letter is not a valid option label.
	ErrInvalidOption = errors.New("invalid answer option")
	// ErrQuizDone means the current index is past the last question.
	ErrQuizDone = errors.New("quiz has no more questions")
)

// QuestionSource is the read side of the question store.
type QuestionSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	RandomByCategory(ctx context.Context, category string, limit int) ([]*models.Question, error)
	RandomBySubcategory(ctx context.Context, subcategory string, limit int) ([]*models.Question, error)
	RandomAcross(ctx context.Context, limit int) ([]*models.Question, error)
	RandomSplat(ctx context.Context, limit int) ([]*models.Question, error)
}

// ProfileStore mutates per-user running statistics.
type ProfileStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	ApplyAnswer(ctx context.Context, telegramID int64, correct bool) error
}

// AnswerLog appends graded answers.
type AnswerLog interface {
	Create(ctx context.Context, a *models.AnswerRecord) error
}

// SessionLog persists quiz session rows.
type SessionLog interface {
	CreateSession(ctx context.Context, q *models.QuizSession) error
	CompleteSession(ctx context.Context, id uuid.UUID, correctAnswers int, score float64) error
}

// Engine drives one user's quiz through Idle → InQuiz → Finished.
type Engine struct {
	questions QuestionSource
	users     ProfileStore
	answers   AnswerLog
	quizzes   SessionLog
	sessions  SessionStore
}

func NewEngine(questions QuestionSource, users ProfileStore, answers AnswerLog, quizzes SessionLog, sessions SessionStore) *Engine {
	return &Engine{
		questions: questions,
		users:     users,
		answers:   answers,
		quizzes:   quizzes,
		sessions:  sessions,
	}
}

// Progress is one presentable question with its position in the quiz.
type Progress struct {
	Question *models.Question
	Position int // 1-based
	Total    int
}

// Grade is the outcome of one submitted answer.
type Grade struct {
	Question *models.Question
	Selected string
	Correct  bool
}

// Summary is the result of a finished quiz.
type Summary struct {
	Correct int
	Total   int
	Score   float64
}

func (e *Engine) draw(ctx context.Context, topic Topic) ([]*models.Question, error) {
	switch {
	case topic.Splat:
		return e.questions.RandomSplat(ctx, DrawSize)
	case topic.Subcategory != "":
		return e.questions.RandomBySubcategory(ctx, topic.Subcategory, DrawSize)
	case topic.Category != "":
		return e.questions.RandomByCategory(ctx, topic.Category, DrawSize)
	default:
		return e.questions.RandomAcross(ctx, DrawSize)
	}
}

// Start draws questions for a topic, persists a quiz session row and
// initializes transient state. An empty draw aborts the start: no row is
// written and the user stays idle.
func (e *Engine) Start(ctx context.Context, telegramID int64, topicTag string) (*Progress, error) {
	topic, ok := Topics[topicTag]
	if !ok {
		return nil, ErrUnknownTopic
	}

	questions, err := e.draw(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	user, err := e.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	category := topic.Category
	if category == "" {
		category = "mixed"
	}

	row := &models.QuizSession{
		UserID:         user.ID,
		QuizType:       "topic",
		Category:       category,
		TotalQuestions: len(questions),
	}
	if err := e.quizzes.CreateSession(ctx, row); err != nil {
		return nil, err
	}

	now := time.Now()
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	session := &Session{
		QuizID:      row.ID,
		QuestionIDs: ids,
		StartedAt:   now,
		AskedAt:     now,
	}
	if err := e.sessions.Put(ctx, telegramID, session); err != nil {
		return nil, err
	}

	return &Progress{Question: questions[0], Position: 1, Total: len(ids)}, nil
}

// Current returns the question at the session's index. ErrQuizDone past the
// last question signals the caller to finalize.
func (e *Engine) Current(ctx context.Context, telegramID int64) (*Progress, error) {
	session, err := e.sessions.Get(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if session.Index >= len(session.QuestionIDs) {
		return nil, ErrQuizDone
	}

	question, err := e.questions.GetByID(ctx, session.QuestionIDs[session.Index])
	if err != nil {
		return nil, err
	}

	return &Progress{
		Question: question,
		Position: session.Index + 1,
		Total:    len(session.QuestionIDs),
	}, nil
}

// Submit grades one answer. Grading is recomputed against the stored question
// row, never against client state: the correctness flag is exactly
// (letter == stored correct letter). Side effects: an append-only answer
// record, the profile counters and the session tally.
func (e *Engine) Submit(ctx context.Context, telegramID int64, questionID uuid.UUID, letter string) (*Grade, error) {
	if !validLetter(letter) {
		return nil, ErrInvalidOption
	}

	session, err := e.sessions.Get(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !session.contains(questionID) {
		return nil, ErrQuestionNotInQuiz
	}

	question, err := e.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	correct := letter == question.CorrectAnswer

	user, err := e.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	taken := int(time.Since(session.AskedAt).Seconds())
	record := &models.AnswerRecord{
		UserID:           user.ID,
		QuestionID:       question.ID,
		SelectedAnswer:   letter,
		IsCorrect:        correct,
		TimeTakenSeconds: &taken,
	}
	if err := e.answers.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := e.users.ApplyAnswer(ctx, telegramID, correct); err != nil {
		return nil, err
	}

	if correct {
		session.Correct++
	}
	if err := e.sessions.Put(ctx, telegramID, session); err != nil {
		return nil, err
	}

	return &Grade{Question: question, Selected: letter, Correct: correct}, nil
}

// Advance moves to the next question. ErrQuizDone means the draw is
// exhausted and the caller should finalize.
func (e *Engine) Advance(ctx context.Context, telegramID int64) (*Progress, error) {
	session, err := e.sessions.Get(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	session.Index++
	session.AskedAt = time.Now()
	if err := e.sessions.Put(ctx, telegramID, session); err != nil {
		return nil, err
	}

	if session.Index >= len(session.QuestionIDs) {
		return nil, ErrQuizDone
	}

	question, err := e.questions.GetByID(ctx, session.QuestionIDs[session.Index])
	if err != nil {
		return nil, err
	}

	return &Progress{
		Question: question,
		Position: session.Index + 1,
		Total:    len(session.QuestionIDs),
	}, nil
}

// Finish stamps the session row and clears transient state. One-shot: once
// the state is gone a repeat call gets ErrNoActiveQuiz, and the row update is
// guarded so nothing is double-counted.
func (e *Engine) Finish(ctx context.Context, telegramID int64) (*Summary, error) {
	session, err := e.sessions.Get(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	total := len(session.QuestionIDs)
	score := 0.0
	if total > 0 {
		score = math.Round(float64(session.Correct)/float64(total)*1000) / 10
	}

	if err := e.quizzes.CompleteSession(ctx, session.QuizID, session.Correct, score); err != nil {
		return nil, err
	}
	if err := e.sessions.Delete(ctx, telegramID); err != nil {
		return nil, err
	}

	return &Summary{Correct: session.Correct, Total: total, Score: score}, nil
}

// Abandon drops transient state without stamping the session row.
func (e *Engine) Abandon(ctx context.Context, telegramID int64) error {
	return e.sessions.Delete(ctx, telegramID)
}

func validLetter(letter string) bool {
	for _, l := range models.OptionLetters {
		if l == letter {
			return true
		}
	}
	return false
}
