package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the transient state of one user's active quiz. It lives outside
// the database: the persisted quiz_sessions row records the outcome, this
// records the position. A user has at most one.
type Session struct {
	QuizID      uuid.UUID   `json:"quiz_id"`
	QuestionIDs []uuid.UUID `json:"question_ids"`
	Index       int         `json:"index"`
	Correct     int         `json:"correct"`
	StartedAt   time.Time   `json:"started_at"`
	AskedAt     time.Time   `json:"asked_at"`
}

func (s *Session) contains(id uuid.UUID) bool {
	for _, qid := range s.QuestionIDs {
		if qid == id {
			return true
		}
	}
	return false
}

// SessionStore keeps active-quiz state keyed by telegram id. Get returns
// ErrNoActiveQuiz when the user has no quiz in progress.
type SessionStore interface {
	Get(ctx context.Context, telegramID int64) (*Session, error)
	Put(ctx context.Context, telegramID int64, s *Session) error
	Delete(ctx context.Context, telegramID int64) error
}

// RedisSessionStore keeps sessions in redis so an in-progress quiz survives a
// process restart. Entries expire after the TTL; an abandoned quiz simply
// evaporates without a completion stamp.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(telegramID int64) string {
	return fmt.Sprintf("quiz:session:%d", telegramID)
}

func (r *RedisSessionStore) Get(ctx context.Context, telegramID int64) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(telegramID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoActiveQuiz
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz session: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode quiz session: %w", err)
	}
	return s, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, telegramID int64, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode quiz session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(telegramID), data, r.ttl).Err()
}

func (r *RedisSessionStore) Delete(ctx context.Context, telegramID int64) error {
	return r.client.Del(ctx, sessionKey(telegramID)).Err()
}

// MemorySessionStore keeps sessions in a map. Used by tests and as a
// fallback when no redis is configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]Session)}
}

func (m *MemorySessionStore) Get(ctx context.Context, telegramID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[telegramID]
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	copied := s
	copied.QuestionIDs = append([]uuid.UUID(nil), s.QuestionIDs...)
	return &copied, nil
}

func (m *MemorySessionStore) Put(ctx context.Context, telegramID int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[telegramID] = *s
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, telegramID)
	return nil
}
