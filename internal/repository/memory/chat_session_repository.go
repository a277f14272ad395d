package memory

import (
	"context"
	"time"

	"marketmind-be/internal/entity"
	"marketmind-be/internal/repository/contract"
	"marketmind-be/pkg/keylock"

	"github.com/patrickmn/go-cache"
)

// ChatSessionRepository is an in-memory document store keyed by UserId.
// Used when no database connection is configured, and by tests. Sessions
// never expire; the process lifetime is the retention policy here.
type ChatSessionRepository struct {
	sessions *cache.Cache
	locks    *keylock.KeyLock
}

func NewChatSessionRepository() contract.ChatSessionRepository {
	return &ChatSessionRepository{
		sessions: cache.New(cache.NoExpiration, 0),
		locks:    keylock.New(),
	}
}

func (r *ChatSessionRepository) GetOrCreate(ctx context.Context, userId string) (*entity.ChatSession, error) {
	r.locks.Lock(userId)
	defer r.locks.Unlock(userId)

	return r.getOrCreateLocked(userId), nil
}

func (r *ChatSessionRepository) getOrCreateLocked(userId string) *entity.ChatSession {
	if x, found := r.sessions.Get(userId); found {
		return copySession(x.(*entity.ChatSession))
	}

	session := &entity.ChatSession{
		UserId:    userId,
		Messages:  []entity.ChatMessage{},
		CreatedAt: time.Now(),
	}
	r.sessions.Set(userId, session, cache.NoExpiration)
	return copySession(session)
}

func (r *ChatSessionRepository) Append(ctx context.Context, userId string, messages ...entity.ChatMessage) (*entity.ChatSession, error) {
	r.locks.Lock(userId)
	defer r.locks.Unlock(userId)

	session := r.getOrCreateLocked(userId)
	session.Messages = append(session.Messages, messages...)
	session.Version++
	r.sessions.Set(userId, copySession(session), cache.NoExpiration)
	return session, nil
}

func (r *ChatSessionRepository) GetHistory(ctx context.Context, userId string) ([]entity.ChatMessage, error) {
	r.locks.Lock(userId)
	defer r.locks.Unlock(userId)

	if x, found := r.sessions.Get(userId); found {
		return copySession(x.(*entity.ChatSession)).Messages, nil
	}
	return []entity.ChatMessage{}, nil
}

// copySession returns a deep-enough copy so callers can't mutate the stored
// log behind the lock.
func copySession(s *entity.ChatSession) *entity.ChatSession {
	messages := make([]entity.ChatMessage, len(s.Messages))
	copy(messages, s.Messages)
	return &entity.ChatSession{
		UserId:    s.UserId,
		Messages:  messages,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
	}
}
