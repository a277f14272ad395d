package implementation

import (
	"context"
	"errors"

	"marketmind-be/internal/entity"
	"marketmind-be/internal/mapper"
	"marketmind-be/internal/model"
	"marketmind-be/internal/pkg/apperr"
	"marketmind-be/internal/repository/contract"
	"marketmind-be/pkg/keylock"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxCasRetries bounds the optimistic-update loop. The per-key lock already
// serializes writers inside one process; retries only fire when another
// process updated the row between our read and write.
const maxCasRetries = 5

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
	locks  *keylock.KeyLock
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
		locks:  keylock.New(),
	}
}

func (r *ChatSessionRepositoryImpl) GetOrCreate(ctx context.Context, userId string) (*entity.ChatSession, error) {
	r.locks.Lock(userId)
	defer r.locks.Unlock(userId)

	return r.getOrCreateLocked(ctx, userId)
}

func (r *ChatSessionRepositoryImpl) getOrCreateLocked(ctx context.Context, userId string) (*entity.ChatSession, error) {
	if session, err := r.findLocked(ctx, userId); err != nil || session != nil {
		return session, err
	}

	// ON CONFLICT DO NOTHING keeps the create race-free across processes;
	// the re-fetch below covers the case where another writer won.
	m := &model.ChatSession{
		UserId:   userId,
		Messages: []byte("[]"),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to create chat session", err)
	}

	session, err := r.findLocked(ctx, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.New(apperr.KindStore, "chat session missing after create")
	}
	return session, nil
}

func (r *ChatSessionRepositoryImpl) Append(ctx context.Context, userId string, messages ...entity.ChatMessage) (*entity.ChatSession, error) {
	r.locks.Lock(userId)
	defer r.locks.Unlock(userId)

	for attempt := 0; attempt < maxCasRetries; attempt++ {
		session, err := r.getOrCreateLocked(ctx, userId)
		if err != nil {
			return nil, err
		}

		updated := append(append([]entity.ChatMessage{}, session.Messages...), messages...)
		doc, err := r.mapper.MessagesToDocument(updated)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to encode chat history", err)
		}

		// Version-checked write: a concurrent writer from another process
		// bumps the version first and our update affects zero rows.
		res := r.db.WithContext(ctx).
			Model(&model.ChatSession{}).
			Where("user_id = ? AND version = ?", userId, session.Version).
			Updates(map[string]interface{}{
				"messages": doc,
				"version":  session.Version + 1,
			})
		if res.Error != nil {
			return nil, apperr.Wrap(apperr.KindStore, "failed to persist chat history", res.Error)
		}
		if res.RowsAffected == 1 {
			session.Messages = updated
			session.Version++
			return session, nil
		}
	}

	return nil, apperr.New(apperr.KindStore, "chat session update contention, giving up")
}

func (r *ChatSessionRepositoryImpl) GetHistory(ctx context.Context, userId string) ([]entity.ChatMessage, error) {
	r.locks.Lock(userId)
	defer r.locks.Unlock(userId)

	session, err := r.findLocked(ctx, userId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return []entity.ChatMessage{}, nil
	}
	return session.Messages, nil
}

func (r *ChatSessionRepositoryImpl) findLocked(ctx context.Context, userId string) (*entity.ChatSession, error) {
	var m model.ChatSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindStore, "failed to load chat session", err)
	}

	session, err := r.mapper.ChatSessionToEntity(&m)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to decode chat history", err)
	}
	return session, nil
}
