package contract

import (
	"context"

	"marketmind-be/internal/entity"
)

// ChatSessionRepository is the single mutable shared resource of the system.
// Implementations must serialize read-modify-write access per UserId:
// concurrent GetOrCreate calls for a new user create exactly one session,
// and concurrent Appends to the same session never drop a message.
type ChatSessionRepository interface {
	// GetOrCreate returns the session for userId, creating an empty one if
	// none exists yet.
	GetOrCreate(ctx context.Context, userId string) (*entity.ChatSession, error)

	// Append adds messages to the end of the session's log and persists it,
	// creating the session first if needed. Returns the updated session.
	Append(ctx context.Context, userId string, messages ...entity.ChatMessage) (*entity.ChatSession, error)

	// GetHistory returns the full log in insertion order. A missing session
	// yields an empty slice, not an error.
	GetHistory(ctx context.Context, userId string) ([]entity.ChatMessage, error)
}
