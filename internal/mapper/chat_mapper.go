package mapper

import (
	"encoding/json"
	"time"

	"marketmind-be/internal/entity"
	"marketmind-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// messageDocument is the stored JSON shape of a message. It doubles as the
// wire shape, so history documents round-trip unchanged to the client.
type messageDocument struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) (*entity.ChatSession, error) {
	if s == nil {
		return nil, nil
	}

	var docs []messageDocument
	if len(s.Messages) > 0 {
		if err := json.Unmarshal(s.Messages, &docs); err != nil {
			return nil, err
		}
	}

	messages := make([]entity.ChatMessage, len(docs))
	for i, d := range docs {
		messages[i] = entity.ChatMessage{
			Text:      d.Text,
			IsUser:    d.IsUser,
			Timestamp: d.Timestamp,
		}
	}

	return &entity.ChatSession{
		UserId:    s.UserId,
		Messages:  messages,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
	}, nil
}

func (m *ChatMapper) MessagesToDocument(messages []entity.ChatMessage) ([]byte, error) {
	docs := make([]messageDocument, len(messages))
	for i, msg := range messages {
		docs[i] = messageDocument{
			Text:      msg.Text,
			IsUser:    msg.IsUser,
			Timestamp: msg.Timestamp,
		}
	}
	return json.Marshal(docs)
}
