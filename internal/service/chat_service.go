// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketmind-be/internal/dto"
	"marketmind-be/internal/entity"
	"marketmind-be/internal/pkg/logger"
	"marketmind-be/internal/repository/contract"
	"marketmind-be/pkg/chatbot"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// initialRecommendationsPrompt is the synthesized prompt substituted for a
// raw user message on the onboarding flow.
const initialRecommendationsPrompt = `Create marketing strategies for %s in the %s industry.
Their primary goal is %s and they're facing these challenges: %s.
Provide 3 specific recommendations.`

type IChatService interface {
	ProcessAiRequest(ctx context.Context, userId, query string) (*dto.ChatResponse, error)
	GetChatHistory(ctx context.Context, userId string) (*dto.ChatHistoryResponse, error)
	GenerateInitialRecommendations(ctx context.Context, userId string, req *dto.InitialRecommendationsRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	repo       contract.ChatSessionRepository
	provider   chatbot.Provider
	pubSub     *gochannel.GoChannel
	usageTopic string
	log        logger.ILogger
}

func NewChatService(
	repo contract.ChatSessionRepository,
	provider chatbot.Provider,
	pubSub *gochannel.GoChannel,
	usageTopic string,
	log logger.ILogger,
) IChatService {
	return &chatService{
		repo:       repo,
		provider:   provider,
		pubSub:     pubSub,
		usageTopic: usageTopic,
		log:        log,
	}
}

func (s *chatService) ProcessAiRequest(ctx context.Context, userId, query string) (*dto.ChatResponse, error) {
	return s.exchange(ctx, userId, query)
}

func (s *chatService) GenerateInitialRecommendations(ctx context.Context, userId string, req *dto.InitialRecommendationsRequest) (*dto.ChatResponse, error) {
	prompt := fmt.Sprintf(initialRecommendationsPrompt,
		req.BusinessName,
		req.Industry,
		req.Goal,
		req.Challenges,
	)
	return s.exchange(ctx, userId, prompt)
}

// exchange runs one full conversation turn: load session, append the user
// message, call the provider with the accumulated history, append the reply.
// A provider failure leaves the user message persisted; that asymmetry is
// deliberate and documented, the client resubmits.
func (s *chatService) exchange(ctx context.Context, userId, userText string) (*dto.ChatResponse, error) {
	if _, err := s.repo.GetOrCreate(ctx, userId); err != nil {
		return nil, err
	}

	session, err := s.repo.Append(ctx, userId, entity.ChatMessage{
		Text:      userText,
		IsUser:    true,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.provider.Complete(ctx, session.Messages)
	if err != nil {
		return nil, err
	}

	session, err = s.repo.Append(ctx, userId, entity.ChatMessage{
		Text:      reply,
		IsUser:    false,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.publishCompleted(userId, len(session.Messages))

	return &dto.ChatResponse{
		Response: reply,
		History:  toMessageResponses(session.Messages),
	}, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId string) (*dto.ChatHistoryResponse, error) {
	history, err := s.repo.GetHistory(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.ChatHistoryResponse{
		Messages: toMessageResponses(history),
	}, nil
}

// publishCompleted hands the exchange to the usage consumer. Best effort,
// never on the response path's error budget.
func (s *chatService) publishCompleted(userId string, messageCount int) {
	if s.pubSub == nil {
		return
	}

	payload, err := json.Marshal(dto.ChatCompletedMessage{
		UserId:       userId,
		MessageCount: messageCount,
		CompletedAt:  time.Now(),
	})
	if err != nil {
		s.log.Warn("chat", "failed to marshal usage payload", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.pubSub.Publish(s.usageTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.log.Warn("chat", "failed to publish usage message", map[string]interface{}{"error": err.Error()})
	}
}

func toMessageResponses(messages []entity.ChatMessage) []dto.MessageResponse {
	out := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = dto.MessageResponse{
			Text:      msg.Text,
			IsUser:    msg.IsUser,
			Timestamp: msg.Timestamp,
		}
	}
	return out
}
