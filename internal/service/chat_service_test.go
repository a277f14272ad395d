package service

import (
	"context"
	"testing"

	"marketmind-be/internal/dto"
	"marketmind-be/internal/entity"
	"marketmind-be/internal/pkg/apperr"
	"marketmind-be/internal/pkg/logger"
	"marketmind-be/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply       string
	err         error
	calls       int
	lastHistory []entity.ChatMessage
}

func (p *stubProvider) Complete(ctx context.Context, history []entity.ChatMessage) (string, error) {
	p.calls++
	p.lastHistory = append([]entity.ChatMessage{}, history...)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func newTestChatService(provider *stubProvider) IChatService {
	return NewChatService(
		memory.NewChatSessionRepository(),
		provider,
		nil, // no usage bus in unit tests
		"CHAT_COMPLETED",
		logger.NewNop(),
	)
}

func TestProcessAiRequestAppendsBothTurns(t *testing.T) {
	provider := &stubProvider{reply: "Try a referral program."}
	svc := newTestChatService(provider)

	res, err := svc.ProcessAiRequest(context.Background(), "user-1", "how do I grow?")
	require.NoError(t, err)
	require.Equal(t, "Try a referral program.", res.Response)

	require.Len(t, res.History, 2)
	require.True(t, res.History[0].IsUser)
	require.Equal(t, "how do I grow?", res.History[0].Text)
	require.False(t, res.History[1].IsUser)
	require.Equal(t, "Try a referral program.", res.History[1].Text)

	// The provider must see the history including the just-appended message.
	require.Equal(t, 1, provider.calls)
	require.Len(t, provider.lastHistory, 1)
	require.Equal(t, "how do I grow?", provider.lastHistory[0].Text)
}

func TestProviderFailureKeepsUserMessage(t *testing.T) {
	provider := &stubProvider{err: apperr.New(apperr.KindProvider, "provider returned an error")}
	svc := newTestChatService(provider)

	res, err := svc.ProcessAiRequest(context.Background(), "user-1", "hello")
	require.Error(t, err)
	require.Nil(t, res)
	require.Equal(t, apperr.KindProvider, apperr.KindOf(err))

	// The user message stays persisted; no assistant message is appended.
	history, err := svc.GetChatHistory(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	require.True(t, history.Messages[0].IsUser)
	require.Equal(t, "hello", history.Messages[0].Text)
}

func TestHistoryAccumulatesAcrossExchanges(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	svc := newTestChatService(provider)
	ctx := context.Background()

	_, err := svc.ProcessAiRequest(ctx, "user-1", "first")
	require.NoError(t, err)
	res, err := svc.ProcessAiRequest(ctx, "user-1", "second")
	require.NoError(t, err)

	require.Len(t, res.History, 4)
	require.Equal(t, "first", res.History[0].Text)
	require.Equal(t, "second", res.History[2].Text)

	// Second call sends the full accumulated log to the provider.
	require.Len(t, provider.lastHistory, 3)
}

func TestGenerateInitialRecommendationsSynthesizesPrompt(t *testing.T) {
	provider := &stubProvider{reply: "1. 2. 3."}
	svc := newTestChatService(provider)

	res, err := svc.GenerateInitialRecommendations(context.Background(), "user-1", &dto.InitialRecommendationsRequest{
		BusinessName: "Acme Soap",
		Industry:     "retail",
		Goal:         "increase online sales",
		Challenges:   "low brand awareness",
	})
	require.NoError(t, err)
	require.Len(t, res.History, 2)

	prompt := res.History[0].Text
	require.True(t, res.History[0].IsUser)
	require.Contains(t, prompt, "Create marketing strategies for Acme Soap in the retail industry.")
	require.Contains(t, prompt, "increase online sales")
	require.Contains(t, prompt, "low brand awareness")
	require.Contains(t, prompt, "Provide 3 specific recommendations.")
}

func TestGetChatHistoryEmptyForNewUser(t *testing.T) {
	svc := newTestChatService(&stubProvider{reply: "ok"})

	res, err := svc.GetChatHistory(context.Background(), "user-never-seen")
	require.NoError(t, err)
	require.NotNil(t, res.Messages)
	require.Empty(t, res.Messages)
}
