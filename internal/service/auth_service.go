// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"marketmind-be/internal/dto"
	"marketmind-be/internal/pkg/apperr"
	"marketmind-be/internal/pkg/token"

	"marketmind-be/pkg/events"
	pktNats "marketmind-be/pkg/nats"

	"github.com/google/uuid"
)

type IAuthService interface {
	// GenerateUserId mints a fresh identity and a session token for it.
	GenerateUserId(ctx context.Context) (*dto.GenerateUserIdResponse, string, error)

	// Status reports whether the given raw cookie value is a live session.
	// Never mutates anything.
	Status(rawToken string) *dto.AuthStatusResponse

	// Refresh issues a replacement token bound to the same subject with a
	// renewed expiry.
	Refresh(rawToken string) (string, string, error)
}

type authService struct {
	codec          *token.Codec
	eventPublisher *pktNats.Publisher
}

func NewAuthService(codec *token.Codec, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		codec:          codec,
		eventPublisher: eventPublisher,
	}
}

func (s *authService) GenerateUserId(ctx context.Context) (*dto.GenerateUserIdResponse, string, error) {
	// Random identity instead of the historical timestamp scheme; the
	// "user-" prefix is kept so existing clients see the same shape.
	userId := "user-" + uuid.New().String()

	signedToken, err := s.codec.Issue(userId)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "failed to issue session token", err)
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "USER_ONBOARDED",
			Data: map[string]interface{}{
				"user_id": userId,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_ONBOARDED event: %v\n", err)
		}
	}

	return &dto.GenerateUserIdResponse{UserId: userId}, signedToken, nil
}

func (s *authService) Status(rawToken string) *dto.AuthStatusResponse {
	if rawToken == "" {
		return &dto.AuthStatusResponse{Authenticated: false}
	}
	subject, err := s.codec.Verify(rawToken)
	if err != nil {
		return &dto.AuthStatusResponse{Authenticated: false}
	}
	return &dto.AuthStatusResponse{
		Authenticated: true,
		UserId:        subject,
	}
}

func (s *authService) Refresh(rawToken string) (string, string, error) {
	if rawToken == "" {
		return "", "", apperr.New(apperr.KindUnauthenticated, "Unauthorized. No token provided.")
	}
	subject, err := s.codec.Verify(rawToken)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindUnauthenticated, "Invalid token.", err)
	}

	signedToken, err := s.codec.Issue(subject)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to reissue session token", err)
	}
	return subject, signedToken, nil
}
