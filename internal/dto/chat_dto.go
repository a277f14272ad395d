package dto

import "time"

type AiRequest struct {
	Query string `json:"query" validate:"required"`
}

type InitialRecommendationsRequest struct {
	BusinessName string `json:"businessName" validate:"required"`
	Industry     string `json:"industry" validate:"required"`
	Goal         string `json:"goal" validate:"required"`
	Challenges   string `json:"challenges" validate:"required"`
}

type MessageResponse struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatResponse struct {
	Response string            `json:"response"`
	History  []MessageResponse `json:"history"`
}

type ChatHistoryResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// ChatCompletedMessage is the payload published on the usage topic after a
// successful exchange.
type ChatCompletedMessage struct {
	UserId       string    `json:"user_id"`
	MessageCount int       `json:"message_count"`
	CompletedAt  time.Time `json:"completed_at"`
}
