package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"marketmind-be/internal/config"
	"marketmind-be/internal/entity"
	"marketmind-be/internal/pkg/apperr"
)

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

type GeminiChatParts struct {
	Text string `json:"text"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
	Role  string             `json:"role"`
}

type GeminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type GeminiChatRequest struct {
	Contents         []*GeminiChatContent    `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

// Generation parameters are fixed server-side, never user-controlled.
var defaultGenerationConfig = GeminiGenerationConfig{
	Temperature:      0.7,
	TopK:             64,
	TopP:             0.95,
	MaxOutputTokens:  65536,
	ResponseMimeType: "text/plain",
}

// Provider produces an assistant reply for an accumulated message log.
type Provider interface {
	Complete(ctx context.Context, history []entity.ChatMessage) (string, error)
}

// GeminiChatbot calls the Gemini generateContent endpoint over plain HTTP.
type GeminiChatbot struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiChatbot(cfg config.GeminiConfig) *GeminiChatbot {
	return &GeminiChatbot{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *GeminiChatbot) Complete(ctx context.Context, history []entity.ChatMessage) (string, error) {
	chatContents := make([]*GeminiChatContent, 0, len(history))
	for _, msg := range history {
		role := ChatMessageRoleModel
		if msg.IsUser {
			role = ChatMessageRoleUser
		}
		chatContents = append(chatContents, &GeminiChatContent{
			Parts: []*GeminiChatParts{
				{
					Text: msg.Text,
				},
			},
			Role: role,
		})
	}

	generationConfig := defaultGenerationConfig
	payload := GeminiChatRequest{
		Contents:         chatContents,
		GenerationConfig: &generationConfig,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "failed to encode provider request", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model),
		bytes.NewBuffer(payloadJson),
	)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "failed to build provider request", err)
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "provider call failed", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "failed to read provider response", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", apperr.Wrap(
			apperr.KindProvider,
			"provider returned an error",
			fmt.Errorf("status %d with response body %s", res.StatusCode, string(resBody)),
		)
	}

	var geminiRes GeminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "failed to decode provider response", err)
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", apperr.New(apperr.KindProvider, "provider returned no candidates")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}
