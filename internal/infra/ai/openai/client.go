package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	ai "github.com/josephheron/devlens/internal/domain/ai"
)

const defaultMaxTokens = 2048

// Client talks to the OpenAI chat completions API. The API key is not
// held here: it arrives per request because it is the caller's
// credential and must not outlive the call.
type Client struct {
	Model     string
	MaxTokens int
}

func NewClient(model string, maxTokens int) *Client {
	return &Client{Model: model, MaxTokens: maxTokens}
}

func (c *Client) Complete(ctx context.Context, apiKey string, req ai.Request) (string, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4o
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Images) > 0 {
		parts := make([]openai.ChatMessagePart, 0, len(req.Images)+1)
		// The text part is always present, even when empty, so the
		// screenshot ordinals stay aligned with the attachment order.
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: req.Text,
		})
		for _, uri := range req.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    uri,
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		user.MultiContent = parts
	} else {
		user.Content = req.Text
	}

	creq := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			user,
		},
	}
	if req.JSONOnly {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		creq.MaxCompletionTokens = maxTokens
	} else {
		creq.MaxTokens = maxTokens
	}

	cli := openai.NewClient(apiKey)
	resp, err := cli.CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
