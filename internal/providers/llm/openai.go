package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sandevgo/voxbot/internal/core"
)

// OpenAI uses the official API through the go-openai SDK instead of
// the hand-rolled compatible client.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAI) Chat(ctx context.Context, system string, history []core.Message, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userText})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) ClassifyAndExtract(ctx context.Context, text string, view core.ConversationView) (core.Extraction, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildExtractionPrompt(view)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return core.Extraction{}, fmt.Errorf("extraction completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.Extraction{}, fmt.Errorf("empty choices")
	}

	var extraction core.Extraction
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return core.Extraction{}, fmt.Errorf("decode extraction %q: %w", content, err)
	}
	return normalizeExtraction(extraction), nil
}
