package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/voxbot/internal/core"
)

type OpenAICompatible struct {
	apiClient
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		apiClient:    newAPIClient(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

func (o *OpenAICompatible) Chat(ctx context.Context, system string, history []core.Message, userText string) (string, error) {
	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: userText})

	payload := map[string]any{
		"model":    o.model,
		"messages": messages,
	}

	resp, err := o.postJSON(ctx, "/v1/chat/completions", payload, o.headers())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return parseChatResponse(resp)
}

// ClassifyAndExtract runs one deterministic extraction call. JSON mode
// plus temperature 0 keeps the output parseable.
func (o *OpenAICompatible) ClassifyAndExtract(ctx context.Context, text string, view core.ConversationView) (core.Extraction, error) {
	payload := map[string]any{
		"model": o.model,
		"messages": []core.Message{
			{Role: core.RoleSystem, Content: buildExtractionPrompt(view)},
			{Role: core.RoleUser, Content: text},
		},
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
	}

	resp, err := o.postJSON(ctx, "/v1/chat/completions", payload, o.headers())
	if err != nil {
		return core.Extraction{}, err
	}
	defer resp.Body.Close()

	content, err := parseChatResponse(resp)
	if err != nil {
		return core.Extraction{}, err
	}

	var extraction core.Extraction
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return core.Extraction{}, fmt.Errorf("decode extraction %q: %w", content, err)
	}
	return normalizeExtraction(extraction), nil
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}

func parseChatResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}
