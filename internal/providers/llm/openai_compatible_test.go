package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string, inspect func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if inspect != nil {
			inspect(body)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestChat_BuildsMessageList(t *testing.T) {
	var gotMessages []any
	srv := chatServer(t, "hello back", func(body map[string]any) {
		gotMessages = body["messages"].([]any)
		assert.Equal(t, "phi3:mini", body["model"])
	})
	defer srv.Close()

	p := NewOpenAICompatible(OpenAICompatibleConfig{BaseURL: srv.URL, Model: "phi3:mini"})
	history := []core.Message{
		{Role: core.RoleUser, Content: "hi"},
		{Role: core.RoleAssistant, Content: "hello"},
	}

	reply, err := p.Chat(context.Background(), "be brief", history, "how are you?")
	require.NoError(t, err)
	assert.Equal(t, "hello back", reply)

	require.Len(t, gotMessages, 4)
	first := gotMessages[0].(map[string]any)
	last := gotMessages[3].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "be brief", first["content"])
	assert.Equal(t, "user", last["role"])
	assert.Equal(t, "how are you?", last["content"])
}

func TestClassifyAndExtract_JSONMode(t *testing.T) {
	var gotBody map[string]any
	srv := chatServer(t,
		`{"intent": "calendar_create", "title": "Standup", "location": "Berlin"}`,
		func(body map[string]any) { gotBody = body })
	defer srv.Close()

	p := NewOpenAICompatible(OpenAICompatibleConfig{BaseURL: srv.URL, Model: "phi3:mini"})
	extraction, err := p.ClassifyAndExtract(context.Background(),
		"schedule a standup in Berlin", core.ConversationView{Intent: core.SlotIntentUnknown})
	require.NoError(t, err)

	assert.Equal(t, core.SlotIntentCalendarCreate, extraction.Intent)
	require.NotNil(t, extraction.Title)
	assert.Equal(t, "Standup", *extraction.Title)
	assert.Nil(t, extraction.Day)

	format := gotBody["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
	assert.EqualValues(t, 0, gotBody["temperature"])
}

func TestClassifyAndExtract_UnknownIntentIsNormalized(t *testing.T) {
	srv := chatServer(t, `{"intent": "Book_Flight"}`, nil)
	defer srv.Close()

	p := NewOpenAICompatible(OpenAICompatibleConfig{BaseURL: srv.URL, Model: "phi3:mini"})
	extraction, err := p.ClassifyAndExtract(context.Background(), "book me a flight", core.ConversationView{})
	require.NoError(t, err)
	assert.Equal(t, core.SlotIntentUnknown, extraction.Intent)
}

func TestChat_HTTPErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOpenAICompatible(OpenAICompatibleConfig{BaseURL: srv.URL, Model: "phi3:mini"})
	_, err := p.Chat(context.Background(), "sys", nil, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestBuildExtractionPrompt_IncludesState(t *testing.T) {
	prompt := buildExtractionPrompt(core.ConversationView{
		Intent: core.SlotIntentCalendarCreate,
		Slots:  map[string]string{"title": "Standup"},
		History: []core.Message{
			{Role: core.RoleAssistant, Content: "Please provide location."},
		},
	})
	assert.Contains(t, prompt, "Current task: calendar_create")
	assert.Contains(t, prompt, "- title: Standup")
	assert.Contains(t, prompt, "assistant: Please provide location.")
}
