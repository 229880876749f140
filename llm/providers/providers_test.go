package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhorn/scriptorium/llm"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		baseURL  string
		want     string
	}{
		{"ollama default", &OllamaProvider{}, "", "http://localhost:11434/v1/chat/completions"},
		{"ollama custom", &OllamaProvider{}, "http://gpu-box:8000/v1", "http://gpu-box:8000/v1/chat/completions"},
		{"ollama trailing slash", &OllamaProvider{}, "http://gpu-box:8000/v1/", "http://gpu-box:8000/v1/chat/completions"},
		{"ollama full path", &OllamaProvider{}, "http://gpu-box:8000/v1/chat/completions", "http://gpu-box:8000/v1/chat/completions"},
		{"openai default", &OpenAIProvider{}, "", "https://api.openai.com/v1/chat/completions"},
		{"anthropic default", &AnthropicProvider{}, "", "https://api.anthropic.com/v1/messages"},
		{"anthropic custom", &AnthropicProvider{}, "https://proxy.example.com", "https://proxy.example.com/v1/messages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.BuildURL(tt.baseURL))
		})
	}
}

func TestOllamaBuildRequestBody(t *testing.T) {
	p := &OllamaProvider{}
	temp := 0.2

	body, err := p.BuildRequestBody("qwen2.5:14b", []llm.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "hello"},
	}, &temp, 0)
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	assert.Equal(t, "qwen2.5:14b", req["model"])
	assert.Equal(t, 0.2, req["temperature"])
	assert.NotContains(t, req, "max_tokens", "omitted when zero")

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

func TestOllamaBuildRequestBody_MaxTokens(t *testing.T) {
	p := &OllamaProvider{}

	body, err := p.BuildRequestBody("qwen2.5:14b", []llm.Message{
		{Role: "user", Content: "hello"},
	}, nil, 512)
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	assert.Equal(t, float64(512), req["max_tokens"])
	assert.NotContains(t, req, "temperature", "omitted when nil")
}

func TestAnthropicBuildRequestBody(t *testing.T) {
	p := &AnthropicProvider{}

	body, err := p.BuildRequestBody("claude-sonnet-4-20250514", []llm.Message{
		{Role: "system", Content: "translation charter"},
		{Role: "user", Content: "GEN 1:1"},
	}, nil, 0)
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	// System message is lifted into the top-level field.
	assert.Equal(t, "translation charter", req["system"])
	msgs := req["messages"].([]any)
	require.Len(t, msgs, 1)
	only := msgs[0].(map[string]any)
	assert.Equal(t, "user", only["role"])

	// Anthropic requires max_tokens, so a default is applied.
	assert.Equal(t, float64(4096), req["max_tokens"])
}

func TestOllamaParseResponse(t *testing.T) {
	body := []byte(`{
		"model": "qwen2.5:14b",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "In the beginning"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 20, "completion_tokens": 4, "total_tokens": 24}
	}`)

	p := &OllamaProvider{}
	resp, err := p.ParseResponse(body, "qwen2.5:14b")
	require.NoError(t, err)

	assert.Equal(t, "In the beginning", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 24, resp.Usage.TotalTokens)
}

func TestOllamaParseResponse_NoChoices(t *testing.T) {
	p := &OllamaProvider{}
	_, err := p.ParseResponse([]byte(`{"choices": []}`), "m")
	assert.ErrorContains(t, err, "no choices")
}

func TestAnthropicParseResponse(t *testing.T) {
	body := []byte(`{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"content": [
			{"type": "text", "text": "In the beginning "},
			{"type": "text", "text": "God created"}
		],
		"model": "claude-sonnet-4-20250514",
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 30, "output_tokens": 6}
	}`)

	p := &AnthropicProvider{}
	resp, err := p.ParseResponse(body, "claude-sonnet-4-20250514")
	require.NoError(t, err)

	assert.Equal(t, "In the beginning God created", resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 36, resp.Usage.TotalTokens)
}

func TestProviderRegistration(t *testing.T) {
	for _, name := range []string{"ollama", "openai", "anthropic"} {
		assert.NotNil(t, llm.GetProvider(name), "provider %q should self-register", name)
	}
	assert.Nil(t, llm.GetProvider("nonexistent"))
}
