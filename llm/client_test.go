package llm_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhorn/scriptorium/llm"
	_ "github.com/inkhorn/scriptorium/llm/providers"
	"github.com/inkhorn/scriptorium/model"
)

// newTestRegistry builds a registry with a single ollama-protocol endpoint
// pointed at the test server.
func newTestRegistry(url string) *model.Registry {
	r := model.NewRegistry(
		map[model.Capability]*model.CapabilityConfig{
			model.CapabilityTranslation: {Preferred: []string{"test-model"}},
		},
		map[string]*model.EndpointConfig{
			"test-model": {Provider: "ollama", URL: url, Model: "test"},
		},
	)
	return r
}

func completionBody(content string) string {
	return fmt.Sprintf(`{
		"model": "test",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`, content)
}

func fastRetry() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        5 * time.Millisecond,
	}
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, completionBody("And God said, Let there be light."))
	}))
	defer srv.Close()

	client := llm.NewClient(newTestRegistry(srv.URL))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "translation",
		Messages: []llm.Message{
			{Role: "system", Content: "charter"},
			{Role: "user", Content: "GEN 1:3"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "And God said, Let there be light.", resp.Content)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.RequestID)
}

func TestComplete_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, completionBody("recovered"))
	}))
	defer srv.Close()

	client := llm.NewClient(newTestRegistry(srv.URL), llm.WithRetryConfig(fastRetry()))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "translation",
		Messages:   []llm.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestComplete_FatalErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := llm.NewClient(newTestRegistry(srv.URL), llm.WithRetryConfig(fastRetry()))

	_, err := client.Complete(context.Background(), llm.Request{
		Capability: "translation",
		Messages:   []llm.Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
	assert.Equal(t, int32(1), calls.Load(), "auth errors must not be retried")
}

func TestComplete_FallbackToSecondEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("from fallback"))
	}))
	defer good.Close()

	registry := model.NewRegistry(
		map[model.Capability]*model.CapabilityConfig{
			model.CapabilityTranslation: {
				Preferred: []string{"primary"},
				Fallback:  []string{"secondary"},
			},
		},
		map[string]*model.EndpointConfig{
			"primary":   {Provider: "ollama", URL: bad.URL, Model: "a"},
			"secondary": {Provider: "ollama", URL: good.URL, Model: "b"},
		},
	)

	client := llm.NewClient(registry, llm.WithRetryConfig(fastRetry()))

	resp, err := client.Complete(context.Background(), llm.Request{
		Capability: "translation",
		Messages:   []llm.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)

	// The failing endpoint was marked unhealthy.
	health := registry.GetEndpointHealth("primary")
	require.NotNil(t, health)
	assert.Positive(t, health.FailureCount)
}

func TestComplete_Validation(t *testing.T) {
	client := llm.NewClient(model.NewDefaultRegistry())

	_, err := client.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	assert.ErrorContains(t, err, "capability")

	_, err = client.Complete(context.Background(), llm.Request{Capability: "translation"})
	assert.ErrorContains(t, err, "message")
}

func TestComplete_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := llm.NewClient(newTestRegistry(srv.URL), llm.WithRetryConfig(llm.RetryConfig{
		MaxAttempts:       10,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        time.Minute,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, llm.Request{
		Capability: "translation",
		Messages:   []llm.Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestErrorClassification(t *testing.T) {
	base := fmt.Errorf("boom")

	assert.True(t, llm.IsTransient(llm.NewTransientError(base)))
	assert.False(t, llm.IsFatal(llm.NewTransientError(base)))
	assert.True(t, llm.IsFatal(llm.NewFatalError(base)))
	assert.False(t, llm.IsTransient(base))

	wrapped := fmt.Errorf("context: %w", llm.NewFatalError(base))
	assert.True(t, llm.IsFatal(wrapped))
}
