package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatClient struct {
	requests []ChatRequest
	response string
	err      error
	deadline bool
}

func (c *fakeChatClient) CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	c.requests = append(c.requests, req)
	_, c.deadline = ctx.Deadline()
	return c.response, c.err
}

func TestAISummarizeChunk(t *testing.T) {
	client := &fakeChatClient{response: "- point one"}
	config := validConfig()
	config.Backend = BackendOpenAI
	config.MaxTokens = 512
	config.SummaryTimeout = time.Minute
	ai := NewAI(client, NewPromptManager(t.TempDir(), "{{.Title}}|{{.Part}}/{{.Parts}}|{{.Transcript}}"), config)

	summary, err := ai.SummarizeChunk(context.Background(), "chunk text", ChunkParams{Title: "Talk", Index: 1, Total: 2})
	require.NoError(t, err)
	assert.Equal(t, "- point one", summary)

	require.Len(t, client.requests, 1)
	assert.Equal(t, ChatRequest{
		Model:       "gpt-4o-mini",
		Prompt:      "Talk|2/2|chunk text",
		Temperature: 0.45,
		MaxTokens:   512,
	}, client.requests[0])
	assert.True(t, client.deadline)
}

func TestAISummarizeChunkError(t *testing.T) {
	client := &fakeChatClient{err: errors.New("429 too many requests")}
	ai := NewAI(client, NewPromptManager(t.TempDir(), ""), validConfig())

	_, err := ai.SummarizeChunk(context.Background(), "text", ChunkParams{})
	assert.ErrorContains(t, err, "creating chat completion: 429 too many requests")
}

func TestAIWithoutKeyFailsOnFirstUse(t *testing.T) {
	config := validConfig()
	ai := NewAIWithKey(NewPromptManager(t.TempDir(), ""), config)

	_, err := ai.SummarizeChunk(context.Background(), "text", ChunkParams{})
	assert.ErrorContains(t, err, "Groq API key is required")
}

func TestOpenAIClientChatCompletion(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama-3.1-8b-instant",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "## Summary"}}]
		}`))
	}))
	defer srv.Close()

	client, err := NewChatClient(context.Background(), BackendGroq, "gsk_test", srv.URL)
	require.NoError(t, err)

	content, err := client.CreateChatCompletion(context.Background(), ChatRequest{
		Model:       "llama-3.1-8b-instant",
		Prompt:      "summarize this",
		Temperature: 0.3,
		MaxTokens:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "## Summary", content)

	assert.Equal(t, "llama-3.1-8b-instant", got["model"])
	assert.InDelta(t, 0.3, got["temperature"], 1e-9)
	assert.InDelta(t, 100, got["max_tokens"], 1e-9)
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestNewChatClientRejectsUnknownBackend(t *testing.T) {
	_, err := NewChatClient(context.Background(), "ollama", "key", "")
	assert.Error(t, err)
}
