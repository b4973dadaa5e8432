package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint
const GroqBaseURL = "https://api.groq.com/openai/v1"

// ChatRequest is a single-prompt completion request
type ChatRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ChatClient defines the completion call every backend provides
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK. It also serves Groq
// through its OpenAI-compatible API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new client, baseURL may be empty for api.openai.com
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from %s", req.Model)
	}
	return resp.Choices[0].Message.Content, nil
}

// NewChatClient builds the client for a backend
func NewChatClient(ctx context.Context, backend, apiKey, baseURL string) (ChatClient, error) {
	if err := ValidateAPIKey(backend, apiKey); err != nil {
		return nil, err
	}
	switch backend {
	case BackendGroq:
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIClient(apiKey, baseURL), nil
	case BackendOpenAI:
		return NewOpenAIClient(apiKey, baseURL), nil
	case BackendGemini:
		return NewGeminiClient(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// AI summarizes transcript chunks through a ChatClient
type AI struct {
	client      ChatClient
	prompts     *PromptManager
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration

	backend    string
	apiKey     string
	baseURL    string
	clientOnce sync.Once
	clientErr  error
}

// NewAI creates a summarizer around an existing client
func NewAI(client ChatClient, prompts *PromptManager, config *Config) *AI {
	return &AI{
		client:      client,
		prompts:     prompts,
		model:       config.ModelName(),
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		timeout:     config.SummaryTimeout,
		backend:     config.Backend,
	}
}

// NewAIWithKey creates a summarizer that builds its client on first use,
// so commands that never summarize do not need an API key
func NewAIWithKey(prompts *PromptManager, config *Config) *AI {
	ai := NewAI(nil, prompts, config)
	ai.apiKey = config.APIKey()
	ai.baseURL = config.BaseURL
	return ai
}

// SetPromptManager replaces the prompt templates
func (ai *AI) SetPromptManager(pm *PromptManager) {
	ai.prompts = pm
}

// ensureClient initializes the backend client if needed
func (ai *AI) ensureClient(ctx context.Context) error {
	ai.clientOnce.Do(func() {
		if ai.client != nil {
			return
		}
		ai.client, ai.clientErr = NewChatClient(ctx, ai.backend, ai.apiKey, ai.baseURL)
	})
	return ai.clientErr
}

// SummarizeChunk builds the prompt for one chunk and asks the backend for its summary
func (ai *AI) SummarizeChunk(ctx context.Context, text string, params ChunkParams) (string, error) {
	if err := ai.ensureClient(ctx); err != nil {
		return "", err
	}

	prompt, err := ai.prompts.CreatePrompt(text, params)
	if err != nil {
		return "", fmt.Errorf("creating prompt: %w", err)
	}

	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	content, err := ai.client.CreateChatCompletion(ctx, ChatRequest{
		Model:       ai.model,
		Prompt:      prompt,
		Temperature: ai.temperature,
		MaxTokens:   ai.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	return content, nil
}
