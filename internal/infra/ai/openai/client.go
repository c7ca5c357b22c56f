package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"

	domai "github.com/amrgaberm/codesense/internal/domain/ai"
	"github.com/amrgaberm/codesense/internal/infra/ai/prompt"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultOpenAIModel = "gpt-4o-mini"

	// Low temperature keeps review output near-deterministic.
	temperature = 0.1
	maxTokens   = 4096
)

// Client reviews code through a chat-completions endpoint. Groq exposes
// an OpenAI-compatible API, so one adapter serves both providers.
type Client struct {
	api   *openai.Client
	model string
	name  string
}

// NewGroq builds a Groq-backed client. The key comes from config or the
// GROQ_API_KEY environment variable; absence is a construction-time failure.
func NewGroq(apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("groq: set GROQ_API_KEY or ai.api_key: %w", domai.ErrNoCredentials)
	}
	if model == "" {
		model = defaultGroqModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, name: "groq"}, nil
}

// NewOpenAI builds a native OpenAI client. The key comes from config or
// the OPENAI_API_KEY environment variable.
func NewOpenAI(apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: set OPENAI_API_KEY or ai.api_key: %w", domai.ErrNoCredentials)
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, name: "openai"}, nil
}

func (c *Client) Name() string { return c.name }

// Analyze sends one chat-completion request and returns the raw model text.
func (c *Client) Analyze(ctx context.Context, req domai.Request) (string, error) {
	user := prompt.GetUserPrompt(req.Code, req.Language, req.Filename, req.ReviewType)
	return c.complete(ctx, user)
}

// AnalyzeDiff reviews a pull-request patch for a single file.
func (c *Client) AnalyzeDiff(ctx context.Context, req domai.DiffRequest) (string, error) {
	user := prompt.GetDiffPrompt(req.Filename, req.Patch, req.ReviewType)
	return c.complete(ctx, user)
}

func (c *Client) complete(ctx context.Context, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%s: %v: %w", c.name, err, domai.ErrQuotaExceeded)
		}
		return "", fmt.Errorf("%s chat completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty completion response", c.name)
	}
	return resp.Choices[0].Message.Content, nil
}
