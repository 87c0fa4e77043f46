package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the OpenAI-compatible chat completions endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "llama3-70b-8192"

	defaultTimeout  = 60 * time.Second
	validateTimeout = 5 * time.Second
)

// Config holds connection details for the completion service. It is passed
// explicitly to NewClient; there is no process-wide API state.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client performs single-turn text completions against an OpenAI-compatible
// chat API. One prompt in, raw text out; the system prompt pins the output
// format the question parser expects.
type Client struct {
	api          *openai.Client
	model        string
	systemPrompt string
	logger       zerolog.Logger
}

// NewClient builds a completion client. Empty config fields fall back to the
// Groq defaults the application ships with.
func NewClient(cfg Config, systemPrompt string, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:          openai.NewClientWithConfig(apiCfg),
		model:        cfg.Model,
		systemPrompt: systemPrompt,
		logger:       logger.With().Str("component", "ai_client").Logger(),
	}
}

// Complete sends one prompt and returns the model's raw completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices in response")
	}

	c.logger.Debug().Str("model", c.model).Int("prompt_len", len(prompt)).Msg("completion received")
	return resp.Choices[0].Message.Content, nil
}

// ValidateKey makes one minimal trial completion to check that the configured
// key is accepted by the service.
func (c *Client) ValidateKey(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a test. Reply 'ok'."},
			{Role: openai.ChatMessageRoleUser, Content: "Say 'ok'."},
		},
	})
	if err != nil {
		return fmt.Errorf("trial completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("trial completion: empty response")
	}
	return nil
}
