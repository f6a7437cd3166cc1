// File: internal/llmclient/client.go
package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// ErrEmptyResponse indicates the model returned no choices.
var ErrEmptyResponse = errors.New("llmclient: model returned no choices")

// completionAPI is the slice of the OpenAI-compatible client the chat client
// needs. Narrowing it here keeps tests free of real network transports.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatClient wraps an OpenAI-compatible chat-completions endpoint with retry
// handling. SiliconFlow, Ollama and OpenAI proper all speak this protocol.
type ChatClient struct {
	api    completionAPI
	cfg    config.ModelConfig
	logger *zap.Logger
}

// NewChatClient builds a client for a single configured model endpoint.
func NewChatClient(cfg config.ModelConfig, logger *zap.Logger) (*ChatClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llmclient: model name is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = cfg.Endpoint
	}
	if cfg.APITimeout > 0 {
		apiCfg.HTTPClient = &http.Client{Timeout: cfg.APITimeout}
	}

	return &ChatClient{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		logger: logger.Named("llm_client").With(zap.String("model", cfg.Model)),
	}, nil
}

// Model reports the configured model identifier.
func (c *ChatClient) Model() string { return c.cfg.Model }

// Complete sends the conversation to the model and returns the first choice.
// Transient failures (429, 5xx, transport errors) are retried with
// exponential backoff; client errors are permanent.
func (c *ChatClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if len(tools) > 0 {
		req.Tools = tools
	}

	var resp openai.ChatCompletionResponse

	operation := func() error {
		var err error
		resp, err = c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return c.classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(ErrEmptyResponse)
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = 2 * time.Minute
	expBackoff.MaxInterval = 30 * time.Second

	notify := func(err error, d time.Duration) {
		c.logger.Warn("Retrying model call after transient failure.",
			zap.Error(err),
			zap.Duration("backoff", d))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(expBackoff, ctx), notify); err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion failed: %w", err)
	}

	c.logger.Info("Model call finished.",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))

	return resp.Choices[0].Message, nil
}

// classifyError decides whether an API failure should be retried.
func (c *ChatClient) classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return err // Retryable.
		default:
			return backoff.Permanent(err)
		}
	}
	// Transport or decoding errors are worth a retry.
	return err
}
