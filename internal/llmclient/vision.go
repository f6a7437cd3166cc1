// File: internal/llmclient/vision.go
package llmclient

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// VisionClient sends screenshot-plus-prompt requests to a multimodal model.
type VisionClient struct {
	chat   *ChatClient
	logger *zap.Logger
}

// NewVisionClient builds a vision client over the shared chat transport.
func NewVisionClient(cfg config.ModelConfig, logger *zap.Logger) (*VisionClient, error) {
	chat, err := NewChatClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &VisionClient{
		chat:   chat,
		logger: logger.Named("llm_client.vision").With(zap.String("model", cfg.Model)),
	}, nil
}

// Model reports the configured vision model identifier.
func (v *VisionClient) Model() string { return v.chat.Model() }

// Analyze submits a PNG screenshot with an instruction and returns the raw
// model text. The image travels as a base64 data URL content part.
func (v *VisionClient) Analyze(ctx context.Context, prompt string, pngBase64 string) (string, error) {
	if pngBase64 == "" {
		return "", fmt.Errorf("llmclient: empty screenshot")
	}

	messages := []openai.ChatCompletionMessage{imageMessage(prompt, pngBase64)}

	reply, err := v.chat.Complete(ctx, messages, nil)
	if err != nil {
		return "", fmt.Errorf("vision analysis failed: %w", err)
	}

	v.logger.Debug("Vision analysis finished.", zap.Int("reply_len", len(reply.Content)))
	return reply.Content, nil
}

// AnalyzePair submits two screenshots as consecutive user messages, each with
// its own caption. Used for before/after page comparison.
func (v *VisionClient) AnalyzePair(ctx context.Context, firstPrompt, firstPNG, secondPrompt, secondPNG string) (string, error) {
	if firstPNG == "" || secondPNG == "" {
		return "", fmt.Errorf("llmclient: empty screenshot")
	}

	messages := []openai.ChatCompletionMessage{
		imageMessage(firstPrompt, firstPNG),
		imageMessage(secondPrompt, secondPNG),
	}

	reply, err := v.chat.Complete(ctx, messages, nil)
	if err != nil {
		return "", fmt.Errorf("vision comparison failed: %w", err)
	}
	return reply.Content, nil
}

func imageMessage(prompt, pngBase64 string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: prompt,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:image/png;base64," + pngBase64,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	}
}
