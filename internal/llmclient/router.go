// File: internal/llmclient/router.go
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// Router holds the clients for the configured model mode. In dual mode the
// reasoning model plans tool calls while the vision model reads screenshots;
// in single mode Vision() returns nil and callers skip visual features.
type Router struct {
	logger    *zap.Logger
	mode      config.ModelMode
	reasoning *ChatClient
	vision    *VisionClient
}

// NewRouter wires clients from the LLM section of the configuration.
func NewRouter(cfg config.LLMConfig, logger *zap.Logger) (*Router, error) {
	reasoning, err := NewChatClient(cfg.Reasoning, logger)
	if err != nil {
		return nil, fmt.Errorf("llmclient: reasoning client: %w", err)
	}

	r := &Router{
		logger:    logger.Named("llm_router"),
		mode:      cfg.Mode,
		reasoning: reasoning,
	}

	if cfg.Mode == config.ModeDual {
		vision, err := NewVisionClient(cfg.Vision, logger)
		if err != nil {
			return nil, fmt.Errorf("llmclient: vision client: %w", err)
		}
		r.vision = vision
	}

	r.logger.Info("LLM router ready.",
		zap.String("mode", string(cfg.Mode)),
		zap.String("reasoning_model", cfg.Reasoning.Model))
	return r, nil
}

// Reasoning returns the tool-capable chat client.
func (r *Router) Reasoning() *ChatClient { return r.reasoning }

// Vision returns the screenshot model, or nil when running in single mode.
func (r *Router) Vision() *VisionClient { return r.vision }

// DualMode reports whether a vision model is available.
func (r *Router) DualMode() bool { return r.vision != nil }
