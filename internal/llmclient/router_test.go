// File: internal/llmclient/router_test.go
package llmclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

func dualLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Mode:      config.ModeDual,
		Reasoning: config.ModelConfig{Model: "reasoner"},
		Vision:    config.ModelConfig{Model: "looker"},
	}
}

func TestNewRouterDualMode(t *testing.T) {
	r, err := NewRouter(dualLLMConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.True(t, r.DualMode())
	require.NotNil(t, r.Reasoning())
	require.NotNil(t, r.Vision())
	assert.Equal(t, "reasoner", r.Reasoning().Model())
	assert.Equal(t, "looker", r.Vision().Model())
}

func TestNewRouterSingleMode(t *testing.T) {
	cfg := dualLLMConfig()
	cfg.Mode = config.ModeSingle
	cfg.Vision = config.ModelConfig{}

	r, err := NewRouter(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, r.DualMode())
	assert.Nil(t, r.Vision())
}

func TestNewRouterRequiresReasoningModel(t *testing.T) {
	cfg := dualLLMConfig()
	cfg.Reasoning.Model = ""

	_, err := NewRouter(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestVisionAnalyzeRejectsEmptyScreenshot(t *testing.T) {
	r, err := NewRouter(dualLLMConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = r.Vision().Analyze(context.Background(), "what is here", "")
	assert.Error(t, err)
}
