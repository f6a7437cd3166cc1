// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "pagepilot", cfg.Logger().ServiceName)

	assert.Equal(t, 30, cfg.Agent().MaxIterations)
	assert.Equal(t, 200, cfg.Agent().HistoryWindow)
	assert.Equal(t, 20*time.Millisecond, cfg.Agent().CommentStreamDelay)
	assert.Equal(t, 15*time.Millisecond, cfg.Agent().AnswerStreamDelay)
	assert.Equal(t, 1200*time.Millisecond, cfg.Agent().FailurePause)

	assert.Equal(t, ModeDual, cfg.LLM().Mode)
	assert.NotEmpty(t, cfg.LLM().Reasoning.Model)
	assert.NotEmpty(t, cfg.LLM().Vision.Model)

	assert.True(t, cfg.Browser().Headless)
	assert.True(t, cfg.Browser().Pointer.Enabled)
	assert.Equal(t, 40.0, cfg.Browser().Pointer.OvershootRadius)
}

func TestNewConfigFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("agent.max_iterations", 5)
	v.Set("browser.headless", false)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Agent().MaxIterations)
	assert.False(t, cfg.Browser().Headless)
}

// Viper's decoder silently skips unexported fields, so the unmarshal must go
// through the exported sections mirror before landing in Config.
func TestUnmarshalPopulatesPrivateSections(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("browser.nav_timeout", "45s")
	v.Set("browser.pointer.curvature", 0.4)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Agent().MaxIterations)
	assert.Equal(t, 45*time.Second, cfg.Browser().NavTimeout)
	assert.Equal(t, 0.4, cfg.Browser().Pointer.Curvature)
	assert.Equal(t, "pagepilot", cfg.Logger().ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(v *viper.Viper)
	}{
		{"zero iterations", func(v *viper.Viper) { v.Set("agent.max_iterations", 0) }},
		{"zero history", func(v *viper.Viper) { v.Set("agent.history_window", 0) }},
		{"bad mode", func(v *viper.Viper) { v.Set("llm.mode", "triple") }},
		{"missing reasoning model", func(v *viper.Viper) { v.Set("llm.reasoning.model", "") }},
		{"dual without vision model", func(v *viper.Viper) { v.Set("llm.vision.model", "") }},
		{"bad curvature", func(v *viper.Viper) { v.Set("browser.pointer.curvature", 1.5) }},
		{"inverted hold bounds", func(v *viper.Viper) {
			v.Set("browser.pointer.click_hold_min_ms", 200)
			v.Set("browser.pointer.click_hold_max_ms", 100)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tc.tweak(v)

			_, err := NewConfigFromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestVisionKeyFallsBackToReasoningKey(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("llm.reasoning.api_key", "sk-shared")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "sk-shared", cfg.LLM().Vision.APIKey)
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.SetBrowserHeadless(false)
	cfg.SetBrowserViewport(1920, 1080)
	cfg.SetPointerEnabled(false)
	cfg.SetPointerSeed(42)
	cfg.SetAgentMaxIterations(10)
	cfg.SetAgentHistoryWindow(50)
	cfg.SetLLMAPIKey("sk-test")
	cfg.SetLLMEndpoint("http://localhost:8080/v1")

	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, 1920, cfg.Browser().ViewportWidth)
	assert.False(t, cfg.Browser().Pointer.Enabled)
	assert.Equal(t, int64(42), cfg.Browser().Pointer.Seed)
	assert.Equal(t, 10, cfg.Agent().MaxIterations)
	assert.Equal(t, 50, cfg.Agent().HistoryWindow)
	assert.Equal(t, "sk-test", cfg.LLM().Reasoning.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.LLM().Reasoning.Endpoint)
}
