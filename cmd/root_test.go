// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// TestRootCmd_VersionFlag tests if the --version flag works correctly.
func TestRootCmd_VersionFlag(t *testing.T) {
	resetForTest(t)

	// Arrange
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--version"})

	// Act
	err := rootCmd.ExecuteContext(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), Version)
}

// TestRootCmd_HelpFlag verifies the long description reaches the user
// without touching the browser or model wiring.
func TestRootCmd_HelpFlag(t *testing.T) {
	resetForTest(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.ExecuteContext(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "PagePilot pairs a reasoning model with a Chrome session")
	assert.Contains(t, out.String(), "--headless")
	assert.Contains(t, out.String(), "--mode")
}

func TestInitializeConfig_AppliesDefaults(t *testing.T) {
	resetForTest(t)

	require.NoError(t, initializeConfig())

	assert.Equal(t, 30, viper.GetInt("agent.max_iterations"))
	assert.Equal(t, 200, viper.GetInt("agent.history_window"))
	assert.Equal(t, "dual", viper.GetString("llm.mode"))
	assert.True(t, viper.GetBool("browser.headless"))
}

func TestInitializeConfig_ModeFlagOverridesConfig(t *testing.T) {
	resetForTest(t)
	modelMode = "single"

	require.NoError(t, initializeConfig())

	assert.Equal(t, "single", viper.GetString("llm.mode"))
}

func TestInitializeConfig_EnvOverrides(t *testing.T) {
	resetForTest(t)
	t.Setenv("PAGEPILOT_AGENT_MAX_ITERATIONS", "50")
	t.Setenv("PAGEPILOT_API_KEY", "sk-test")

	require.NoError(t, initializeConfig())

	assert.Equal(t, 50, viper.GetInt("agent.max_iterations"))
	assert.Equal(t, "sk-test", viper.GetString("llm.reasoning.api_key"))
}

// TestInitializeConfig_ProducesValidConfig confirms the defaults alone form
// a configuration that passes validation, so a bare invocation works.
func TestInitializeConfig_ProducesValidConfig(t *testing.T) {
	resetForTest(t)

	require.NoError(t, initializeConfig())

	cfg, err := config.NewConfigFromViper(viper.GetViper())
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Browser().ViewportWidth)
	assert.Equal(t, 800, cfg.Browser().ViewportHeight)
	assert.NotEmpty(t, cfg.LLM().Reasoning.Model)
}

func TestInitializeConfig_MissingConfigFileIsFatalWhenExplicit(t *testing.T) {
	resetForTest(t)
	cfgFile = "/nonexistent/path/config.yaml"

	err := initializeConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
