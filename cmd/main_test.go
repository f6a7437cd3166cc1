// File: cmd/main_test.go
package cmd

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/observability"
)

// resetForTest provides the single source of truth for resetting test state.
func resetForTest(t *testing.T) {
	t.Helper()

	// 1. Reset Viper and prevent auto-discovery of a real config.yaml.
	viper.Reset()
	viper.SetConfigName("a-config-file-that-does-not-exist")

	// 2. Reset package-level variables from root.go.
	cfgFile = ""
	headless = true
	modelMode = ""
	appConfig = nil

	// 3. Reset the logger to a silent state.
	observability.InitializeLogger(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "test"})
}
