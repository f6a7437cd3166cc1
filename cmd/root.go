// File: cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/observability"
)

var (
	cfgFile   string
	headless  bool
	modelMode string
	appConfig *config.Config
)

// rootCmd represents the base command. Invoked with an instruction it runs
// the agent once; without arguments it drops into an interactive session.
var rootCmd = &cobra.Command{
	Use:   "pagepilot [instruction]",
	Short: "PagePilot is an AI agent that drives a real browser in a humanlike way.",
	Long: `PagePilot pairs a reasoning model with a Chrome session: the model plans
tool calls (navigate, click, type, read), a humanlike pointer simulator
carries them out, and in dual mode a vision model reads screenshots to
ground every decision in what the page actually shows.`,
	Args: cobra.ArbitraryArgs,
	// Version is dynamically set at build time. See cmd/version.go.
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// This function runs before any command, setting up config and logging.
		if err := initializeConfig(); err != nil {
			return err
		}

		cfg, err := config.NewConfigFromViper(viper.GetViper())
		if err != nil {
			// Initialize a fallback logger so the error is at least visible.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "pagepilot"})
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("headless") {
			cfg.SetBrowserHeadless(headless)
		}

		appConfig = cfg
		observability.InitializeLogger(cfg.Logger())
		observability.GetLogger().Info("Starting PagePilot", zap.String("version", Version))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd.Context(), appConfig, strings.Join(args, " "))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Use the logger if available, otherwise fallback to stderr.
		if logger := observability.GetLogger(); logger != nil && logger != zap.NewNop() {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "run the browser without a visible window")
	rootCmd.Flags().StringVar(&modelMode, "mode", "", "model mode: single or dual (overrides config)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PAGEPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if modelMode != "" {
		viper.Set("llm.mode", modelMode)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}
	return nil
}
