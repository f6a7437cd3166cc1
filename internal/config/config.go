// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Agent() AgentConfig
	LLM() LLMConfig
	Browser() BrowserConfig

	// Browser setters
	SetBrowserHeadless(bool)
	SetBrowserViewport(width, height int)

	// Pointer setters
	SetPointerEnabled(bool)
	SetPointerSeed(int64)

	// Agent setters
	SetAgentMaxIterations(int)
	SetAgentHistoryWindow(int)

	// LLM setters
	SetLLMAPIKey(string)
	SetLLMEndpoint(string)
}

// Config holds the entire application configuration.
// It uses private fields to enforce access through the Interface's getter methods.
type Config struct {
	logger  LoggerConfig
	agent   AgentConfig
	llm     LLMConfig
	browser BrowserConfig
}

// sections is the unmarshal target. Viper's decoder only writes exported
// fields, so decoding happens here and the result is copied into Config's
// private fields.
type sections struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

func (s sections) config() *Config {
	return &Config{
		logger:  s.Logger,
		agent:   s.Agent,
		llm:     s.LLM,
		browser: s.Browser,
	}
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.logger }
func (c *Config) Agent() AgentConfig     { return c.agent }
func (c *Config) LLM() LLMConfig         { return c.llm }
func (c *Config) Browser() BrowserConfig { return c.browser }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserHeadless(b bool) { c.browser.Headless = b }
func (c *Config) SetBrowserViewport(w, h int) {
	c.browser.ViewportWidth = w
	c.browser.ViewportHeight = h
}

func (c *Config) SetPointerEnabled(b bool)  { c.browser.Pointer.Enabled = b }
func (c *Config) SetPointerSeed(seed int64) { c.browser.Pointer.Seed = seed }

func (c *Config) SetAgentMaxIterations(n int) { c.agent.MaxIterations = n }
func (c *Config) SetAgentHistoryWindow(n int) { c.agent.HistoryWindow = n }

func (c *Config) SetLLMAPIKey(key string)  { c.llm.Reasoning.APIKey = key }
func (c *Config) SetLLMEndpoint(ep string) { c.llm.Reasoning.Endpoint = ep }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AgentConfig tunes the conversation loop.
type AgentConfig struct {
	// MaxIterations bounds the number of tool calls a single user request may
	// trigger before the agent reports progress and asks to continue.
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
	// HistoryWindow is the number of most recent turns replayed to the model.
	HistoryWindow int `mapstructure:"history_window" yaml:"history_window"`
	// CommentStreamDelay is the per-character delay when streaming tool
	// commentary to the user; AnswerStreamDelay applies to final answers.
	CommentStreamDelay time.Duration `mapstructure:"comment_stream_delay" yaml:"comment_stream_delay"`
	AnswerStreamDelay  time.Duration `mapstructure:"answer_stream_delay" yaml:"answer_stream_delay"`
	// FailurePause is how long the agent idles after a failed tool, while the
	// pointer plays its panic burst.
	FailurePause time.Duration `mapstructure:"failure_pause" yaml:"failure_pause"`
	// ToolPause is the settle delay between consecutive tool executions.
	ToolPause time.Duration `mapstructure:"tool_pause" yaml:"tool_pause"`
}

// LLMProvider names a chat-completions compatible backend.
type LLMProvider string

const (
	ProviderOpenAI      LLMProvider = "openai"
	ProviderSiliconFlow LLMProvider = "siliconflow"
	ProviderOllama      LLMProvider = "ollama"
)

// ModelMode selects how many models the agent drives.
type ModelMode string

const (
	// ModeSingle runs only the reasoning model.
	ModeSingle ModelMode = "single"
	// ModeDual adds a vision model for screenshot analysis and locating.
	ModeDual ModelMode = "dual"
)

// LLMConfig configures the model routing logic.
type LLMConfig struct {
	Mode      ModelMode   `mapstructure:"mode" yaml:"mode"`
	Reasoning ModelConfig `mapstructure:"reasoning" yaml:"reasoning"`
	Vision    ModelConfig `mapstructure:"vision" yaml:"vision"`
}

// ModelConfig defines the configuration for a single model endpoint.
type ModelConfig struct {
	Provider    LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float32       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless       bool          `mapstructure:"headless" yaml:"headless"`
	DisableCache   bool          `mapstructure:"disable_cache" yaml:"disable_cache"`
	ViewportWidth  int           `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	Args           []string      `mapstructure:"args" yaml:"args"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout" yaml:"nav_timeout"`
	PostLoadWait   time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	Pointer        PointerConfig `mapstructure:"pointer" yaml:"pointer"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var s sections
	if err := v.Unmarshal(&s); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return s.config()
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pagepilot")
	v.SetDefault("logger.log_file", "pagepilot.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Agent --
	v.SetDefault("agent.max_iterations", 30)
	v.SetDefault("agent.history_window", 200)
	v.SetDefault("agent.comment_stream_delay", 20*time.Millisecond)
	v.SetDefault("agent.answer_stream_delay", 15*time.Millisecond)
	v.SetDefault("agent.failure_pause", 1200*time.Millisecond)
	v.SetDefault("agent.tool_pause", 300*time.Millisecond)

	// -- LLM --
	v.SetDefault("llm.mode", string(ModeDual))
	v.SetDefault("llm.reasoning.provider", string(ProviderSiliconFlow))
	v.SetDefault("llm.reasoning.endpoint", "https://api.siliconflow.cn/v1")
	v.SetDefault("llm.reasoning.model", "deepseek-ai/DeepSeek-V3")
	v.SetDefault("llm.reasoning.api_timeout", "120s")
	v.SetDefault("llm.reasoning.temperature", 0.7)
	v.SetDefault("llm.reasoning.max_tokens", 4096)
	v.SetDefault("llm.vision.provider", string(ProviderSiliconFlow))
	v.SetDefault("llm.vision.endpoint", "https://api.siliconflow.cn/v1")
	v.SetDefault("llm.vision.model", "deepseek-ai/DeepSeek-OCR")
	v.SetDefault("llm.vision.api_timeout", "120s")
	v.SetDefault("llm.vision.temperature", 0.2)
	v.SetDefault("llm.vision.max_tokens", 2048)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_cache", false)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 800)
	v.SetDefault("browser.nav_timeout", "90s")
	v.SetDefault("browser.post_load_wait", "2s")
	setPointerDefaults(v)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for sensitive data.
	v.BindEnv("llm.reasoning.api_key", "PAGEPILOT_API_KEY")
	v.BindEnv("llm.vision.api_key", "PAGEPILOT_VISION_API_KEY")

	var s sections
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := s.config()

	// The vision key usually shares the reasoning key's account.
	if cfg.llm.Vision.APIKey == "" {
		cfg.llm.Vision.APIKey = cfg.llm.Reasoning.APIKey
	}
	if cfg.llm.Reasoning.APIKey == "" {
		cfg.llm.Reasoning.APIKey = os.Getenv("PAGEPILOT_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.agent.MaxIterations <= 0 {
		return fmt.Errorf("agent.max_iterations must be a positive integer")
	}
	if c.agent.HistoryWindow <= 0 {
		return fmt.Errorf("agent.history_window must be a positive integer")
	}
	if c.browser.ViewportWidth <= 0 || c.browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport dimensions must be positive")
	}
	if c.llm.Mode != ModeSingle && c.llm.Mode != ModeDual {
		return fmt.Errorf("llm.mode must be %q or %q", ModeSingle, ModeDual)
	}
	if c.llm.Reasoning.Model == "" {
		return fmt.Errorf("llm.reasoning.model is required")
	}
	if c.llm.Mode == ModeDual && c.llm.Vision.Model == "" {
		return fmt.Errorf("llm.vision.model is required in dual mode")
	}
	return c.browser.Pointer.Validate()
}
