// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toc-cloud/toc-cloud/internal/llm"
)

// AppConfig is the application configuration. It can be loaded from a JSON or YAML
// file; environment variables override file values.
type AppConfig struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Assist   AssistConfig   `json:"assist" yaml:"assist"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// DatabaseConfig configures Postgres.
type DatabaseConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"` // PostgreSQL connection URL
}

// LLMConfig selects the completion provider. API keys come from the environment only.
type LLMConfig struct {
	Provider        string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model           string `json:"model,omitempty" yaml:"model,omitempty"` // overrides the standard tier
	BaseURL         string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	ReasoningEffort string `json:"reasoning_effort,omitempty" yaml:"reasoning_effort,omitempty"`

	OpenAIAPIKey string `json:"-" yaml:"-"`
	GeminiAPIKey string `json:"-" yaml:"-"`
}

// AssistConfig configures the structural linter.
type AssistConfig struct {
	CachePath string   `json:"cache_path,omitempty" yaml:"cache_path,omitempty"` // SQLite file; empty keeps the cache in memory
	CacheTTL  Duration `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`
	CacheSize int      `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	Timeout   Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Duration is a time.Duration written as "90s" or "24h" in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	return d.set(s)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.set(node.Value)
}

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		LLM: LLMConfig{Provider: string(llm.ProviderOpenAI)},
		Assist: AssistConfig{
			CacheTTL:  Duration(24 * time.Hour),
			CacheSize: 1000,
			Timeout:   Duration(60 * time.Second),
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*AppConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg AppConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads path (when set), fills gaps from Default, applies the environment and
// validates the result.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *AppConfig) ApplyEnv(getenv func(string) string) error {
	if v := getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAIAPIKey = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.GeminiAPIKey = v
	}
	if v := getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv("ASSIST_CACHE_PATH"); v != "" {
		c.Assist.CachePath = v
	}
	if v := getenv("ASSIST_CACHE_TTL"); v != "" {
		if err := c.Assist.CacheTTL.set(v); err != nil {
			return fmt.Errorf("invalid ASSIST_CACHE_TTL: %w", err)
		}
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Server.Port = port
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: the database URL and API keys are checked by the commands that need them.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.LLM.ReasoningEffort {
	case "", "minimal", "low", "medium", "high":
	default:
		return fmt.Errorf("config error: unknown 'llm.reasoning_effort' %q", c.LLM.ReasoningEffort)
	}
	if c.Assist.CacheTTL < 0 {
		return fmt.Errorf("config error: 'assist.cache_ttl' must be non-negative")
	}
	if c.Assist.CacheSize < 0 {
		return fmt.Errorf("config error: 'assist.cache_size' must be non-negative")
	}
	if c.Assist.Timeout < 0 {
		return fmt.Errorf("config error: 'assist.timeout' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new AppConfig with empty fields filled from defaults.
func (c *AppConfig) MergeWithDefaults(defaults AppConfig) AppConfig {
	result := *c

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = append([]string(nil), defaults.Server.AllowedOrigins...)
	}
	if result.Database.URL == "" {
		result.Database.URL = defaults.Database.URL
	}
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.LLM.BaseURL == "" {
		result.LLM.BaseURL = defaults.LLM.BaseURL
	}
	if result.LLM.ReasoningEffort == "" {
		result.LLM.ReasoningEffort = defaults.LLM.ReasoningEffort
	}
	if result.Assist.CachePath == "" {
		result.Assist.CachePath = defaults.Assist.CachePath
	}
	if result.Assist.CacheTTL == 0 {
		result.Assist.CacheTTL = defaults.Assist.CacheTTL
	}
	if result.Assist.CacheSize == 0 {
		result.Assist.CacheSize = defaults.Assist.CacheSize
	}
	if result.Assist.Timeout == 0 {
		result.Assist.Timeout = defaults.Assist.Timeout
	}

	return result
}

// LLMClientConfig builds the llm.Config for the configured provider.
func (c *AppConfig) LLMClientConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return nil, err
	}
	cfg := llm.ConfigFor(provider)
	if c.LLM.Model != "" {
		cfg = cfg.WithModel(llm.TierStandard, c.LLM.Model)
	}
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	if c.LLM.ReasoningEffort != "" {
		cfg.ReasoningEffort = c.LLM.ReasoningEffort
	}
	return cfg, nil
}

// APIKey returns the key for the configured provider, or an error naming the
// variable to set.
func (c *AppConfig) APIKey() (string, error) {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return "", err
	}
	switch provider {
	case llm.ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return "", fmt.Errorf("GEMINI_API_KEY is required for provider gemini")
		}
		return c.LLM.GeminiAPIKey, nil
	default:
		if c.LLM.OpenAIAPIKey == "" {
			return "", fmt.Errorf("OPENAI_API_KEY is required for provider openai")
		}
		return c.LLM.OpenAIAPIKey, nil
	}
}
