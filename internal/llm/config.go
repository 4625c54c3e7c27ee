// Package llm provides centralized LLM configuration and client abstractions.
// The structural linter talks to a completion service through Client, so the
// provider can be switched without touching the linter.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap, high-volume checks
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as the structure check
	TierStandard ModelTier = "standard"
	// TierAdvanced is for slower, more careful reviews
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderOpenAI uses the OpenAI Responses API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// ParseProvider maps a provider name onto a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI, "":
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q", s)
	}
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string
	// ReasoningEffort is passed to reasoning models when set.
	ReasoningEffort string
}

// DefaultConfig returns the default configuration (OpenAI, gpt-5-mini for standard work)
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-5-nano",
			TierStandard: "gpt-5-mini",
			TierAdvanced: "gpt-5",
		},
		ReasoningEffort: "minimal",
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// ConfigFor returns the default configuration for a provider.
func ConfigFor(p Provider) *Config {
	if p == ProviderGemini {
		return DefaultGeminiConfig()
	}
	return DefaultOpenAIConfig()
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:        c.Provider,
		Models:          make(map[ModelTier]string, len(c.Models)+1),
		BaseURL:         c.BaseURL,
		ReasoningEffort: c.ReasoningEffort,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
