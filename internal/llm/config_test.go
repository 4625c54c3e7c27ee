package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-5-nano", config.GetModel(TierLite))
	assert.Equal(t, "gpt-5-mini", config.GetModel(TierStandard))
	assert.Equal(t, "gpt-5", config.GetModel(TierAdvanced))
	assert.Equal(t, "minimal", config.ReasoningEffort)
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Empty(t, config.ReasoningEffort)
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, ProviderGemini, ConfigFor(ProviderGemini).Provider)
	assert.Equal(t, ProviderOpenAI, ConfigFor(ProviderOpenAI).Provider)
	assert.Equal(t, ProviderOpenAI, ConfigFor("other").Provider)
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input    string
		expected Provider
		wantErr  bool
	}{
		{input: "", expected: ProviderOpenAI},
		{input: "openai", expected: ProviderOpenAI},
		{input: " Gemini ", expected: ProviderGemini},
		{input: "anthropic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseProvider(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	config.BaseURL = "http://gateway.local/v1"
	newConfig := config.WithModel(TierStandard, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gpt-5-mini", config.GetModel(TierStandard))

	assert.Equal(t, "custom-model", newConfig.GetModel(TierStandard))
	assert.Equal(t, "gpt-5-nano", newConfig.GetModel(TierLite))
	assert.Equal(t, "http://gateway.local/v1", newConfig.BaseURL)
	assert.Equal(t, "minimal", newConfig.ReasoningEffort)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(t.Context(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(t.Context(), &Config{Provider: "anthropic"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
