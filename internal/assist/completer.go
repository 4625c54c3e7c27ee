package assist

import (
	"context"

	"github.com/toc-cloud/toc-cloud/internal/llm"
)

// Completer sends one structured prompt to a completion service and returns its raw
// reply. Implementations must not retry.
type Completer interface {
	Complete(ctx context.Context, prompt, schemaName string, schema map[string]any) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt, schemaName string, schema map[string]any) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt, schemaName string, schema map[string]any) (string, error) {
	return f(ctx, prompt, schemaName, schema)
}

// LLMCompleter is a Completer backed by an llm.Client.
type LLMCompleter struct {
	Client llm.Client
	Tier   llm.ModelTier
}

// Complete requests schema-constrained output at the configured tier.
func (c *LLMCompleter) Complete(ctx context.Context, prompt, schemaName string, schema map[string]any) (string, error) {
	tier := c.Tier
	if tier == "" {
		tier = llm.TierStandard
	}
	return c.Client.GenerateStructured(ctx, llm.StructuredRequest{
		Prompt:     prompt,
		SchemaName: schemaName,
		Schema:     schema,
	}, tier)
}
