package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client on top of the OpenAI Responses API.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. Requests are never retried here.
func NewOpenAIClient(config *Config, apiKey string, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultOpenAIConfig()
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if config.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(config.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	client := openai.NewClient(reqOpts...)
	return &OpenAIClient{client: &client, config: config}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	params, err := c.baseParams(prompt, tier)
	if err != nil {
		return "", err
	}
	return c.send(ctx, params)
}

// GenerateJSON asks for a JSON object without a schema.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	params, err := c.baseParams(prompt, tier)
	if err != nil {
		return "", err
	}
	params.Text = responses.ResponseTextConfigParam{
		Format: responses.ResponseFormatTextConfigUnionParam{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	text, err := c.send(ctx, params)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GenerateStructured uses strict json_schema output.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, req StructuredRequest, tier ModelTier) (string, error) {
	if req.SchemaName == "" || req.Schema == nil {
		return "", fmt.Errorf("schema name and schema are required")
	}

	params, err := c.baseParams(req.Prompt, tier)
	if err != nil {
		return "", err
	}
	params.Text = responses.ResponseTextConfigParam{
		Format: responses.ResponseFormatTextConfigUnionParam{
			OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: openai.Bool(true),
				Type:   "json_schema",
			},
		},
	}

	text, err := c.send(ctx, params)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client needs no teardown.
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) baseParams(prompt string, tier ModelTier) (responses.ResponseNewParams, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return responses.ResponseNewParams{}, fmt.Errorf("no model configured for tier %s", tier)
	}

	params := responses.ResponseNewParams{
		Model: modelName,
		Store: openai.Bool(false),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if c.config.ReasoningEffort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(c.config.ReasoningEffort)}
	}
	return params, nil
}

func (c *OpenAIClient) send(ctx context.Context, params responses.ResponseNewParams) (string, error) {
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		apiErr := &APIError{Provider: ProviderOpenAI, Message: "failed to create response", Cause: err}
		var openaiErr *openai.Error
		if errors.As(err, &openaiErr) {
			apiErr.StatusCode = openaiErr.StatusCode
		}
		return "", apiErr
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", &EmptyResponseError{Provider: ProviderOpenAI, Message: fmt.Sprintf("response %s has no output text", resp.ID)}
	}
	return text, nil
}
