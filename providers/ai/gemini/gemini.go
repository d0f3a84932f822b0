package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/leofalp/uigen/internal/jsonschema"
	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
)

// GeminiProvider implements [ai.Client] for Google's Gemini API.
type GeminiProvider struct {
	base    *base.Client
	headers []utils.HeaderOption
}

// New creates a Gemini client with defaults merged into config.
func New(config ai.ClientConfig) *GeminiProvider {
	config = config.WithDefaults(DefaultBaseURL, DefaultModel)

	return &GeminiProvider{
		base:    base.New(ai.ProviderGemini, config),
		headers: []utils.HeaderOption{{Key: "x-goog-api-key", Value: config.APIKey}},
	}
}

// Name implements ai.Client.
func (provider *GeminiProvider) Name() ai.ProviderName { return ai.ProviderGemini }

// Model implements ai.Client.
func (provider *GeminiProvider) Model() string { return provider.base.Config().Model }

// Generate implements ai.Client.
func (provider *GeminiProvider) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	var response generateContentResponse
	if err := provider.base.DoJSON(ctx, provider.methodURL("generateContent"), provider.buildRequest(messages), &response, provider.headers...); err != nil {
		return "", err
	}
	return response.text(), nil
}

// Stream implements ai.Client.
func (provider *GeminiProvider) Stream(ctx context.Context, messages []ai.Message) (*ai.TextStream, error) {
	response, err := provider.base.OpenStream(ctx, provider.methodURL("streamGenerateContent"), provider.buildRequest(messages), provider.headers...)
	if err != nil {
		return nil, err
	}
	return provider.arrayStream(ctx, response.Body), nil
}

// GenerateJSON implements ai.Client.
func (provider *GeminiProvider) GenerateJSON(ctx context.Context, messages []ai.Message, schema *jsonschema.Schema) (json.RawMessage, error) {
	return provider.base.GenerateJSON(ctx, provider.Generate, messages, schema)
}

func (provider *GeminiProvider) methodURL(method string) string {
	config := provider.base.Config()
	return fmt.Sprintf("%s/models/%s:%s", strings.TrimRight(config.BaseURL, "/"), url.PathEscape(config.Model), method)
}

func (provider *GeminiProvider) buildRequest(messages []ai.Message) generateContentRequest {
	config := provider.base.Config()
	contents, system := toContents(messages)

	return generateContentRequest{
		Contents:          contents,
		SystemInstruction: system,
		GenerationConfig: generationConfig{
			Temperature:     config.Temperature,
			MaxOutputTokens: config.MaxTokens,
		},
	}
}
