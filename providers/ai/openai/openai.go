package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/leofalp/uigen/internal/jsonschema"
	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
)

const (
	DefaultBaseURL          = "https://api.openai.com/v1"
	DefaultModel            = "gpt-4o-mini"
	chatCompletionsEndpoint = "/chat/completions"
)

// Compatible describes a vendor that exposes the OpenAI chat completions
// contract. Zero-valued hooks fall back to the OpenAI behaviour.
type Compatible struct {
	Provider       ai.ProviderName
	DefaultBaseURL string
	DefaultModel   string

	// Endpoint builds the full completions URL from the effective config.
	// Default: BaseURL + "/chat/completions".
	Endpoint func(config ai.ClientConfig) string

	// Headers builds the auth headers. Default: bearer token.
	Headers func(config ai.ClientConfig) []utils.HeaderOption

	// OmitModel drops the "model" field from the body, for endpoints where
	// the model is implied by the URL.
	OmitModel bool

	// ErrorDecoder is tried before the generic envelope decoder.
	ErrorDecoder base.ErrorDecoder
}

// OpenAIProvider implements ai.Client for OpenAI-compatible chat completions.
type OpenAIProvider struct {
	base     *base.Client
	compat   Compatible
	endpoint string
	headers  []utils.HeaderOption
}

// New creates a client for api.openai.com.
func New(config ai.ClientConfig) *OpenAIProvider {
	return NewCompatible(Compatible{
		Provider:       ai.ProviderOpenAI,
		DefaultBaseURL: DefaultBaseURL,
		DefaultModel:   DefaultModel,
	}, config)
}

// NewCompatible creates a client for the vendor described by compat. Defaults
// are merged into config once, here.
func NewCompatible(compat Compatible, config ai.ClientConfig) *OpenAIProvider {
	config = config.WithDefaults(compat.DefaultBaseURL, compat.DefaultModel)

	var opts []base.Option
	if compat.ErrorDecoder != nil {
		opts = append(opts, base.WithErrorDecoder(compat.ErrorDecoder))
	}

	endpoint := strings.TrimRight(config.BaseURL, "/") + chatCompletionsEndpoint
	if compat.Endpoint != nil {
		endpoint = compat.Endpoint(config)
	}

	headers := utils.BearerAuth(config.APIKey)
	if compat.Headers != nil {
		headers = compat.Headers(config)
	}

	return &OpenAIProvider{
		base:     base.New(compat.Provider, config, opts...),
		compat:   compat,
		endpoint: endpoint,
		headers:  headers,
	}
}

// Name implements ai.Client.
func (provider *OpenAIProvider) Name() ai.ProviderName { return provider.compat.Provider }

// Model implements ai.Client.
func (provider *OpenAIProvider) Model() string { return provider.base.Config().Model }

// Endpoint returns the completions URL requests are sent to.
func (provider *OpenAIProvider) Endpoint() string { return provider.endpoint }

// Generate implements ai.Client.
func (provider *OpenAIProvider) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	var response chatCompletionResponse
	if err := provider.base.DoJSON(ctx, provider.endpoint, provider.buildRequest(messages, false), &response, provider.headers...); err != nil {
		return "", err
	}
	return response.firstContent(), nil
}

// Stream implements ai.Client.
func (provider *OpenAIProvider) Stream(ctx context.Context, messages []ai.Message) (*ai.TextStream, error) {
	response, err := provider.base.OpenStream(ctx, provider.endpoint, provider.buildRequest(messages, true), provider.headers...)
	if err != nil {
		return nil, err
	}
	return provider.base.LineStream(ctx, response.Body, decodeChunk), nil
}

// GenerateJSON implements ai.Client.
func (provider *OpenAIProvider) GenerateJSON(ctx context.Context, messages []ai.Message, schema *jsonschema.Schema) (json.RawMessage, error) {
	return provider.base.GenerateJSON(ctx, provider.Generate, messages, schema)
}

func (provider *OpenAIProvider) buildRequest(messages []ai.Message, stream bool) chatCompletionRequest {
	config := provider.base.Config()
	request := chatCompletionRequest{
		Model:       config.Model,
		Messages:    messagesToChat(messages),
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
		Stream:      stream,
	}
	if provider.compat.OmitModel {
		request.Model = ""
	}
	return request
}

// decodeChunk extracts choices[0].delta.content from one SSE payload.
func decodeChunk(payload string) (string, bool, error) {
	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false, err
	}
	if len(chunk.Choices) == 0 {
		return "", false, base.ErrSkipPayload
	}
	return chunk.Choices[0].Delta.Content, false, nil
}
