package anthropic

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
	// DefaultBaseURL is the canonical base URL for Anthropic's Messages API.
	DefaultBaseURL = "https://api.anthropic.com/v1"
	DefaultModel   = "claude-3-5-sonnet-20241022"

	messagesEndpoint = "/messages"

	// anthropicVersion is the required anthropic-version header value.
	anthropicVersion = "2023-06-01"
)

// AnthropicProvider implements [ai.Client] for Anthropic's Messages API.
type AnthropicProvider struct {
	base     *base.Client
	endpoint string
	headers  []utils.HeaderOption
}

// New returns an AnthropicProvider with defaults merged into config.
func New(config ai.ClientConfig) *AnthropicProvider {
	config = config.WithDefaults(DefaultBaseURL, DefaultModel)

	return &AnthropicProvider{
		base:     base.New(ai.ProviderClaude, config),
		endpoint: strings.TrimRight(config.BaseURL, "/") + messagesEndpoint,
		headers: []utils.HeaderOption{
			{Key: "x-api-key", Value: config.APIKey},
			{Key: "anthropic-version", Value: anthropicVersion},
		},
	}
}

// Name implements ai.Client.
func (provider *AnthropicProvider) Name() ai.ProviderName { return ai.ProviderClaude }

// Model implements ai.Client.
func (provider *AnthropicProvider) Model() string { return provider.base.Config().Model }

// Generate implements ai.Client.
func (provider *AnthropicProvider) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	var response messagesResponse
	if err := provider.base.DoJSON(ctx, provider.endpoint, provider.buildRequest(messages, false), &response, provider.headers...); err != nil {
		return "", err
	}
	return response.text(), nil
}

// Stream implements ai.Client.
func (provider *AnthropicProvider) Stream(ctx context.Context, messages []ai.Message) (*ai.TextStream, error) {
	response, err := provider.base.OpenStream(ctx, provider.endpoint, provider.buildRequest(messages, true), provider.headers...)
	if err != nil {
		return nil, err
	}
	return provider.base.LineStream(ctx, response.Body, provider.decodeEvent), nil
}

// GenerateJSON implements ai.Client.
func (provider *AnthropicProvider) GenerateJSON(ctx context.Context, messages []ai.Message, schema *jsonschema.Schema) (json.RawMessage, error) {
	return provider.base.GenerateJSON(ctx, provider.Generate, messages, schema)
}

func (provider *AnthropicProvider) buildRequest(messages []ai.Message, stream bool) messagesRequest {
	config := provider.base.Config()
	system, turns := splitSystem(messages)

	return messagesRequest{
		Model:       config.Model,
		System:      system,
		Messages:    turns,
		MaxTokens:   config.MaxTokens, // required by the Messages API
		Temperature: config.Temperature,
		Stream:      stream,
	}
}

// decodeEvent maps one SSE payload to a text delta.
func (provider *AnthropicProvider) decodeEvent(payload string) (string, bool, error) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return "", false, err
	}

	switch event.Type {
	case "content_block_delta":
		if event.Delta == nil {
			return "", false, base.ErrSkipPayload
		}
		return event.Delta.Text, false, nil
	case "message_stop":
		return "", true, base.ErrSkipPayload
	case "error":
		message := "stream error"
		code := ""
		if event.Error != nil {
			message, code = event.Error.Message, event.Error.Type
		}
		return "", true, provider.streamError(message, code)
	default:
		// ping, message_start, content_block_start/stop, message_delta
		return "", false, base.ErrSkipPayload
	}
}

func (provider *AnthropicProvider) streamError(message, code string) error {
	clientErr := ai.NewClientError(ai.ProviderClaude, 0, message, nil)
	clientErr.VendorCode = code
	return clientErr
}
