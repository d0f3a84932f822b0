// Package ollama implements [ai.Client] for a local Ollama server through
// its /api/generate endpoint. No authentication is sent.
//
// The conversation is collapsed into a single prompt: system messages fill
// the "system" field, every other message is joined with newlines. Streaming
// reads newline-delimited JSON until an object reports done.
package ollama

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/leofalp/uigen/internal/jsonschema"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"

	generateEndpoint = "/api/generate"
)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"` // Ollama streams unless told otherwise
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// OllamaProvider implements [ai.Client] for Ollama.
type OllamaProvider struct {
	base     *base.Client
	endpoint string
}

// New creates an Ollama client; APIKey is ignored.
func New(config ai.ClientConfig) *OllamaProvider {
	config = config.WithDefaults(DefaultBaseURL, DefaultModel)

	return &OllamaProvider{
		base:     base.New(ai.ProviderOllama, config),
		endpoint: strings.TrimRight(config.BaseURL, "/") + generateEndpoint,
	}
}

// Name implements ai.Client.
func (provider *OllamaProvider) Name() ai.ProviderName { return ai.ProviderOllama }

// Model implements ai.Client.
func (provider *OllamaProvider) Model() string { return provider.base.Config().Model }

// Generate implements ai.Client.
func (provider *OllamaProvider) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	var response generateResponse
	if err := provider.base.DoJSON(ctx, provider.endpoint, provider.buildRequest(messages, false), &response); err != nil {
		return "", err
	}
	return response.Response, nil
}

// Stream implements ai.Client.
func (provider *OllamaProvider) Stream(ctx context.Context, messages []ai.Message) (*ai.TextStream, error) {
	response, err := provider.base.OpenStream(ctx, provider.endpoint, provider.buildRequest(messages, true))
	if err != nil {
		return nil, err
	}
	return provider.base.LineStream(ctx, response.Body, decodeLine), nil
}

// GenerateJSON implements ai.Client.
func (provider *OllamaProvider) GenerateJSON(ctx context.Context, messages []ai.Message, schema *jsonschema.Schema) (json.RawMessage, error) {
	return provider.base.GenerateJSON(ctx, provider.Generate, messages, schema)
}

func (provider *OllamaProvider) buildRequest(messages []ai.Message, stream bool) generateRequest {
	config := provider.base.Config()
	system, prompt := collapse(messages)

	return generateRequest{
		Model:  config.Model,
		Prompt: prompt,
		System: system,
		Stream: stream,
		Options: generateOptions{
			Temperature: config.Temperature,
			NumPredict:  config.MaxTokens,
		},
	}
}

// collapse returns the newline-joined system messages and the newline-joined
// remaining messages.
func collapse(messages []ai.Message) (string, string) {
	var system, prompt []string
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			system = append(system, message.Content)
			continue
		}
		prompt = append(prompt, message.Content)
	}
	return strings.Join(system, "\n"), strings.Join(prompt, "\n")
}

func decodeLine(payload string) (string, bool, error) {
	var line generateResponse
	if err := json.Unmarshal([]byte(payload), &line); err != nil {
		return "", false, err
	}
	if line.Error != "" {
		return "", true, ai.NewClientError(ai.ProviderOllama, 0, line.Error, nil)
	}
	return line.Response, line.Done, nil
}
