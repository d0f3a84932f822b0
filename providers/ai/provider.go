package ai

import (
	"context"
	"encoding/json"

	"github.com/leofalp/uigen/internal/jsonschema"
)

// ProviderName identifies one of the supported LLM vendors.
type ProviderName string

const (
	ProviderOpenAI      ProviderName = "openai"
	ProviderClaude      ProviderName = "claude"
	ProviderGemini      ProviderName = "gemini"
	ProviderAzureOpenAI ProviderName = "azure-openai"
	ProviderGroq        ProviderName = "groq"
	ProviderMistral     ProviderName = "mistral"
	ProviderOllama      ProviderName = "ollama"
	ProviderDeepSeek    ProviderName = "deepseek"
	ProviderSiliconFlow ProviderName = "siliconflow"
)

// Client is the capability every provider implementation offers. Retry,
// timeout and JSON extraction are shared through composition (see package
// base) rather than inheritance; each vendor package only adapts its own
// HTTP contract.
type Client interface {
	// Generate sends the conversation and returns the full completion text.
	// An empty completion is returned as "" without error; errors are
	// reserved for HTTP and transport failures.
	Generate(ctx context.Context, messages []Message) (string, error)

	// Stream sends the conversation with streaming enabled and returns a
	// cold sequence of text deltas. Opening errors (auth, HTTP status,
	// network) are returned directly; failures after the stream started are
	// yielded through the sequence.
	Stream(ctx context.Context, messages []Message) (*TextStream, error)

	// GenerateJSON asks for a JSON-only answer, optionally steered by schema,
	// and returns the extracted JSON document. Unparseable output is reported
	// as a *ClientError wrapping the parse failure.
	GenerateJSON(ctx context.Context, messages []Message, schema *jsonschema.Schema) (json.RawMessage, error)

	// Name reports which vendor the client talks to.
	Name() ProviderName

	// Model reports the model the client was configured with.
	Model() string
}

// GenerateJSONAs runs client.GenerateJSON and decodes the document into T.
func GenerateJSONAs[T any](ctx context.Context, client Client, messages []Message, schema *jsonschema.Schema) (T, error) {
	var result T

	raw, err := client.GenerateJSON(ctx, messages, schema)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, NewClientError(client.Name(), 0, "failed to decode JSON response", err)
	}

	return result, nil
}
