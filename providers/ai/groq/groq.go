// Package groq implements [ai.Client] for the Groq OpenAI-compatible API.
package groq

import (
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-70b-versatile"
)

// GroqProvider is an OpenAI-compatible client bound to Groq.
type GroqProvider struct {
	*openai.OpenAIProvider
}

// New creates a Groq client.
func New(config ai.ClientConfig) *GroqProvider {
	return &GroqProvider{
		OpenAIProvider: openai.NewCompatible(openai.Compatible{
			Provider:       ai.ProviderGroq,
			DefaultBaseURL: DefaultBaseURL,
			DefaultModel:   DefaultModel,
		}, config),
	}
}
