// Package deepseek implements [ai.Client] for the DeepSeek OpenAI-compatible
// API.
package deepseek

import (
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/openai"
)

const (
	DefaultBaseURL = "https://api.deepseek.com/v1"
	DefaultModel   = "deepseek-chat"
)

// DeepSeekProvider is an OpenAI-compatible client bound to DeepSeek.
type DeepSeekProvider struct {
	*openai.OpenAIProvider
}

// New creates a DeepSeek client.
func New(config ai.ClientConfig) *DeepSeekProvider {
	return &DeepSeekProvider{
		OpenAIProvider: openai.NewCompatible(openai.Compatible{
			Provider:       ai.ProviderDeepSeek,
			DefaultBaseURL: DefaultBaseURL,
			DefaultModel:   DefaultModel,
		}, config),
	}
}
