// Package factory creates [ai.Client] implementations from a provider tag.
//
// Dispatch is a single exhaustive switch over [ai.ProviderName]; the package
// also exposes the static metadata callers need to present a provider picker
// (supported providers, default models, display names).
package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/anthropic"
	"github.com/leofalp/uigen/providers/ai/azure"
	"github.com/leofalp/uigen/providers/ai/deepseek"
	"github.com/leofalp/uigen/providers/ai/gemini"
	"github.com/leofalp/uigen/providers/ai/groq"
	"github.com/leofalp/uigen/providers/ai/mistral"
	"github.com/leofalp/uigen/providers/ai/ollama"
	"github.com/leofalp/uigen/providers/ai/openai"
	"github.com/leofalp/uigen/providers/ai/siliconflow"
)

var (
	// ErrUnsupportedProvider is returned for an unknown provider tag.
	ErrUnsupportedProvider = errors.New("unsupported AI provider")

	// ErrInvalidConfig is returned when a provider-specific required field
	// is missing.
	ErrInvalidConfig = errors.New("invalid client configuration")
)

// Config is the union of every provider's configuration. The Azure fields are
// ignored by the other providers.
type Config struct {
	ai.ClientConfig

	ResourceName   string // Azure only, required
	DeploymentName string // Azure only, required
	APIVersion     string // Azure only, optional
}

// providerInfo is the static metadata of one provider.
type providerInfo struct {
	name         ai.ProviderName
	displayName  string
	defaultModel string
}

var providers = []providerInfo{
	{name: ai.ProviderOpenAI, displayName: "OpenAI", defaultModel: openai.DefaultModel},
	{name: ai.ProviderClaude, displayName: "Anthropic Claude", defaultModel: anthropic.DefaultModel},
	{name: ai.ProviderGemini, displayName: "Google Gemini", defaultModel: gemini.DefaultModel},
	{name: ai.ProviderAzureOpenAI, displayName: "Azure OpenAI", defaultModel: ""},
	{name: ai.ProviderGroq, displayName: "Groq", defaultModel: groq.DefaultModel},
	{name: ai.ProviderMistral, displayName: "Mistral AI", defaultModel: mistral.DefaultModel},
	{name: ai.ProviderOllama, displayName: "Ollama (local)", defaultModel: ollama.DefaultModel},
	{name: ai.ProviderDeepSeek, displayName: "DeepSeek", defaultModel: deepseek.DefaultModel},
	{name: ai.ProviderSiliconFlow, displayName: "SiliconFlow", defaultModel: siliconflow.DefaultModel},
}

var aliases = map[string]ai.ProviderName{
	"anthropic": ai.ProviderClaude,
	"azure":     ai.ProviderAzureOpenAI,
	"google":    ai.ProviderGemini,
}

// CreateClient constructs the client for provider.
func CreateClient(provider ai.ProviderName, config Config) (ai.Client, error) {
	switch provider {
	case ai.ProviderOpenAI:
		return openai.New(config.ClientConfig), nil
	case ai.ProviderClaude:
		return anthropic.New(config.ClientConfig), nil
	case ai.ProviderGemini:
		return gemini.New(config.ClientConfig), nil
	case ai.ProviderAzureOpenAI:
		var missing []string
		if config.ResourceName == "" {
			missing = append(missing, "resourceName")
		}
		if config.DeploymentName == "" {
			missing = append(missing, "deploymentName")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: Azure OpenAI requires %s", ErrInvalidConfig, strings.Join(missing, " and "))
		}
		client, err := azure.New(azure.Config{
			ClientConfig:   config.ClientConfig,
			ResourceName:   config.ResourceName,
			DeploymentName: config.DeploymentName,
			APIVersion:     config.APIVersion,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return client, nil
	case ai.ProviderGroq:
		return groq.New(config.ClientConfig), nil
	case ai.ProviderMistral:
		return mistral.New(config.ClientConfig), nil
	case ai.ProviderOllama:
		return ollama.New(config.ClientConfig), nil
	case ai.ProviderDeepSeek:
		return deepseek.New(config.ClientConfig), nil
	case ai.ProviderSiliconFlow:
		return siliconflow.New(config.ClientConfig), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}

// SupportedProviders lists every provider CreateClient accepts.
func SupportedProviders() []ai.ProviderName {
	names := make([]ai.ProviderName, 0, len(providers))
	for _, info := range providers {
		names = append(names, info.name)
	}
	return names
}

// DefaultModel returns the model used when Config.Model is empty. Azure has
// none: the deployment decides.
func DefaultModel(provider ai.ProviderName) string {
	if info, ok := lookup(provider); ok {
		return info.defaultModel
	}
	return ""
}

// DisplayName returns a human-readable provider name, or the tag itself for
// unknown providers.
func DisplayName(provider ai.ProviderName) string {
	if info, ok := lookup(provider); ok {
		return info.displayName
	}
	return string(provider)
}

// ParseProvider resolves a tag or common alias, case-insensitively.
func ParseProvider(value string) (ai.ProviderName, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := aliases[normalized]; ok {
		return alias, nil
	}
	if info, ok := lookup(ai.ProviderName(normalized)); ok {
		return info.name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, value)
}

func lookup(provider ai.ProviderName) (providerInfo, bool) {
	for _, info := range providers {
		if info.name == provider {
			return info, true
		}
	}
	return providerInfo{}, false
}
