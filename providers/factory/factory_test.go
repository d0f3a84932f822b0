package factory

import (
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/uigen/providers/ai"
)

func TestCreateClient_EveryProvider(t *testing.T) {
	config := Config{
		ClientConfig:   ai.ClientConfig{APIKey: "k"},
		ResourceName:   "res",
		DeploymentName: "dep",
	}

	for _, provider := range SupportedProviders() {
		t.Run(string(provider), func(t *testing.T) {
			client, err := CreateClient(provider, config)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Name() != provider {
				t.Errorf("expected name %s, got %s", provider, client.Name())
			}
			if client.Model() == "" {
				t.Error("expected a non-empty model")
			}
			if want := DefaultModel(provider); want != "" && client.Model() != want {
				t.Errorf("expected default model %s, got %s", want, client.Model())
			}
		})
	}
}

func TestCreateClient_AzureRequiresDeployment(t *testing.T) {
	_, err := CreateClient(ai.ProviderAzureOpenAI, Config{ResourceName: "res"})

	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "deploymentName") || strings.Contains(err.Error(), "resourceName") {
		t.Errorf("error should name only the missing field: %v", err)
	}
}

func TestCreateClient_Unknown(t *testing.T) {
	_, err := CreateClient("cohere", Config{})
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestSupportedProviders(t *testing.T) {
	if got := len(SupportedProviders()); got != 9 {
		t.Errorf("expected 9 providers, got %d", got)
	}
}

func TestDisplayNameAndDefaultModel(t *testing.T) {
	if DisplayName(ai.ProviderClaude) != "Anthropic Claude" {
		t.Errorf("unexpected display name %q", DisplayName(ai.ProviderClaude))
	}
	if DisplayName("unknown") != "unknown" {
		t.Error("unknown providers should display their tag")
	}
	if DefaultModel(ai.ProviderOpenAI) != "gpt-4o-mini" {
		t.Errorf("unexpected default model %q", DefaultModel(ai.ProviderOpenAI))
	}
	if DefaultModel(ai.ProviderAzureOpenAI) != "" {
		t.Error("Azure has no default model")
	}
}

func TestParseProvider(t *testing.T) {
	tests := map[string]ai.ProviderName{
		"openai":       ai.ProviderOpenAI,
		" Anthropic ":  ai.ProviderClaude,
		"claude":       ai.ProviderClaude,
		"azure":        ai.ProviderAzureOpenAI,
		"azure-openai": ai.ProviderAzureOpenAI,
		"SiliconFlow":  ai.ProviderSiliconFlow,
	}

	for input, want := range tests {
		got, err := ParseProvider(input)
		if err != nil || got != want {
			t.Errorf("ParseProvider(%q) = (%s, %v), want %s", input, got, err, want)
		}
	}

	if _, err := ParseProvider("nope"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("expected ErrUnsupportedProvider, got %v", err)
	}
}
