package deepseek

import (
	"testing"

	"github.com/leofalp/uigen/providers/ai"
)

func TestNew_Defaults(t *testing.T) {
	provider := New(ai.ClientConfig{APIKey: "sk"})

	if provider.Name() != ai.ProviderDeepSeek {
		t.Errorf("unexpected provider %s", provider.Name())
	}
	if provider.Model() != DefaultModel {
		t.Errorf("unexpected model %s", provider.Model())
	}
	if provider.Endpoint() != DefaultBaseURL+"/chat/completions" {
		t.Errorf("unexpected endpoint %s", provider.Endpoint())
	}
}

func TestNew_BaseURLOverride(t *testing.T) {
	provider := New(ai.ClientConfig{BaseURL: "https://proxy.internal/v1/", Model: "deepseek-coder"})

	if provider.Endpoint() != "https://proxy.internal/v1/chat/completions" {
		t.Errorf("unexpected endpoint %s", provider.Endpoint())
	}
	if provider.Model() != "deepseek-coder" {
		t.Errorf("unexpected model %s", provider.Model())
	}
}
