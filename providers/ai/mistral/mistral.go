// Package mistral implements [ai.Client] for the Mistral chat completions API.
//
// Mistral speaks the OpenAI wire format but reports errors either as
// {"message": "..."} or, for request validation failures, as
// {"detail": "..."} / {"detail": [{"msg": "...", "loc": [...]}]}.
package mistral

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
	"github.com/leofalp/uigen/providers/ai/openai"
)

const (
	DefaultBaseURL = "https://api.mistral.ai/v1"
	DefaultModel   = "mistral-large-latest"
)

// MistralProvider is an OpenAI-compatible client bound to Mistral.
type MistralProvider struct {
	*openai.OpenAIProvider
}

// New creates a Mistral client.
func New(config ai.ClientConfig) *MistralProvider {
	return &MistralProvider{
		OpenAIProvider: openai.NewCompatible(openai.Compatible{
			Provider:       ai.ProviderMistral,
			DefaultBaseURL: DefaultBaseURL,
			DefaultModel:   DefaultModel,
			ErrorDecoder:   DecodeError,
		}, config),
	}
}

type errorEnvelope struct {
	Message json.RawMessage `json:"message"`
	Type    string          `json:"type"`
	Detail  json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

// DecodeError decodes Mistral's error envelopes.
func DecodeError(body []byte) (base.VendorError, bool) {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return base.VendorError{}, false
	}

	var message string
	if len(envelope.Message) > 0 && json.Unmarshal(envelope.Message, &message) == nil && message != "" {
		return base.VendorError{Message: message, Code: envelope.Type}, true
	}

	if len(envelope.Detail) == 0 {
		return base.VendorError{}, false
	}

	if json.Unmarshal(envelope.Detail, &message) == nil && message != "" {
		return base.VendorError{Message: message}, true
	}

	var details []validationDetail
	if json.Unmarshal(envelope.Detail, &details) == nil && len(details) > 0 {
		parts := make([]string, 0, len(details))
		for _, detail := range details {
			if len(detail.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", detail.Loc[len(detail.Loc)-1], detail.Msg))
				continue
			}
			parts = append(parts, detail.Msg)
		}
		return base.VendorError{Message: strings.Join(parts, "; "), Code: "validation_error"}, true
	}

	return base.VendorError{}, false
}
