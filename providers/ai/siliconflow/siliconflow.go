// Package siliconflow implements [ai.Client] for the SiliconFlow
// OpenAI-compatible API, whose errors arrive as {"code": 20012, "message": "..."}.
package siliconflow

import (
	"encoding/json"

	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
	"github.com/leofalp/uigen/providers/ai/openai"
)

const (
	DefaultBaseURL = "https://api.siliconflow.cn/v1"
	DefaultModel   = "Qwen/Qwen2.5-72B-Instruct"
)

// SiliconFlowProvider is an OpenAI-compatible client bound to SiliconFlow.
type SiliconFlowProvider struct {
	*openai.OpenAIProvider
}

// New creates a SiliconFlow client.
func New(config ai.ClientConfig) *SiliconFlowProvider {
	return &SiliconFlowProvider{
		OpenAIProvider: openai.NewCompatible(openai.Compatible{
			Provider:       ai.ProviderSiliconFlow,
			DefaultBaseURL: DefaultBaseURL,
			DefaultModel:   DefaultModel,
			ErrorDecoder:   DecodeError,
		}, config),
	}
}

type errorEnvelope struct {
	Code    json.Number `json:"code"`
	Message string      `json:"message"`
}

// DecodeError decodes the {code, message} envelope.
func DecodeError(body []byte) (base.VendorError, bool) {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		return base.VendorError{}, false
	}
	return base.VendorError{Message: envelope.Message, Code: envelope.Code.String()}, true
}
