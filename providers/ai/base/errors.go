package base

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// VendorError is the decoded content of a provider error envelope.
type VendorError struct {
	Message string
	Code    string
}

// ErrorDecoder extracts a VendorError from a non-2xx response body. It
// returns false when the body does not match the vendor's envelope.
type ErrorDecoder func(body []byte) (VendorError, bool)

// flexibleCode decodes a code that vendors send either as a string or as a
// number.
type flexibleCode string

func (code *flexibleCode) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*code = flexibleCode(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		*code = flexibleCode(number.String())
		return nil
	}
	*code = ""
	return nil
}

// genericEnvelope covers the shapes used by OpenAI-compatible APIs, Claude,
// Gemini and Ollama:
//
//	{"error": {"message": "...", "type": "...", "code": "..."}}
//	{"error": {"message": "...", "status": "...", "code": 400}}
//	{"error": "..."}
//	{"message": "...", "code": 20012}
type genericEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Code    flexibleCode    `json:"code"`
	Type    string          `json:"type"`
}

type nestedError struct {
	Message string       `json:"message"`
	Type    string       `json:"type"`
	Status  string       `json:"status"`
	Code    flexibleCode `json:"code"`
}

// DecodeGenericError understands the common error envelopes listed on
// genericEnvelope. Provider packages chain it after their own decoder.
func DecodeGenericError(body []byte) (VendorError, bool) {
	var envelope genericEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return VendorError{}, false
	}

	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		var nested nestedError
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return VendorError{Message: nested.Message, Code: firstNonEmpty(string(nested.Code), nested.Type, nested.Status)}, true
		}

		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil && text != "" {
			return VendorError{Message: text}, true
		}
	}

	if envelope.Message != "" {
		return VendorError{Message: envelope.Message, Code: firstNonEmpty(string(envelope.Code), envelope.Type)}, true
	}

	return VendorError{}, false
}

// describeStatus falls back to the HTTP status text when no envelope matched.
func describeStatus(statusCode int, body []byte) VendorError {
	message := http.StatusText(statusCode)
	if message == "" {
		message = fmt.Sprintf("HTTP %d", statusCode)
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "<") {
		message += ": " + trimmed
	}
	return VendorError{Message: message}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
