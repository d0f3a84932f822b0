package base

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/leofalp/uigen/internal/jsonschema"
	"github.com/leofalp/uigen/providers/ai"
)

const jsonModeInstruction = "You must respond with valid JSON only. Do not include any explanatory text, markdown formatting, or code blocks outside of the JSON."

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// AugmentJSONMode returns a copy of messages that instructs the model to
// answer with JSON only. The instruction, followed by the schema when given,
// is appended to the first system message; without one a new system message
// is prepended. The input slice is not modified.
func AugmentJSONMode(messages []ai.Message, schema *jsonschema.Schema) []ai.Message {
	instruction := jsonModeInstruction
	if schema != nil {
		instruction += "\n\nThe JSON must conform to this schema:\n" + schema.JSON()
	}

	augmented := make([]ai.Message, 0, len(messages)+1)
	merged := false
	for _, message := range messages {
		if !merged && message.Role == ai.RoleSystem {
			message.Content = message.Content + "\n\n" + instruction
			merged = true
		}
		augmented = append(augmented, message)
	}

	if !merged {
		augmented = append([]ai.Message{ai.SystemMessage(instruction)}, augmented...)
	}

	return augmented
}

// StripCodeFences removes a surrounding Markdown code fence (``` or ```json)
// from text. Text without fences is returned trimmed.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line, language tag included.
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		trimmed = trimmed[newline+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// ExtractJSON finds the JSON document in a model answer. It tries the trimmed
// text, then the text with code fences removed, then the outermost {...}
// span.
func ExtractJSON(text string) (json.RawMessage, error) {
	candidates := []string{strings.TrimSpace(text), StripCodeFences(text)}
	if match := jsonObjectPattern.FindString(text); match != "" {
		candidates = append(candidates, match)
	}

	var lastErr error
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), new(any)); err != nil {
			lastErr = err
			continue
		}
		return json.RawMessage(candidate), nil
	}

	if lastErr == nil {
		lastErr = ai.NewParseError("empty response", text, nil)
	}
	return nil, lastErr
}

// GenerateJSON runs generate and extracts the JSON document from the answer.
// When schema is non-nil the conversation is first augmented with the
// JSON-only instruction. A non-JSON answer is reported as a *ai.ClientError
// wrapping a *ai.ParseError that carries the raw text.
func (client *Client) GenerateJSON(ctx context.Context, generate func(ctx context.Context, messages []ai.Message) (string, error), messages []ai.Message, schema *jsonschema.Schema) (json.RawMessage, error) {
	if schema != nil {
		messages = AugmentJSONMode(messages, schema)
	}

	text, err := generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	document, err := ExtractJSON(text)
	if err != nil {
		parseErr := ai.NewParseError("response is not valid JSON", text, err)
		return nil, ai.NewClientError(client.provider, 0, "Failed to parse JSON response", parseErr)
	}

	return document, nil
}
