package anthropic

import (
	"strings"

	"github.com/leofalp/uigen/providers/ai"
)

/*
	MESSAGES API - INPUT
*/

type messagesRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Stream      bool               `json:"stream,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// splitSystem extracts system messages into a single prompt, joined by blank
// lines in their original order, and returns the remaining turns.
func splitSystem(messages []ai.Message) (string, []anthropicMessage) {
	var system []string
	turns := make([]anthropicMessage, 0, len(messages))

	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			system = append(system, message.Content)
			continue
		}
		turns = append(turns, anthropicMessage{Role: string(message.Role), Content: message.Content})
	}

	return strings.Join(system, "\n\n"), turns
}

/*
	MESSAGES API - OUTPUT
*/

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// text concatenates every text block of the response.
func (response messagesResponse) text() string {
	var builder strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}

// streamEvent is the envelope of every SSE data payload.
type streamEvent struct {
	Type  string `json:"type"`
	Delta *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta,omitempty"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
