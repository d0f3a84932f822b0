package openai

import "github.com/leofalp/uigen/providers/ai"

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /chat/completions request format.
// Model is omitted for deployment-scoped endpoints (Azure).
type chatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func messagesToChat(messages []ai.Message) []chatMessage {
	converted := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		converted = append(converted, chatMessage{Role: string(message.Role), Content: message.Content})
	}
	return converted
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// chatCompletionChunk is a single SSE payload of a streamed completion.
type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// firstContent returns choices[0].message.content, or "" when absent.
func (response chatCompletionResponse) firstContent() string {
	if len(response.Choices) == 0 {
		return ""
	}
	return response.Choices[0].Message.Content
}
