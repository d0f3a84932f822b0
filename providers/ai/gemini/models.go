package gemini

import (
	"strings"

	"github.com/leofalp/uigen/providers/ai"
)

/*
	GENERATE CONTENT API - INPUT
*/

type generateContentRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// toContents converts the conversation. System messages are collected, in
// order, into one systemInstruction with a part each.
func toContents(messages []ai.Message) ([]content, *content) {
	contents := make([]content, 0, len(messages))
	var system *content

	for _, message := range messages {
		switch message.Role {
		case ai.RoleSystem:
			if system == nil {
				system = &content{}
			}
			system.Parts = append(system.Parts, part{Text: message.Content})
		case ai.RoleAssistant:
			contents = append(contents, content{Role: "model", Parts: []part{{Text: message.Content}}})
		default:
			contents = append(contents, content{Role: "user", Parts: []part{{Text: message.Content}}})
		}
	}

	return contents, system
}

/*
	GENERATE CONTENT API - OUTPUT
*/

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// text concatenates the parts of the first candidate.
func (response generateContentResponse) text() string {
	if len(response.Candidates) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}
	return builder.String()
}
