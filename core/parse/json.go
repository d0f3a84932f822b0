package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/uigen/providers/ai"
)

var (
	fencePattern         = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)\\s*```")
	objectPattern        = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseJSON decodes the JSON document contained in text into T.
//
// Recovery steps, in order: strip a markdown fence, keep the span from the
// first '{' to the last '}', decode; on failure remove trailing commas and
// replace every single quote with a double quote, decode again; on failure
// run jsonrepair over the candidate and decode once more. The quote
// replacement also rewrites apostrophes inside strings. The jsonrepair pass
// works on the unmodified candidate: it keeps an apostrophe inside a
// double-quoted string, but inside a single-quoted string the apostrophe
// comes back as a double quote.
func ParseJSON[T any](text string) (T, error) {
	var result T

	candidate := extractCandidate(text)
	if candidate == "" {
		return result, ai.NewParseError("no JSON found in response", text, nil)
	}

	firstErr := json.Unmarshal([]byte(candidate), &result)
	if firstErr == nil {
		return result, nil
	}

	result = *new(T)
	if err := json.Unmarshal([]byte(repairCommon(candidate)), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr == nil {
		result = *new(T)
		if err := json.Unmarshal([]byte(repaired), &result); err == nil {
			return result, nil
		}
	}

	return *new(T), ai.NewParseError("failed to parse JSON", text, firstErr)
}

// extractCandidate isolates the JSON text: fence contents when present, then
// the outermost object span. Top-level arrays are kept whole.
func extractCandidate(text string) string {
	candidate := strings.TrimSpace(text)

	if match := fencePattern.FindStringSubmatch(candidate); match != nil {
		candidate = strings.TrimSpace(match[1])
	} else if strings.HasPrefix(candidate, "```") {
		// Unterminated fence, typical of a stream cut short.
		candidate = strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(candidate, "```"), "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	}

	if strings.HasPrefix(candidate, "[") {
		return candidate
	}

	if match := objectPattern.FindString(candidate); match != "" {
		return match
	}

	// An object that has not been closed yet.
	if start := strings.IndexByte(candidate, '{'); start >= 0 {
		return candidate[start:]
	}

	return ""
}

// repairCommon removes trailing commas before '}' or ']' and replaces single
// quotes with double quotes.
func repairCommon(candidate string) string {
	repaired := trailingCommaPattern.ReplaceAllString(candidate, "$1")
	return strings.ReplaceAll(repaired, "'", `"`)
}
