package utils

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is the default maximum length for truncated strings.
const DefaultMaxStringLength = 500

// JSONToString serialises object to JSON, pretty-printed with two-space
// indentation when indent is true. On failure it returns a JSON error object
// instead, so the result is always safe to embed in prompts and logs.
func JSONToString(object any, indent bool) string {
	var encoded []byte
	var err error
	if indent {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen bytes without splitting a UTF-8
// sequence, appending the original length so readers know data was omitted.
// A non-positive maxLen means [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}
