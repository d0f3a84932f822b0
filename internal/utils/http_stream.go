package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize is the maximum size of a single streamed line (1 MB).
// The default bufio.Scanner limit is 64 KiB, which is too small for long
// completions delivered in one event. A longer line makes Next return an
// error wrapping bufio.ErrTooLong.
const maxLineSize = 1 * 1024 * 1024

// LineScanner reads newline-delimited text from a streaming response body.
// Bytes are split on '\n' only, so a UTF-8 sequence cut across two reads is
// reassembled before the line is returned; the unterminated tail of one read
// stays buffered until the next. A trailing '\r' is removed.
type LineScanner struct {
	scanner *bufio.Scanner
}

// NewLineScanner creates a LineScanner over reader.
func NewLineScanner(reader io.Reader) *LineScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &LineScanner{scanner: scanner}
}

// Next returns the next line without its terminator. It returns io.EOF once
// the body is exhausted; a final line without a newline is still returned.
func (lineScanner *LineScanner) Next() (string, error) {
	if lineScanner.scanner.Scan() {
		return lineScanner.scanner.Text(), nil
	}
	if err := lineScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("stream scanner error: %w", err)
	}
	return "", io.EOF
}

// SSEDone is the sentinel OpenAI-compatible APIs send as the last data frame.
const SSEDone = "[DONE]"

// SSEPayload classifies one line of a Server-Sent Events stream. It returns
// the JSON payload and true for data lines, and false for lines that carry
// nothing to decode: blanks, comments (":"), event/id/retry fields and the
// [DONE] sentinel. Lines without a field prefix are returned as-is, which lets
// the same loop consume newline-delimited JSON.
func SSEPayload(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}

	if strings.HasPrefix(line, "data:") {
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == SSEDone {
			return "", false
		}
		return data, true
	}

	for _, field := range []string{"event:", "id:", "retry:"} {
		if strings.HasPrefix(line, field) {
			return "", false
		}
	}

	return line, true
}

// SplitJSONObjects extracts every complete top-level JSON object from buffer
// and returns them together with the unconsumed remainder. Anything between
// objects (array brackets, commas, whitespace) is skipped. String literals are
// honoured so braces inside them do not affect nesting.
//
// It is used for streams that deliver a JSON array incrementally, where a
// single read can end in the middle of an element.
func SplitJSONObjects(buffer string) ([]string, string) {
	var objects []string

	depth := 0
	start := -1
	inString := false
	escaped := false
	consumed := 0

	for index := 0; index < len(buffer); index++ {
		char := buffer[index]

		if inString {
			switch {
			case escaped:
				escaped = false
			case char == '\\':
				escaped = true
			case char == '"':
				inString = false
			}
			continue
		}

		switch char {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = index
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, buffer[start:index+1])
				consumed = index + 1
				start = -1
			}
		}
	}

	if depth == 0 {
		// Nothing open: the rest is separators only.
		return objects, ""
	}

	return objects, buffer[max(consumed, start):]
}
