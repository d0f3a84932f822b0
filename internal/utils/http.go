package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is a single request header applied after the defaults, so it
// can override Content-Type or Accept when a provider needs to.
type HeaderOption struct {
	Key   string
	Value string
}

// BearerAuth returns the Authorization header for a bearer token, or nothing
// when the token is empty.
func BearerAuth(token string) []HeaderOption {
	if token == "" {
		return nil
	}
	return []HeaderOption{{Key: "Authorization", Value: "Bearer " + token}}
}

// NewPostRequest marshals body as JSON and builds a POST request carrying the
// JSON content type plus the supplied headers. When stream is true the
// request also advertises text/event-stream.
func NewPostRequest(ctx context.Context, url string, body any, stream bool, headers ...HeaderOption) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	for _, header := range headers {
		if header.Value == "" {
			continue
		}
		req.Header.Set(header.Key, header.Value)
	}

	return req, nil
}

// ReadBody reads at most maxResponseBodySize bytes from body.
func ReadBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return data, nil
}

// CloseWithLog closes closer and logs a warning if that fails. It is meant for
// deferred response body cleanup, where a close error must not override the
// primary error of the caller.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
