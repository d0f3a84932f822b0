package base

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
)

// ErrSkipPayload is returned by a PayloadHandler for payloads that are valid
// but carry no text, such as keep-alive or bookkeeping events.
var ErrSkipPayload = errors.New("skip payload")

// PayloadHandler decodes one stream payload (an SSE data field or an NDJSON
// line). It returns the text delta, and done=true when the provider signalled
// the end of the completion. A *ai.ClientError reports a failure announced by
// the provider inside the stream; it is yielded and ends the stream. Any other
// error except ErrSkipPayload marks the payload as malformed; it is logged and
// skipped.
type PayloadHandler func(payload string) (delta string, done bool, err error)

// LineStream turns a line-oriented streaming body into a TextStream. Lines are
// classified with [utils.SSEPayload], so the same loop serves SSE and NDJSON.
// The body is closed when iteration ends, however it ends.
func (client *Client) LineStream(ctx context.Context, body io.ReadCloser, handle PayloadHandler) *ai.TextStream {
	scanner := utils.NewLineScanner(body)

	iteratorFunc := func(yield func(string, error) bool) {
		defer utils.CloseWithLog(body)

		for {
			if ctx.Err() != nil {
				yield("", ai.NewClientError(client.provider, 0, "stream aborted", ctx.Err()))
				return
			}

			line, err := scanner.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", ai.NewClientError(client.provider, 0, "network error while streaming", err))
				return
			}

			if isDoneLine(line) {
				return
			}

			payload, ok := utils.SSEPayload(line)
			if !ok {
				continue
			}

			delta, done, err := handle(payload)
			var clientErr *ai.ClientError
			if errors.As(err, &clientErr) {
				yield("", err)
				return
			}
			if err != nil {
				if !errors.Is(err, ErrSkipPayload) {
					client.MalformedChunk(ctx, payload, err)
				}
				if done {
					return
				}
				continue
			}

			if delta != "" && !yield(delta, nil) {
				return
			}
			if done {
				return
			}
		}
	}

	return ai.NewTextStream(iteratorFunc)
}

// MalformedChunk logs a stream payload that could not be decoded.
func (client *Client) MalformedChunk(ctx context.Context, payload string, err error) {
	client.config.Logger.DebugContext(ctx, "skipping malformed stream chunk",
		slog.String("provider", string(client.provider)),
		slog.String("chunk", utils.TruncateString(payload, 200)),
		slog.String("error", err.Error()),
	)
}

func isDoneLine(line string) bool {
	data, found := strings.CutPrefix(strings.TrimSpace(line), "data:")
	return found && strings.TrimSpace(data) == utils.SSEDone
}
