package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
)

const readChunkSize = 4096

// arrayStream yields the text of every array element as soon as the element
// is complete. Bytes of a partial element, including a split UTF-8 sequence,
// stay in the buffer until the next read.
func (provider *GeminiProvider) arrayStream(ctx context.Context, body io.ReadCloser) *ai.TextStream {
	iteratorFunc := func(yield func(string, error) bool) {
		defer utils.CloseWithLog(body)

		var buffer strings.Builder
		chunk := make([]byte, readChunkSize)

		for {
			if ctx.Err() != nil {
				yield("", ai.NewClientError(ai.ProviderGemini, 0, "stream aborted", ctx.Err()))
				return
			}

			n, readErr := body.Read(chunk)
			if n > 0 {
				buffer.Write(chunk[:n])

				objects, rest := utils.SplitJSONObjects(buffer.String())
				buffer.Reset()
				buffer.WriteString(rest)

				for _, object := range objects {
					delta, err := provider.decodeObject(ctx, object)
					if err != nil {
						yield("", err)
						return
					}
					if delta != "" && !yield(delta, nil) {
						return
					}
				}
			}

			if errors.Is(readErr, io.EOF) {
				provider.flush(ctx, buffer.String(), yield)
				return
			}
			if readErr != nil {
				yield("", ai.NewClientError(ai.ProviderGemini, 0, "network error while streaming", readErr))
				return
			}
		}
	}

	return ai.NewTextStream(iteratorFunc)
}

// flush decodes what is left once the body ended. The splitter has already
// emitted every complete object, so a remainder is an object the server cut
// off; it is closed with jsonrepair so its text is not lost.
func (provider *GeminiProvider) flush(ctx context.Context, rest string, yield func(string, error) bool) {
	rest = strings.Trim(strings.TrimSpace(rest), "[],\r\n\t ")
	if rest == "" {
		return
	}
	if repaired, err := jsonrepair.JSONRepair(rest); err == nil {
		rest = repaired
	}

	delta, err := provider.decodeObject(ctx, rest)
	if err != nil {
		yield("", err)
		return
	}
	if delta != "" {
		yield(delta, nil)
	}
}

// decodeObject extracts the text of one streamed response object. Malformed
// objects are logged and skipped; an embedded error object ends the stream.
func (provider *GeminiProvider) decodeObject(ctx context.Context, object string) (string, error) {
	var response generateContentResponse
	if err := json.Unmarshal([]byte(object), &response); err != nil {
		provider.base.MalformedChunk(ctx, object, err)
		return "", nil
	}

	if response.Error != nil {
		clientErr := ai.NewClientError(ai.ProviderGemini, response.Error.Code, response.Error.Message, nil)
		clientErr.VendorCode = response.Error.Status
		return "", clientErr
	}

	return response.text(), nil
}
