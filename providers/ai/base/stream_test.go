package base

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/leofalp/uigen/providers/ai"
)

type textChunk struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

func decodeTextChunk(payload string) (string, bool, error) {
	var chunk textChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false, err
	}
	return chunk.Text, chunk.Done, nil
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (body *trackingBody) Close() error {
	body.closed = true
	return nil
}

func TestLineStream_SkipsMalformedAndStopsAtDone(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(strings.Join([]string{
		"event: message",
		`data: {"text":"Hel"}`,
		"",
		"data: {not json",
		": comment",
		`data: {"text":"lo"}`,
		"data: [DONE]",
		`data: {"text":"ignored"}`,
	}, "\n"))}

	client := testClient(t, ai.ClientConfig{})
	text, err := client.LineStream(context.Background(), body, decodeTextChunk).Collect()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello" {
		t.Errorf("expected 'Hello', got %q", text)
	}
	if !body.closed {
		t.Error("expected body to be closed")
	}
}

func TestLineStream_NDJSONDoneFlag(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(
		`{"text":"a"}` + "\n" + `{"text":"b","done":true}` + "\n" + `{"text":"c"}` + "\n")}

	client := testClient(t, ai.ClientConfig{})
	text, err := client.LineStream(context.Background(), body, decodeTextChunk).Collect()

	if err != nil || text != "ab" {
		t.Errorf("got (%q, %v), want (\"ab\", nil)", text, err)
	}
}

func TestLineStream_EarlyBreakClosesBody(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`data: {"text":"a"}` + "\n" + `data: {"text":"b"}` + "\n")}

	client := testClient(t, ai.ClientConfig{})
	for delta, err := range client.LineStream(context.Background(), body, decodeTextChunk).Iter() {
		if err != nil || delta != "a" {
			t.Fatalf("unexpected first delta (%q, %v)", delta, err)
		}
		break
	}

	if !body.closed {
		t.Error("expected body to be closed after break")
	}
}

func TestLineStream_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body := &trackingBody{Reader: strings.NewReader(`data: {"text":"a"}` + "\n")}
	client := testClient(t, ai.ClientConfig{})

	_, err := client.LineStream(ctx, body, decodeTextChunk).Collect()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLineStream_ClientErrorEndsStream(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`data: {"text":"a"}` + "\n" + `data: fail` + "\n" + `data: {"text":"b"}` + "\n")}

	client := testClient(t, ai.ClientConfig{})
	handler := func(payload string) (string, bool, error) {
		if payload == "fail" {
			return "", true, ai.NewClientError(ai.ProviderClaude, 0, "overloaded", nil)
		}
		return decodeTextChunk(payload)
	}

	text, err := client.LineStream(context.Background(), body, handler).Collect()

	var clientErr *ai.ClientError
	if !errors.As(err, &clientErr) || clientErr.Message != "overloaded" {
		t.Errorf("expected the in-stream error, got %v", err)
	}
	if text != "a" {
		t.Errorf("expected text before the failure, got %q", text)
	}
}
