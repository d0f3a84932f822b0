package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leofalp/uigen/providers/ai"
)

func testConfig(baseURL string) ai.ClientConfig {
	return ai.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		RetryDelay: time.Millisecond,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func TestSplitSystem_MergesInOrder(t *testing.T) {
	system, turns := splitSystem([]ai.Message{
		ai.SystemMessage("first"),
		ai.UserMessage("hi"),
		ai.SystemMessage("second"),
		ai.AssistantMessage("hello"),
	})

	if system != "first\n\nsecond" {
		t.Errorf("unexpected system %q", system)
	}
	if len(turns) != 2 || turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("unexpected turns %+v", turns)
	}
}

func TestGenerate_SendsMessagesRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing x-api-key, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("unexpected anthropic-version %q", r.Header.Get("anthropic-version"))
		}

		var body messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body.System != "You design UIs." {
			t.Errorf("unexpected system %q", body.System)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" {
			t.Errorf("system messages must not be sent as turns: %+v", body.Messages)
		}
		if body.MaxTokens != ai.DefaultMaxTokens || body.Model != DefaultModel {
			t.Errorf("unexpected model/max_tokens: %s/%d", body.Model, body.MaxTokens)
		}

		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"Hello"},{"type":"text","text":" there"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	text, err := New(testConfig(server.URL)).Generate(context.Background(), []ai.Message{
		ai.SystemMessage("You design UIs."),
		ai.UserMessage("hi"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello there" {
		t.Errorf("expected concatenated text, got %q", text)
	}
}

func TestGenerate_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	_, err := New(testConfig(server.URL)).Generate(context.Background(), []ai.Message{ai.UserMessage("hi")})

	var clientErr *ai.ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *ai.ClientError, got %v", err)
	}
	if clientErr.Message != "invalid x-api-key" || clientErr.VendorCode != "authentication_error" {
		t.Errorf("unexpected error %+v", clientErr)
	}
}

func TestStream_YieldsTextDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeEvent(w, "message_start", `{"type":"message_start","message":{"id":"msg_1"}}`)
		writeEvent(w, "content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`)
		writeEvent(w, "ping", `{"type":"ping"}`)
		writeEvent(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hel"}}`)
		writeEvent(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"lo"}}`)
		writeEvent(w, "content_block_stop", `{"type":"content_block_stop","index":0}`)
		writeEvent(w, "message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn"}}`)
		writeEvent(w, "message_stop", `{"type":"message_stop"}`)
	}))
	defer server.Close()

	stream, err := New(testConfig(server.URL)).Stream(context.Background(), []ai.Message{ai.UserMessage("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := stream.Collect()
	if err != nil || text != "Hello" {
		t.Errorf("got (%q, %v), want (\"Hello\", nil)", text, err)
	}
}

func TestStream_ErrorEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEvent(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"partial"}}`)
		writeEvent(w, "error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
	}))
	defer server.Close()

	stream, err := New(testConfig(server.URL)).Stream(context.Background(), []ai.Message{ai.UserMessage("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := stream.Collect()

	var clientErr *ai.ClientError
	if !errors.As(err, &clientErr) || clientErr.VendorCode != "overloaded_error" {
		t.Errorf("expected overloaded_error, got %v", err)
	}
	if text != "partial" {
		t.Errorf("expected text received before the error, got %q", text)
	}
}
