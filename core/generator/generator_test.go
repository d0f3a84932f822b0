package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leofalp/uigen/core/prompt"
	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/core/validate"
	"github.com/leofalp/uigen/internal/jsonschema"
	"github.com/leofalp/uigen/providers/ai"
)

// stubClient is an ai.Client with scripted answers.
type stubClient struct {
	answer    func(messages []ai.Message) (string, error)
	chunks    []string
	streamErr error
	openErr   error

	mu       sync.Mutex
	messages [][]ai.Message
}

func (client *stubClient) record(messages []ai.Message) {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.messages = append(client.messages, messages)
}

func (client *stubClient) Generate(_ context.Context, messages []ai.Message) (string, error) {
	client.record(messages)
	return client.answer(messages)
}

func (client *stubClient) GenerateJSON(ctx context.Context, messages []ai.Message, _ *jsonschema.Schema) (json.RawMessage, error) {
	text, err := client.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (client *stubClient) Stream(_ context.Context, messages []ai.Message) (*ai.TextStream, error) {
	client.record(messages)
	if client.openErr != nil {
		return nil, client.openErr
	}
	return ai.NewTextStream(func(yield func(string, error) bool) {
		for _, chunk := range client.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if client.streamErr != nil {
			yield("", client.streamErr)
		}
	}), nil
}

func (client *stubClient) Name() ai.ProviderName { return ai.ProviderOpenAI }
func (client *stubClient) Model() string         { return "stub-model" }

func answering(text string) *stubClient {
	return &stubClient{answer: func([]ai.Message) (string, error) { return text, nil }}
}

func quietLogger() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() Option {
	return WithClock(func() time.Time { return fixedNow })
}

func TestComponentGenerator_BackfillsTypeAndAppliesOverrides(t *testing.T) {
	client := answering(`{"name":"Blue Button","position":{"x":1,"y":1},"parentId":"model-parent","properties":{"color":"blue"}}`)

	result, err := NewComponentGenerator(client, quietLogger()).Generate(context.Background(), prompt.ComponentOptions{
		Description: "Create a blue button",
		Type:        "button",
		Position:    &schema.Position{X: 100, Y: 200},
		ParentID:    "form-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	component := result.Result
	if component.ID == "" || component.Type != "button" || component.Name != "Blue Button" {
		t.Errorf("unexpected component %+v", component)
	}
	if component.Position == nil || component.Position.X != 100 || component.Position.Y != 200 {
		t.Errorf("explicit position must win, got %+v", component.Position)
	}
	if component.ParentID == nil || *component.ParentID != "form-1" {
		t.Errorf("explicit parentId must win, got %v", component.ParentID)
	}
	if component.Properties["color"] != "blue" {
		t.Errorf("model properties lost: %v", component.Properties)
	}
	if result.Metadata.Provider != ai.ProviderOpenAI || result.Metadata.Model != "stub-model" {
		t.Errorf("unexpected metadata %+v", result.Metadata)
	}

	if err := validate.NewComponentValidator().Validate(component); err != nil {
		t.Errorf("generated component must validate: %v", err)
	}

	userPrompt := client.messages[0][1].Content
	for _, want := range []string{"Create a blue button", "button", "100", "200"} {
		if !strings.Contains(userPrompt, want) {
			t.Errorf("prompt misses %q", want)
		}
	}
}

func TestComponentGenerator_MissingTypeIsParseError(t *testing.T) {
	client := answering(`{"name":"Mystery"}`)

	_, err := NewComponentGenerator(client, quietLogger()).Generate(context.Background(), prompt.ComponentOptions{
		Description: "something vague",
	})

	var parseErr *ai.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ai.ParseError, got %v", err)
	}
}

func TestComponentGenerator_PropagatesClientError(t *testing.T) {
	want := ai.NewClientError(ai.ProviderOpenAI, 401, "invalid api key", nil)
	client := &stubClient{answer: func([]ai.Message) (string, error) { return "", want }}

	_, err := NewComponentGenerator(client, quietLogger()).Generate(context.Background(), prompt.ComponentOptions{Description: "a button"})
	if !errors.Is(err, want) {
		t.Errorf("expected the client error, got %v", err)
	}
}

func TestComponentGenerator_GenerateBatchKeepsOrderAndLimit(t *testing.T) {
	var running, peak atomic.Int32
	client := &stubClient{answer: func(messages []ai.Message) (string, error) {
		current := running.Add(1)
		defer running.Add(-1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		name := strings.TrimPrefix(strings.SplitN(messages[1].Content, "\n", 2)[0], "Create a UI component based on this description: ")
		return `{"type":"text","name":"` + name + `"}`, nil
	}}

	opts := []prompt.ComponentOptions{{Description: "first"}, {Description: "second"}, {Description: "third"}, {Description: "fourth"}}
	results, err := NewComponentGenerator(client, quietLogger()).GenerateBatch(context.Background(), opts, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for index, result := range results {
		if result.Result.Name != opts[index].Description {
			t.Errorf("result %d out of order: %q", index, result.Result.Name)
		}
	}
	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent calls, got %d", peak.Load())
	}
}

func TestComponentGenerator_GenerateBatchReturnsFirstError(t *testing.T) {
	client := &stubClient{answer: func(messages []ai.Message) (string, error) {
		if strings.Contains(messages[1].Content, "broken") {
			return "", ai.NewClientError(ai.ProviderOpenAI, 500, "server error", nil)
		}
		return `{"type":"text"}`, nil
	}}

	_, err := NewComponentGenerator(client, quietLogger()).GenerateBatch(context.Background(),
		[]prompt.ComponentOptions{{Description: "fine"}, {Description: "broken"}}, 0)

	var clientErr *ai.ClientError
	if !errors.As(err, &clientErr) || clientErr.StatusCode != 500 {
		t.Errorf("expected the 500 client error, got %v", err)
	}
}

func TestComponentGenerator_StreamYieldsPartialsThenFinal(t *testing.T) {
	client := &stubClient{chunks: []string{
		"```json\n",
		`{"type":"button",`,
		`"name":"Go",`,
		`"properties":{"label":"Go"}}`,
		"\n```",
	}}

	var updates []ComponentUpdate
	for update := range NewComponentGenerator(client, quietLogger()).Stream(context.Background(), prompt.ComponentOptions{Description: "a go button"}) {
		updates = append(updates, update)
	}

	if len(updates) < 2 {
		t.Fatalf("expected partial and final updates, got %d", len(updates))
	}
	final := updates[len(updates)-1]
	if final.Partial || final.Err != nil {
		t.Fatalf("unexpected final update %+v", final)
	}
	if final.Value.Name != "Go" || final.Value.Properties["label"] != "Go" {
		t.Errorf("unexpected final component %+v", final.Value)
	}
	for _, update := range updates[:len(updates)-1] {
		if !update.Partial {
			t.Error("only the last update may be final")
		}
		if update.Value.ID != final.Value.ID {
			t.Errorf("partial id %q differs from final id %q", update.Value.ID, final.Value.ID)
		}
	}

	system := client.messages[0][0].Content
	if !strings.Contains(system, "valid JSON only") {
		t.Errorf("expected JSON-mode instruction in system prompt, got %q", system)
	}
}

func TestComponentGenerator_StreamFinalParseFailureYieldsStub(t *testing.T) {
	client := &stubClient{chunks: []string{"I am sorry, ", "I cannot do that."}}

	var updates []ComponentUpdate
	for update := range NewComponentGenerator(client, quietLogger()).Stream(context.Background(), prompt.ComponentOptions{
		Description: "a card",
		Type:        "card",
	}) {
		updates = append(updates, update)
	}

	if len(updates) != 1 {
		t.Fatalf("expected only the final stub, got %d updates", len(updates))
	}
	stub := updates[0]
	var parseErr *ai.ParseError
	if !errors.As(stub.Err, &parseErr) {
		t.Errorf("expected *ai.ParseError, got %v", stub.Err)
	}
	if stub.Partial || stub.Value.Type != "card" || stub.Value.ID == "" || stub.Value.Properties["error"] == nil {
		t.Errorf("unexpected stub %+v", stub.Value)
	}
}

func TestComponentGenerator_StreamErrorYieldsStub(t *testing.T) {
	streamErr := ai.NewClientError(ai.ProviderOpenAI, 0, "network error while streaming", nil)
	client := &stubClient{chunks: []string{`{"type":"input"}`}, streamErr: streamErr}

	var last ComponentUpdate
	for update := range NewComponentGenerator(client, quietLogger()).Stream(context.Background(), prompt.ComponentOptions{Description: "an input"}) {
		last = update
	}

	if !errors.Is(last.Err, streamErr) {
		t.Errorf("expected the stream error, got %v", last.Err)
	}
	if last.Value.Type != "input" || last.Value.Properties["error"] == nil {
		t.Errorf("unexpected stub %+v", last.Value)
	}
}

func TestComponentGenerator_StreamOpenErrorYieldsStub(t *testing.T) {
	client := &stubClient{openErr: ai.NewClientError(ai.ProviderOpenAI, 401, "unauthorized", nil)}

	count := 0
	for update := range NewComponentGenerator(client, quietLogger()).Stream(context.Background(), prompt.ComponentOptions{Description: "x"}) {
		count++
		if update.Err == nil || update.Value.Type != stubErrorType {
			t.Errorf("unexpected update %+v", update)
		}
	}
	if count != 1 {
		t.Errorf("expected one update, got %d", count)
	}
}

func TestComponentGenerator_StreamEarlyBreak(t *testing.T) {
	client := &stubClient{chunks: []string{`{"type":"text"}`, ` `, ` `}}

	count := 0
	for range NewComponentGenerator(client, quietLogger()).Stream(context.Background(), prompt.ComponentOptions{Description: "x"}) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected to stop after one update, got %d", count)
	}
}

func TestPageGenerator_BackfillsMetadataAndThemeOverride(t *testing.T) {
	client := answering(`{"components":[{"type":"header","name":"Header"}],"theme":{"primaryColor":"red"}}`)

	result, err := NewPageGenerator(client, quietLogger(), fixedClock()).Generate(context.Background(), prompt.PageOptions{
		Description: "A landing page",
		Name:        "Landing",
		Theme:       map[string]any{"primaryColor": "blue"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := result.Result
	if page.Metadata.Name != "Landing" || page.Metadata.Description != "A landing page" {
		t.Errorf("metadata not backfilled: %+v", page.Metadata)
	}
	if page.Metadata.CreatedAt != schema.Timestamp(fixedNow) {
		t.Errorf("unexpected timestamp %q", page.Metadata.CreatedAt)
	}
	if page.Theme["primaryColor"] != "blue" {
		t.Errorf("explicit theme must win, got %v", page.Theme)
	}
	if len(page.Components) != 1 || page.Components[0].ID == "" {
		t.Errorf("components not normalized: %+v", page.Components)
	}

	if err := validate.NewPageValidator().Validate(page); err != nil {
		t.Errorf("generated page must validate: %v", err)
	}
}

func TestPageGenerator_KeepsModelName(t *testing.T) {
	client := answering(`{"metadata":{"name":"Pricing"},"components":[]}`)

	result, err := NewPageGenerator(client, quietLogger()).Generate(context.Background(), prompt.PageOptions{Description: "pricing", Name: "Fallback"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Result.Metadata.Name != "Pricing" {
		t.Errorf("expected the model name, got %q", result.Result.Metadata.Name)
	}
}

func TestPageGenerator_StreamStubOnFailure(t *testing.T) {
	client := &stubClient{chunks: []string{"no json here"}}

	var last PageUpdate
	for update := range NewPageGenerator(client, quietLogger(), fixedClock()).Stream(context.Background(), prompt.PageOptions{Description: "blog", Name: "Blog"}) {
		last = update
	}

	if last.Err == nil || last.Partial {
		t.Fatalf("expected a failed final update, got %+v", last)
	}
	if last.Value.Metadata.Name != "Blog" || !strings.HasPrefix(last.Value.Metadata.Description, "Generation failed") {
		t.Errorf("unexpected stub %+v", last.Value.Metadata)
	}
}

func TestPageGenerator_StreamStableTimestamps(t *testing.T) {
	client := &stubClient{chunks: []string{`{"version":"1.0.0",`, `"components":[{"type":"text"}]`, `}`}}

	var stamps []string
	var last PageUpdate
	for update := range NewPageGenerator(client, quietLogger()).Stream(context.Background(), prompt.PageOptions{Description: "x"}) {
		stamps = append(stamps, update.Value.Metadata.CreatedAt)
		last = update
	}

	if last.Err != nil || last.Partial {
		t.Fatalf("unexpected final update %+v", last)
	}
	for _, stamp := range stamps {
		if stamp != stamps[0] {
			t.Errorf("timestamps differ across updates: %q", stamps)
		}
	}
}
