package generator

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leofalp/uigen/core/parse"
	"github.com/leofalp/uigen/core/prompt"
	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
)

// stubErrorType is the component type of the stub emitted when a stream
// could not produce a component and no type was requested.
const stubErrorType = "error"

// ComponentGenerator generates single components.
type ComponentGenerator struct {
	client   ai.Client
	prompts  prompt.ComponentPromptBuilder
	settings settings
}

// NewComponentGenerator returns a generator backed by client.
func NewComponentGenerator(client ai.Client, opts ...Option) *ComponentGenerator {
	return &ComponentGenerator{client: client, settings: newSettings(opts)}
}

// Generate asks the model for a component described by opts.
func (generator *ComponentGenerator) Generate(ctx context.Context, opts prompt.ComponentOptions) (GenerateResult[schema.Component], error) {
	start := time.Now()

	raw, err := generator.client.GenerateJSON(ctx, generator.prompts.BuildMessages(opts), schema.ComponentJSONSchema())
	if err != nil {
		return GenerateResult[schema.Component]{}, err
	}

	component, err := generator.build(string(raw), opts, "")
	if err != nil {
		return GenerateResult[schema.Component]{}, err
	}

	return GenerateResult[schema.Component]{
		Result:   component,
		Metadata: metadataFor(generator.client, start),
	}, nil
}

// GenerateBatch generates one component per entry of opts, running at most
// limit calls at once (no limit when limit <= 0). Results keep the order of
// opts. The first failure cancels the remaining calls and is returned.
func (generator *ComponentGenerator) GenerateBatch(ctx context.Context, opts []prompt.ComponentOptions, limit int) ([]GenerateResult[schema.Component], error) {
	results := make([]GenerateResult[schema.Component], len(opts))

	group, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	for index, options := range opts {
		group.Go(func() error {
			result, err := generator.Generate(groupCtx, options)
			if err != nil {
				return err
			}
			results[index] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stream generates a component progressively. Every chunk that makes the
// accumulated text decodable yields a partial update; the final update
// comes from a full parse of the complete text. All updates of one stream
// share the same component id unless the model supplied its own.
func (generator *ComponentGenerator) Stream(ctx context.Context, opts prompt.ComponentOptions) iter.Seq[ComponentUpdate] {
	return func(yield func(ComponentUpdate) bool) {
		streamID := uuid.NewString()
		messages := base.AugmentJSONMode(generator.prompts.BuildMessages(opts), schema.ComponentJSONSchema())

		stream, err := generator.client.Stream(ctx, messages)
		if err != nil {
			yield(ComponentUpdate{Value: componentStub(streamID, opts, err), Err: err})
			return
		}

		var buffer strings.Builder
		var streamErr error
		for delta, err := range stream.Iter() {
			if err != nil {
				streamErr = err
				break
			}
			buffer.WriteString(delta)

			partial, err := generator.build(buffer.String(), opts, streamID)
			if err != nil {
				continue
			}
			if !yield(ComponentUpdate{Value: partial, Partial: true}) {
				return
			}
		}

		if streamErr != nil {
			generator.settings.logger.WarnContext(ctx, "component stream failed",
				"provider", generator.client.Name(),
				"received", len(buffer.String()),
				"error", streamErr)
			yield(ComponentUpdate{Value: componentStub(streamID, opts, streamErr), Err: streamErr})
			return
		}

		component, err := generator.build(buffer.String(), opts, streamID)
		if err != nil {
			yield(ComponentUpdate{Value: componentStub(streamID, opts, err), Err: err})
			return
		}
		yield(ComponentUpdate{Value: component})
	}
}

// build parses text into a component, fills the type requested by opts when
// the model omitted it, uses id when the model omitted its own, and applies
// the explicit overrides of opts.
func (generator *ComponentGenerator) build(text string, opts prompt.ComponentOptions, id string) (schema.Component, error) {
	document, err := parse.ParseJSON[map[string]any](text)
	if err != nil {
		return schema.Component{}, err
	}

	if componentType, _ := document["type"].(string); strings.TrimSpace(componentType) == "" {
		if resolved := opts.ResolvedType(); resolved != "" {
			document["type"] = resolved
		}
	}
	if _, ok := document["id"].(string); !ok && id != "" {
		document["id"] = id
	}

	component, err := parse.NormalizeComponent(document)
	if err != nil {
		return schema.Component{}, ai.NewParseError(err.Error(), text, nil)
	}

	applyComponentOverrides(&component, opts)
	return component, nil
}

func applyComponentOverrides(component *schema.Component, opts prompt.ComponentOptions) {
	if opts.Position != nil {
		position := *opts.Position
		component.Position = &position
	}
	if opts.ParentID != "" {
		component.ParentID = schema.StringPtr(opts.ParentID)
	}
}

// componentStub is the error-flagged component of a failed stream.
func componentStub(id string, opts prompt.ComponentOptions, err error) schema.Component {
	componentType := opts.ResolvedType()
	if componentType == "" {
		componentType = stubErrorType
	}

	component := schema.Component{
		ID:         id,
		Type:       componentType,
		Name:       componentType,
		Properties: map[string]any{"error": err.Error()},
		Children:   []schema.Component{},
	}
	applyComponentOverrides(&component, opts)
	return component
}
