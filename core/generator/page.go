package generator

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/leofalp/uigen/core/parse"
	"github.com/leofalp/uigen/core/prompt"
	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/base"
)

// PageGenerator generates complete pages.
type PageGenerator struct {
	client   ai.Client
	prompts  prompt.PagePromptBuilder
	settings settings
}

// NewPageGenerator returns a generator backed by client.
func NewPageGenerator(client ai.Client, opts ...Option) *PageGenerator {
	return &PageGenerator{client: client, settings: newSettings(opts)}
}

// Generate asks the model for a page described by opts.
func (generator *PageGenerator) Generate(ctx context.Context, opts prompt.PageOptions) (GenerateResult[schema.PageSchema], error) {
	start := time.Now()

	raw, err := generator.client.GenerateJSON(ctx, generator.prompts.BuildMessages(opts), schema.PageJSONSchema())
	if err != nil {
		return GenerateResult[schema.PageSchema]{}, err
	}

	page, err := generator.build(string(raw), opts, generator.settings.now())
	if err != nil {
		return GenerateResult[schema.PageSchema]{}, err
	}

	return GenerateResult[schema.PageSchema]{
		Result:   page,
		Metadata: metadataFor(generator.client, start),
	}, nil
}

// Stream generates a page progressively, with the same update contract as
// [ComponentGenerator.Stream]. Timestamps the model omitted are taken once
// at stream start, so they stay stable across updates.
func (generator *PageGenerator) Stream(ctx context.Context, opts prompt.PageOptions) iter.Seq[PageUpdate] {
	return func(yield func(PageUpdate) bool) {
		now := generator.settings.now()
		messages := base.AugmentJSONMode(generator.prompts.BuildMessages(opts), schema.PageJSONSchema())

		stream, err := generator.client.Stream(ctx, messages)
		if err != nil {
			yield(PageUpdate{Value: pageStub(opts, now, err), Err: err})
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

			partial, err := generator.build(buffer.String(), opts, now)
			if err != nil {
				continue
			}
			if !yield(PageUpdate{Value: partial, Partial: true}) {
				return
			}
		}

		if streamErr != nil {
			generator.settings.logger.WarnContext(ctx, "page stream failed",
				"provider", generator.client.Name(),
				"received", len(buffer.String()),
				"error", streamErr)
			yield(PageUpdate{Value: pageStub(opts, now, streamErr), Err: streamErr})
			return
		}

		page, err := generator.build(buffer.String(), opts, now)
		if err != nil {
			yield(PageUpdate{Value: pageStub(opts, now, err), Err: err})
			return
		}
		yield(PageUpdate{Value: page})
	}
}

// build parses text into a page, backfills the metadata the model omitted
// from opts and applies the explicit theme override.
func (generator *PageGenerator) build(text string, opts prompt.PageOptions, now time.Time) (schema.PageSchema, error) {
	document, err := parse.ParseJSON[map[string]any](text)
	if err != nil {
		return schema.PageSchema{}, err
	}

	metadata, ok := document["metadata"].(map[string]any)
	if !ok {
		metadata = map[string]any{}
		document["metadata"] = metadata
	}
	if name, _ := metadata["name"].(string); name == "" && opts.Name != "" {
		metadata["name"] = opts.Name
	}
	if _, ok := metadata["description"].(string); !ok && opts.Description != "" {
		metadata["description"] = opts.Description
	}

	page, err := parse.NormalizePage(document, now)
	if err != nil {
		return schema.PageSchema{}, ai.NewParseError(err.Error(), text, nil)
	}

	if len(opts.Theme) > 0 {
		page.Theme = opts.Theme
	}
	return page, nil
}

// pageStub is the error-flagged page of a failed stream.
func pageStub(opts prompt.PageOptions, now time.Time, err error) schema.PageSchema {
	page := schema.NewPage(opts.Name, now)
	page.Metadata.Description = "Generation failed: " + err.Error()
	if len(opts.Theme) > 0 {
		page.Theme = opts.Theme
	}
	return page
}
