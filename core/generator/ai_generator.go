package generator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/leofalp/uigen/core/prompt"
	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/core/validate"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/factory"
)

// GeneratorOptions tunes a single façade call.
type GeneratorOptions struct {
	// Validate runs the structural validators over the result before it is
	// returned.
	Validate bool
}

// retryableKeywords mark failures that are likely to succeed when the caller
// tries again.
var retryableKeywords = []string{
	"timeout",
	"timed out",
	"rate limit",
	"too many requests",
	"network",
	"connection reset",
	"overloaded",
	"unavailable",
	"429",
	"502",
	"503",
	"504",
}

// IsRetryable reports whether err looks transient, judging by its message.
// It is a coarse classification for logging and for callers deciding whether
// to try again; the façade never retries by itself.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, keyword := range retryableKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// AIGenerator is the entry point for generating components and pages.
type AIGenerator struct {
	client     ai.Client
	components *ComponentGenerator
	pages      *PageGenerator

	componentValidator *validate.ComponentValidator
	pageValidator      *validate.PageValidator
	logger             *slog.Logger
}

// New returns a generator backed by client.
func New(client ai.Client, opts ...Option) *AIGenerator {
	s := newSettings(opts)

	return &AIGenerator{
		client:             client,
		components:         NewComponentGenerator(client, opts...),
		pages:              NewPageGenerator(client, opts...),
		componentValidator: validate.NewComponentValidator(),
		pageValidator: validate.NewPageValidator(
			validate.WithSchemaChecker(validate.NewJSONSchemaChecker()),
			validate.WithLogger(s.logger),
		),
		logger: s.logger,
	}
}

// NewFromProvider creates the client for provider with
// [factory.CreateClient] and returns a generator backed by it.
func NewFromProvider(provider ai.ProviderName, config factory.Config, opts ...Option) (*AIGenerator, error) {
	client, err := factory.CreateClient(provider, config)
	if err != nil {
		return nil, err
	}
	return New(client, opts...), nil
}

// Client returns the underlying model client.
func (generator *AIGenerator) Client() ai.Client {
	return generator.client
}

// GenerateComponent generates one component.
func (generator *AIGenerator) GenerateComponent(ctx context.Context, opts prompt.ComponentOptions, genOpts GeneratorOptions) (GenerateResult[schema.Component], error) {
	result, err := generator.components.Generate(ctx, opts)
	if err == nil && genOpts.Validate {
		err = generator.componentValidator.Validate(result.Result)
	}
	if err != nil {
		return GenerateResult[schema.Component]{}, generator.fail(ctx, "component", err)
	}
	return result, nil
}

// GenerateComponents generates one component per entry of opts, at most
// limit at a time (no limit when limit <= 0), in input order.
func (generator *AIGenerator) GenerateComponents(ctx context.Context, opts []prompt.ComponentOptions, limit int, genOpts GeneratorOptions) ([]GenerateResult[schema.Component], error) {
	results, err := generator.components.GenerateBatch(ctx, opts, limit)
	if err == nil && genOpts.Validate {
		components := make([]schema.Component, len(results))
		for index, result := range results {
			components[index] = result.Result
		}
		err = generator.componentValidator.ValidateArray(components)
	}
	if err != nil {
		return nil, generator.fail(ctx, "components", err)
	}
	return results, nil
}

// StreamComponent streams the generation of one component. See
// [ComponentGenerator.Stream].
func (generator *AIGenerator) StreamComponent(ctx context.Context, opts prompt.ComponentOptions) iter.Seq[ComponentUpdate] {
	return func(yield func(ComponentUpdate) bool) {
		for update := range generator.components.Stream(ctx, opts) {
			if update.Err != nil {
				update.Err = generator.fail(ctx, "component stream", update.Err)
			}
			if !yield(update) {
				return
			}
		}
	}
}

// GeneratePage generates one page.
func (generator *AIGenerator) GeneratePage(ctx context.Context, opts prompt.PageOptions, genOpts GeneratorOptions) (GenerateResult[schema.PageSchema], error) {
	result, err := generator.pages.Generate(ctx, opts)
	if err == nil && genOpts.Validate {
		err = generator.pageValidator.ValidateContext(ctx, result.Result)
	}
	if err != nil {
		return GenerateResult[schema.PageSchema]{}, generator.fail(ctx, "page", err)
	}
	return result, nil
}

// StreamPage streams the generation of one page. See
// [PageGenerator.Stream].
func (generator *AIGenerator) StreamPage(ctx context.Context, opts prompt.PageOptions) iter.Seq[PageUpdate] {
	return func(yield func(PageUpdate) bool) {
		for update := range generator.pages.Stream(ctx, opts) {
			if update.Err != nil {
				update.Err = generator.fail(ctx, "page stream", update.Err)
			}
			if !yield(update) {
				return
			}
		}
	}
}

// fail converts err into a typed error and logs it.
func (generator *AIGenerator) fail(ctx context.Context, operation string, err error) error {
	typed := err
	if !errors.Is(err, ai.ErrGenerator) {
		typed = ai.NewClientError(generator.client.Name(), 0, fmt.Sprintf("%s generation failed", operation), err)
	}

	generator.logger.ErrorContext(ctx, "generation failed",
		slog.String("operation", operation),
		slog.String("provider", string(generator.client.Name())),
		slog.String("code", ai.ErrorCode(typed)),
		slog.Bool("retryable", IsRetryable(typed)),
		slog.String("error", typed.Error()),
	)
	return typed
}
