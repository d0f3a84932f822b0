package generator

import (
	"log/slog"
	"time"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
)

// Metadata describes how a result was produced.
type Metadata struct {
	Provider ai.ProviderName
	Model    string
	Duration time.Duration
}

// GenerateResult is the outcome of one generation call.
type GenerateResult[T any] struct {
	Result   T
	Metadata Metadata
}

// Update is one element of a generation stream. Partial updates carry a
// best-effort document decoded from the text received so far; later updates
// supersede earlier ones. The last update has Partial set to false; when
// the stream or the final parse failed, Value is an error-flagged stub and
// Err reports the failure.
type Update[T any] struct {
	Value   T
	Partial bool
	Err     error
}

type (
	ComponentUpdate = Update[schema.Component]
	PageUpdate      = Update[schema.PageSchema]
)

type settings struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the generators and the façade.
type Option func(*settings)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithClock sets the time source used for page timestamps. Default:
// time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func metadataFor(client ai.Client, start time.Time) Metadata {
	return Metadata{
		Provider: client.Name(),
		Model:    client.Model(),
		Duration: time.Since(start),
	}
}
