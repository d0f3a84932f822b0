package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/internal/jsonschema"
	"github.com/leofalp/uigen/providers/ai"
)

// ErrCheckerUnavailable is returned by a SchemaChecker that cannot run; the
// page validator then falls back to its structural checks.
var ErrCheckerUnavailable = errors.New("schema checker unavailable")

// SchemaChecker runs a full-schema check over a decoded page document and
// returns one diagnostic per violation.
type SchemaChecker interface {
	Check(ctx context.Context, document any) ([]string, error)
}

// JSONSchemaChecker checks documents against a JSON Schema with
// [jsonschema.Check].
type JSONSchemaChecker struct {
	schema *jsonschema.Schema
}

// NewJSONSchemaChecker returns a checker for the normalized page schema.
func NewJSONSchemaChecker() *JSONSchemaChecker {
	return &JSONSchemaChecker{schema: schema.NormalizedPageJSONSchema()}
}

// Check implements SchemaChecker.
func (checker *JSONSchemaChecker) Check(ctx context.Context, document any) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if checker == nil || checker.schema == nil {
		return nil, ErrCheckerUnavailable
	}

	var diagnostics []string
	for _, issue := range jsonschema.Check(checker.schema, document) {
		diagnostics = append(diagnostics, issue.String())
	}
	return diagnostics, nil
}

// PageValidator checks normalized pages.
type PageValidator struct {
	components *ComponentValidator
	checker    SchemaChecker
	logger     *slog.Logger
}

// PageOption configures a PageValidator.
type PageOption func(*PageValidator)

// WithSchemaChecker enables the full-schema path of ValidateContext.
func WithSchemaChecker(checker SchemaChecker) PageOption {
	return func(validator *PageValidator) {
		validator.checker = checker
	}
}

// WithLogger sets the logger used to report checker fallbacks.
func WithLogger(logger *slog.Logger) PageOption {
	return func(validator *PageValidator) {
		validator.logger = logger
	}
}

// NewPageValidator returns a PageValidator. Without a checker,
// ValidateContext behaves like Validate.
func NewPageValidator(opts ...PageOption) *PageValidator {
	validator := &PageValidator{
		components: NewComponentValidator(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(validator)
	}
	return validator
}

// Validate runs the structural page checks.
func (validator *PageValidator) Validate(value any) error {
	document, err := schema.Document(value)
	if err != nil {
		return ai.NewValidationError("page", []string{err.Error()})
	}

	if issues := validator.issues(document); len(issues) > 0 {
		return ai.NewValidationError("page", issues)
	}
	return nil
}

// ValidateContext runs the structural checks and then the configured
// SchemaChecker, reporting both sets of issues. Checker diagnostics that
// repeat a structural issue are dropped. When no checker is configured or
// the checker returns ErrCheckerUnavailable, only the structural issues are
// reported; any other checker error is returned as is.
func (validator *PageValidator) ValidateContext(ctx context.Context, value any) error {
	if validator.checker == nil {
		return validator.Validate(value)
	}

	document, err := schema.Document(value)
	if err != nil {
		return ai.NewValidationError("page", []string{err.Error()})
	}

	issues := validator.issues(document)

	diagnostics, err := validator.checker.Check(ctx, document)
	switch {
	case errors.Is(err, ErrCheckerUnavailable):
		validator.logger.DebugContext(ctx, "schema checker unavailable, using structural validation", slog.String("error", err.Error()))
	case err != nil:
		return fmt.Errorf("schema check failed: %w", err)
	default:
		seen := make(map[string]bool, len(issues))
		for _, issue := range issues {
			seen[issue] = true
		}
		for _, diagnostic := range diagnostics {
			if !seen[diagnostic] {
				seen[diagnostic] = true
				issues = append(issues, diagnostic)
			}
		}
	}

	if len(issues) > 0 {
		return ai.NewValidationError("page", issues)
	}
	return nil
}

func (validator *PageValidator) issues(value any) []string {
	page, ok := value.(map[string]any)
	if !ok {
		return []string{"page must be an object"}
	}

	var issues []string
	if issue := requiredString(page, "version"); issue != "" {
		issues = append(issues, issue)
	}

	issues = append(issues, metadataIssues(page["metadata"])...)

	if components, ok := page["components"].([]any); ok {
		for index, component := range components {
			issues = append(issues, validator.components.issues(component, fmt.Sprintf("components[%d]", index))...)
		}
	} else {
		issues = append(issues, "components must be an array")
	}

	issues = append(issues, canvasIssues(page["canvas"])...)

	if !isObject(page["theme"]) {
		issues = append(issues, "theme must be an object")
	}
	if _, ok := page["dataSources"].([]any); !ok {
		issues = append(issues, "dataSources must be an array")
	}

	return issues
}

func metadataIssues(value any) []string {
	metadata, ok := value.(map[string]any)
	if !ok {
		return []string{"metadata must be an object"}
	}

	var issues []string
	for _, field := range []string{"name", "createdAt", "updatedAt", "version"} {
		if issue := requiredString(metadata, field); issue != "" {
			issues = append(issues, at("metadata", issue))
		}
	}
	if description, present := metadata["description"]; present {
		if _, ok := description.(string); !ok {
			issues = append(issues, at("metadata", "description must be a string"))
		}
	}
	return issues
}

func canvasIssues(value any) []string {
	canvas, ok := value.(map[string]any)
	if !ok {
		return []string{"canvas must be an object"}
	}

	var issues []string
	for _, field := range []string{"showGrid", "snapToGrid"} {
		if _, ok := canvas[field].(bool); !ok {
			issues = append(issues, fmt.Sprintf("canvas.%s must be a boolean", field))
		}
	}
	if _, ok := canvas["viewportWidth"].(float64); !ok {
		issues = append(issues, "canvas.viewportWidth must be a number")
	}
	if _, ok := canvas["activeDevice"].(string); !ok {
		issues = append(issues, "canvas.activeDevice must be a string")
	}
	return issues
}
