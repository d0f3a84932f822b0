package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
)

func validPage() schema.PageSchema {
	page := schema.NewPage("Landing", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	page.Components = []schema.Component{{
		ID:         "c1",
		Type:       "button",
		Name:       "Submit",
		Position:   &schema.Position{X: 10, Y: 20},
		Properties: map[string]any{"label": "Submit"},
	}}
	return page
}

func validationIssues(t *testing.T, err error) []string {
	t.Helper()
	var validationErr *ai.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ai.ValidationError, got %v", err)
	}
	return validationErr.Issues
}

func TestComponentValidator_AcceptsNormalizedComponent(t *testing.T) {
	component := schema.Component{ID: "c1", Type: "card", Name: "Card", ParentID: schema.StringPtr("root")}
	if err := NewComponentValidator().Validate(component); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestComponentValidator_ReportsEveryIssue(t *testing.T) {
	err := NewComponentValidator().Validate(map[string]any{
		"type":       7.0,
		"position":   map[string]any{"x": 1.0},
		"properties": []any{},
		"children":   "none",
		"parentId":   3.0,
	})

	issues := validationIssues(t, err)
	want := []string{
		`missing required field "id"`,
		`field "type" must be a string`,
		`missing required field "name"`,
		"position must be an object with numeric x and y",
		"properties must be an object",
		"parentId must be a string or null",
		"children must be an array",
	}
	if strings.Join(issues, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected issues:\n got %q\nwant %q", issues, want)
	}
}

func TestComponentValidator_NestedChildPath(t *testing.T) {
	err := NewComponentValidator().Validate(map[string]any{
		"id": "root", "type": "container", "name": "Root",
		"children": []any{
			map[string]any{"id": "a", "type": "text", "name": "A"},
			map[string]any{"id": "b", "name": "B"},
		},
	})

	issues := validationIssues(t, err)
	if len(issues) != 1 || issues[0] != `children[1] missing required field "type"` {
		t.Errorf("unexpected issues %q", issues)
	}
}

func TestComponentValidator_ValidateArrayReferencesIndex(t *testing.T) {
	err := NewComponentValidator().ValidateArray([]any{
		map[string]any{"id": "a", "type": "button", "name": "A"},
		map[string]any{"type": "button", "name": "B"},
	})

	issues := validationIssues(t, err)
	if len(issues) != 1 || !strings.HasPrefix(issues[0], "[1]") {
		t.Errorf("expected a single issue for index 1, got %q", issues)
	}
	if ai.ErrorCode(err) != ai.CodeValidationError || !errors.Is(err, ai.ErrGenerator) {
		t.Errorf("unexpected error classification for %v", err)
	}
}

func TestComponentValidator_ValidateArrayRejectsNonArray(t *testing.T) {
	issues := validationIssues(t, NewComponentValidator().ValidateArray(map[string]any{}))
	if issues[0] != "components must be an array" {
		t.Errorf("unexpected issues %q", issues)
	}
}

func TestPageValidator_AcceptsNormalizedPage(t *testing.T) {
	if err := NewPageValidator().Validate(validPage()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPageValidator_ShowGridString(t *testing.T) {
	document, err := schema.Document(validPage())
	if err != nil {
		t.Fatal(err)
	}
	document.(map[string]any)["canvas"].(map[string]any)["showGrid"] = "true"

	issues := validationIssues(t, NewPageValidator().Validate(document))
	if len(issues) != 1 || issues[0] != "canvas.showGrid must be a boolean" {
		t.Errorf("unexpected issues %q", issues)
	}
}

func TestPageValidator_ReportsEveryTopLevelIssue(t *testing.T) {
	err := NewPageValidator().Validate(map[string]any{
		"metadata":    map[string]any{"name": "x"},
		"components":  []any{map[string]any{"id": "a", "type": "button"}},
		"theme":       "dark",
		"dataSources": map[string]any{},
	})

	issues := validationIssues(t, err)
	for _, want := range []string{
		`missing required field "version"`,
		`metadata missing required field "createdAt"`,
		`components[0] missing required field "name"`,
		"canvas must be an object",
		"theme must be an object",
		"dataSources must be an array",
	} {
		found := false
		for _, issue := range issues {
			if issue == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing issue %q in %q", want, issues)
		}
	}
}

func TestPageValidator_ValidateContextUsesChecker(t *testing.T) {
	document, _ := schema.Document(validPage())
	document.(map[string]any)["canvas"].(map[string]any)["viewportWidth"] = "wide"

	validator := NewPageValidator(WithSchemaChecker(NewJSONSchemaChecker()))
	issues := validationIssues(t, validator.ValidateContext(context.Background(), document))

	if len(issues) != 2 || issues[0] != "canvas.viewportWidth must be a number" || !strings.HasPrefix(issues[1], "$.canvas.viewportWidth") {
		t.Errorf("expected the structural issue then a path-qualified diagnostic, got %q", issues)
	}
	if err := validator.ValidateContext(context.Background(), validPage()); err != nil {
		t.Errorf("unexpected error for a valid page: %v", err)
	}
}

type staticChecker struct{ diagnostics []string }

func (checker staticChecker) Check(context.Context, any) ([]string, error) {
	return checker.diagnostics, nil
}

func TestPageValidator_ValidateContextKeepsStructuralIssues(t *testing.T) {
	page := validPage()
	page.Version = ""
	page.Components[0].ID = ""
	page.Components[0].Children = []schema.Component{{
		ID:   "c2",
		Type: "row",
		Name: "Row",
		Children: []schema.Component{{
			Type: "text",
			Name: "Caption",
		}},
	}}

	validator := NewPageValidator(WithSchemaChecker(NewJSONSchemaChecker()))
	issues := validationIssues(t, validator.ValidateContext(context.Background(), page))

	for _, want := range []string{
		`field "version" must not be empty`,
		`components[0] field "id" must not be empty`,
		`components[0].children[0].children[0] field "id" must not be empty`,
	} {
		found := false
		for _, issue := range issues {
			if strings.Contains(issue, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing issue %q in %q", want, issues)
		}
	}
}

func TestPageValidator_ValidateContextDropsRepeatedDiagnostics(t *testing.T) {
	document, _ := schema.Document(validPage())
	document.(map[string]any)["canvas"].(map[string]any)["showGrid"] = "true"

	checker := staticChecker{diagnostics: []string{"canvas.showGrid must be a boolean", "$.theme extra"}}
	issues := validationIssues(t, NewPageValidator(WithSchemaChecker(checker)).ValidateContext(context.Background(), document))

	want := []string{"canvas.showGrid must be a boolean", "$.theme extra"}
	if strings.Join(issues, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, issues)
	}
}

type unavailableChecker struct{ calls int }

func (checker *unavailableChecker) Check(context.Context, any) ([]string, error) {
	checker.calls++
	return nil, ErrCheckerUnavailable
}

func TestPageValidator_ValidateContextFallsBack(t *testing.T) {
	checker := &unavailableChecker{}
	validator := NewPageValidator(WithSchemaChecker(checker))

	document, _ := schema.Document(validPage())
	document.(map[string]any)["canvas"].(map[string]any)["showGrid"] = "true"

	issues := validationIssues(t, validator.ValidateContext(context.Background(), document))
	if checker.calls != 1 || issues[0] != "canvas.showGrid must be a boolean" {
		t.Errorf("expected structural fallback, got calls=%d issues=%q", checker.calls, issues)
	}
}

func TestPageValidator_ValidateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPageValidator(WithSchemaChecker(NewJSONSchemaChecker())).ValidateContext(ctx, validPage())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
