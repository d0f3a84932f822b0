package validate

import (
	"fmt"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
)

// ComponentValidator checks normalized components.
type ComponentValidator struct{}

// NewComponentValidator returns a ComponentValidator.
func NewComponentValidator() *ComponentValidator {
	return &ComponentValidator{}
}

// Validate checks one component, given as a schema.Component or as its
// decoded JSON form.
func (validator *ComponentValidator) Validate(value any) error {
	document, err := schema.Document(value)
	if err != nil {
		return ai.NewValidationError("component", []string{err.Error()})
	}

	if issues := validator.issues(document, ""); len(issues) > 0 {
		return ai.NewValidationError("component", issues)
	}
	return nil
}

// ValidateArray checks a list of components. Issues are prefixed with the
// index of the offending element, e.g. "[1] missing required field \"id\"".
func (validator *ComponentValidator) ValidateArray(values any) error {
	document, err := schema.Document(values)
	if err != nil {
		return ai.NewValidationError("components", []string{err.Error()})
	}

	items, ok := document.([]any)
	if !ok {
		return ai.NewValidationError("components", []string{"components must be an array"})
	}

	var issues []string
	for index, item := range items {
		issues = append(issues, validator.issues(item, fmt.Sprintf("[%d]", index))...)
	}
	if len(issues) > 0 {
		return ai.NewValidationError("components", issues)
	}
	return nil
}

// issues lists every rule value violates. path locates value for nested
// components and array elements.
func (validator *ComponentValidator) issues(value any, path string) []string {
	component, ok := value.(map[string]any)
	if !ok {
		return []string{at(path, "component must be an object")}
	}

	var issues []string
	for _, field := range []string{"id", "type", "name"} {
		if issue := requiredString(component, field); issue != "" {
			issues = append(issues, at(path, issue))
		}
	}

	if position, present := component["position"]; present && position != nil && !isPosition(position) {
		issues = append(issues, at(path, "position must be an object with numeric x and y"))
	}

	if properties, present := component["properties"]; present && !isObject(properties) {
		issues = append(issues, at(path, "properties must be an object"))
	}

	if parentID, present := component["parentId"]; present && parentID != nil {
		if _, ok := parentID.(string); !ok {
			issues = append(issues, at(path, "parentId must be a string or null"))
		}
	}

	if dataMapping, present := component["dataMapping"]; present && dataMapping != nil && !isObject(dataMapping) {
		issues = append(issues, at(path, "dataMapping must be an object"))
	}

	if children, present := component["children"]; present {
		list, ok := children.([]any)
		if !ok {
			issues = append(issues, at(path, "children must be an array"))
		}
		for index, child := range list {
			issues = append(issues, validator.issues(child, join(path, fmt.Sprintf("children[%d]", index)))...)
		}
	}

	return issues
}

func requiredString(object map[string]any, field string) string {
	value, present := object[field]
	if !present || value == nil {
		return fmt.Sprintf("missing required field %q", field)
	}
	text, ok := value.(string)
	if !ok {
		return fmt.Sprintf("field %q must be a string", field)
	}
	if text == "" {
		return fmt.Sprintf("field %q must not be empty", field)
	}
	return ""
}

func isObject(value any) bool {
	_, ok := value.(map[string]any)
	return ok
}

func isPosition(value any) bool {
	position, ok := value.(map[string]any)
	if !ok {
		return false
	}
	_, okX := position["x"].(float64)
	_, okY := position["y"].(float64)
	return okX && okY
}

func at(path, message string) string {
	if path == "" {
		return message
	}
	return path + " " + message
}

func join(path, element string) string {
	if path == "" {
		return element
	}
	return path + "." + element
}
