package jsonschema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Schema represents the subset of JSON Schema used to describe the documents
// the generators ask models for. It is embedded in prompts as a hint and can
// be checked against a decoded document with [Check].
type Schema struct {
	//  Type Specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties: false forbids properties not listed in Properties
	AdditionalProperties *bool `json:"additionalProperties,omitempty"`
	// Enum contains the list of allowed values
	Enum []any `json:"enum,omitempty"`
	// Nullable allows null in addition to Type
	Nullable bool `json:"nullable,omitempty"`
}

// Object builds an object schema with the given properties and required keys.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// String builds a string schema.
func String(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}

// Number builds a number schema.
func Number(description string) *Schema {
	return &Schema{Type: "number", Description: description}
}

// Boolean builds a boolean schema.
func Boolean(description string) *Schema {
	return &Schema{Type: "boolean", Description: description}
}

// Array builds an array schema whose items follow items.
func Array(items *Schema, description string) *Schema {
	return &Schema{Type: "array", Items: items, Description: description}
}

// Any builds a schema that accepts any value.
func Any(description string) *Schema {
	return &Schema{Description: description}
}

// JSON returns the compact JSON representation of the schema, suitable for
// embedding in a prompt.
func (s *Schema) JSON() string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// Issue is a single violation reported by [Check].
type Issue struct {
	Path    string // JSON-pointer-like path, "$" is the document root
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Check walks doc (a value produced by encoding/json decoding into any) and
// reports every place where it does not satisfy schema. It never stops at the
// first problem.
func Check(schema *Schema, doc any) []Issue {
	var issues []Issue
	check(schema, doc, "$", &issues)
	return issues
}

func check(schema *Schema, value any, path string, issues *[]Issue) {
	if schema == nil {
		return
	}

	if value == nil {
		if schema.Type != "" && !schema.Nullable {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected %s, got null", schema.Type)})
		}
		return
	}

	if schema.Type != "" && !matchesType(schema.Type, value) {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("expected %s, got %s", schema.Type, typeName(value))})
		return
	}

	if len(schema.Enum) > 0 && !inEnum(schema.Enum, value) {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("value %v is not one of %v", value, schema.Enum)})
	}

	switch typed := value.(type) {
	case map[string]any:
		for _, key := range schema.Required {
			if _, ok := typed[key]; !ok {
				*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("missing required property %q", key)})
			}
		}

		// Sorted keys keep the issue order deterministic.
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			propertySchema, known := schema.Properties[key]
			if !known {
				if schema.AdditionalProperties != nil && !*schema.AdditionalProperties {
					*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("unexpected property %q", key)})
				}
				continue
			}
			check(propertySchema, typed[key], path+"."+key, issues)
		}

	case []any:
		for index, item := range typed {
			check(schema.Items, item, fmt.Sprintf("%s[%d]", path, index), issues)
		}
	}
}

func matchesType(schemaType string, value any) bool {
	switch schemaType {
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(float64)
		return ok
	case "integer":
		number, ok := value.(float64)
		return ok && number == math.Trunc(number)
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return true
	}
}

func typeName(value any) string {
	switch value.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func inEnum(enum []any, value any) bool {
	for _, candidate := range enum {
		if candidate == value {
			return true
		}
	}
	return false
}
