package parse

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
)

// ParseComponent parses text and normalizes the result with
// [NormalizeComponent].
func ParseComponent(text string) (schema.Component, error) {
	raw, err := ParseJSON[map[string]any](text)
	if err != nil {
		return schema.Component{}, err
	}

	component, err := NormalizeComponent(raw)
	if err != nil {
		return schema.Component{}, ai.NewParseError(err.Error(), text, nil)
	}
	return component, nil
}

// NormalizeComponent repairs the shape of a decoded component:
//   - id: generated when absent or not a non-empty string
//   - type: required, an error otherwise
//   - name: defaults to the type
//   - position: dropped unless it is an object with numeric x and y
//   - properties: {} unless an object
//   - children: [] unless an array; entries are normalized recursively and
//     non-object entries dropped
//   - parentId: nil unless a string
func NormalizeComponent(raw map[string]any) (schema.Component, error) {
	return normalizeComponent(raw, "")
}

func normalizeComponent(raw map[string]any, path string) (schema.Component, error) {
	componentType, _ := raw["type"].(string)
	componentType = strings.TrimSpace(componentType)
	if componentType == "" {
		return schema.Component{}, fmt.Errorf("component%s is missing required field \"type\"", path)
	}

	component := schema.Component{
		ID:         nonEmptyString(raw["id"], uuid.NewString()),
		Type:       componentType,
		Name:       nonEmptyString(raw["name"], componentType),
		Position:   position(raw["position"]),
		Properties: object(raw["properties"]),
		Children:   []schema.Component{},
	}

	if parentID, ok := raw["parentId"].(string); ok {
		component.ParentID = &parentID
	}

	if dataSource, ok := raw["dataSource"]; ok && dataSource != nil {
		component.DataSource = dataSource
	}
	if dataMapping, ok := raw["dataMapping"].(map[string]any); ok {
		component.DataMapping = dataMapping
	}

	if children, ok := raw["children"].([]any); ok {
		for index, entry := range children {
			child, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			normalized, err := normalizeComponent(child, fmt.Sprintf("%s.children[%d]", path, index))
			if err != nil {
				return schema.Component{}, err
			}
			component.Children = append(component.Children, normalized)
		}
	}

	return component, nil
}

func nonEmptyString(value any, fallback string) string {
	if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
		return text
	}
	return fallback
}

func position(value any) *schema.Position {
	coordinates, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	x, okX := coordinates["x"].(float64)
	y, okY := coordinates["y"].(float64)
	if !okX || !okY {
		return nil
	}
	return &schema.Position{X: x, Y: y}
}

func object(value any) map[string]any {
	if typed, ok := value.(map[string]any); ok {
		return typed
	}
	return map[string]any{}
}
