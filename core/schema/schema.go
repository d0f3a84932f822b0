package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultVersion      = "1.0.0"
	DefaultPageName     = "Untitled Page"
	DefaultViewport     = 1200
	DefaultActiveDevice = "desktop"

	// timestampLayout is ISO-8601 in UTC with millisecond precision.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Position is the canvas placement of a component.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component describes one UI element. ID, Type and Name are always set on a
// normalized component; ParentID is nil for top-level components.
type Component struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Position    *Position      `json:"position,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Children    []Component    `json:"children,omitempty"`
	ParentID    *string        `json:"parentId"`
	DataSource  any            `json:"dataSource,omitempty"`
	DataMapping map[string]any `json:"dataMapping,omitempty"`
}

// PageMetadata carries the descriptive fields of a page.
type PageMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	Version     string `json:"version"`
}

// Canvas holds the editor canvas settings stored with a page.
type Canvas struct {
	ShowGrid      bool    `json:"showGrid"`
	SnapToGrid    bool    `json:"snapToGrid"`
	ViewportWidth float64 `json:"viewportWidth"`
	ActiveDevice  string  `json:"activeDevice"`
}

// PageSchema is a complete page document.
type PageSchema struct {
	Version     string         `json:"version"`
	Metadata    PageMetadata   `json:"metadata"`
	Components  []Component    `json:"components"`
	Canvas      Canvas         `json:"canvas"`
	Theme       map[string]any `json:"theme"`
	DataSources []any          `json:"dataSources"`
}

// Timestamp formats t the way page metadata stores it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// DefaultCanvas returns the canvas settings of a new page.
func DefaultCanvas() Canvas {
	return Canvas{
		ShowGrid:      true,
		SnapToGrid:    true,
		ViewportWidth: DefaultViewport,
		ActiveDevice:  DefaultActiveDevice,
	}
}

// NewPage returns an empty page named name, created at now.
func NewPage(name string, now time.Time) PageSchema {
	if name == "" {
		name = DefaultPageName
	}
	stamp := Timestamp(now)

	return PageSchema{
		Version: DefaultVersion,
		Metadata: PageMetadata{
			Name:      name,
			CreatedAt: stamp,
			UpdatedAt: stamp,
			Version:   DefaultVersion,
		},
		Components:  []Component{},
		Canvas:      DefaultCanvas(),
		Theme:       map[string]any{},
		DataSources: []any{},
	}
}

// StringPtr returns a pointer to value, for ParentID.
func StringPtr(value string) *string {
	return &value
}

// Document converts a typed value into its decoded JSON form
// (map[string]any, []any, ...), the shape validators inspect.
func Document(value any) (any, error) {
	switch value.(type) {
	case map[string]any, []any, nil:
		return value, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	var document any
	if err := json.Unmarshal(encoded, &document); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return document, nil
}

// FromDocument decodes a normalized JSON document into T.
func FromDocument[T any](document any) (T, error) {
	var result T

	encoded, err := json.Marshal(document)
	if err != nil {
		return result, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(encoded, &result); err != nil {
		return result, fmt.Errorf("failed to decode %T: %w", result, err)
	}
	return result, nil
}
