package parse

import (
	"fmt"
	"time"

	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/providers/ai"
)

// ParsePage parses text and normalizes the result with [NormalizePage],
// stamping missing timestamps with the current time.
func ParsePage(text string) (schema.PageSchema, error) {
	raw, err := ParseJSON[map[string]any](text)
	if err != nil {
		return schema.PageSchema{}, err
	}

	page, err := NormalizePage(raw, time.Now())
	if err != nil {
		return schema.PageSchema{}, ai.NewParseError(err.Error(), text, nil)
	}
	return page, nil
}

// NormalizePage repairs the shape of a decoded page. Missing or wrongly-typed
// fields receive their defaults (version "1.0.0", metadata with now as
// timestamps, the default canvas, empty theme and data sources); each
// component goes through [NormalizeComponent].
func NormalizePage(raw map[string]any, now time.Time) (schema.PageSchema, error) {
	page := schema.NewPage("", now)

	page.Version = nonEmptyString(raw["version"], schema.DefaultVersion)

	if metadata, ok := raw["metadata"].(map[string]any); ok {
		page.Metadata = normalizeMetadata(metadata, page.Metadata)
	}

	if components, ok := raw["components"].([]any); ok {
		for index, entry := range components {
			component, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			normalized, err := normalizeComponent(component, fmt.Sprintf(" components[%d]", index))
			if err != nil {
				return schema.PageSchema{}, err
			}
			page.Components = append(page.Components, normalized)
		}
	}

	if canvas, ok := raw["canvas"].(map[string]any); ok {
		page.Canvas = normalizeCanvas(canvas)
	}

	if theme, ok := raw["theme"].(map[string]any); ok {
		page.Theme = theme
	}

	if dataSources, ok := raw["dataSources"].([]any); ok {
		page.DataSources = dataSources
	}

	return page, nil
}

func normalizeMetadata(raw map[string]any, defaults schema.PageMetadata) schema.PageMetadata {
	metadata := schema.PageMetadata{
		Name:      nonEmptyString(raw["name"], defaults.Name),
		CreatedAt: nonEmptyString(raw["createdAt"], defaults.CreatedAt),
		UpdatedAt: nonEmptyString(raw["updatedAt"], defaults.UpdatedAt),
		Version:   nonEmptyString(raw["version"], defaults.Version),
	}
	if description, ok := raw["description"].(string); ok {
		metadata.Description = description
	}
	return metadata
}

func normalizeCanvas(raw map[string]any) schema.Canvas {
	canvas := schema.DefaultCanvas()

	if showGrid, ok := raw["showGrid"].(bool); ok {
		canvas.ShowGrid = showGrid
	}
	if snapToGrid, ok := raw["snapToGrid"].(bool); ok {
		canvas.SnapToGrid = snapToGrid
	}
	if viewportWidth, ok := raw["viewportWidth"].(float64); ok && viewportWidth > 0 {
		canvas.ViewportWidth = viewportWidth
	}
	canvas.ActiveDevice = nonEmptyString(raw["activeDevice"], canvas.ActiveDevice)

	return canvas
}
