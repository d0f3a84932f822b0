package schema

import "github.com/leofalp/uigen/internal/jsonschema"

func positionSchema() *jsonschema.Schema {
	return jsonschema.Object(map[string]*jsonschema.Schema{
		"x": jsonschema.Number("horizontal offset in pixels"),
		"y": jsonschema.Number("vertical offset in pixels"),
	}, "x", "y")
}

// componentProperties returns the component property schemas. Children are
// described one level deep with childItems.
func componentProperties(childItems *jsonschema.Schema) map[string]*jsonschema.Schema {
	parentID := jsonschema.String("id of the parent component, null for top-level components")
	parentID.Nullable = true

	return map[string]*jsonschema.Schema{
		"id":          jsonschema.String("unique component id"),
		"type":        jsonschema.String("component type, e.g. button, input, card"),
		"name":        jsonschema.String("human-readable component name"),
		"position":    positionSchema(),
		"properties":  jsonschema.Object(nil),
		"children":    jsonschema.Array(childItems, "nested components"),
		"parentId":    parentID,
		"dataSource":  jsonschema.Any("optional data source reference"),
		"dataMapping": jsonschema.Object(nil),
	}
}

// ComponentJSONSchema describes a generated component. It is sent to the
// model as a hint, so only type and name are required.
func ComponentJSONSchema() *jsonschema.Schema {
	child := jsonschema.Object(componentProperties(jsonschema.Object(nil)), "type")
	return jsonschema.Object(componentProperties(child), "type", "name")
}

// normalizedComponentSchema is the stricter shape of a normalized component.
func normalizedComponentSchema() *jsonschema.Schema {
	child := jsonschema.Object(componentProperties(jsonschema.Object(nil)), "id", "type", "name")
	return jsonschema.Object(componentProperties(child), "id", "type", "name")
}

func canvasSchema() *jsonschema.Schema {
	return jsonschema.Object(map[string]*jsonschema.Schema{
		"showGrid":      jsonschema.Boolean(""),
		"snapToGrid":    jsonschema.Boolean(""),
		"viewportWidth": jsonschema.Number("canvas width in pixels"),
		"activeDevice":  jsonschema.String("desktop, tablet or mobile"),
	}, "showGrid", "snapToGrid", "viewportWidth", "activeDevice")
}

func metadataSchema() *jsonschema.Schema {
	return jsonschema.Object(map[string]*jsonschema.Schema{
		"name":        jsonschema.String("page name"),
		"description": jsonschema.String("page description"),
		"createdAt":   jsonschema.String("ISO-8601 timestamp"),
		"updatedAt":   jsonschema.String("ISO-8601 timestamp"),
		"version":     jsonschema.String(""),
	}, "name", "createdAt", "updatedAt", "version")
}

// PageJSONSchema describes a generated page for the prompt.
func PageJSONSchema() *jsonschema.Schema {
	return jsonschema.Object(map[string]*jsonschema.Schema{
		"version":     jsonschema.String("schema version"),
		"metadata":    jsonschema.Object(metadataSchema().Properties, "name"),
		"components":  jsonschema.Array(ComponentJSONSchema(), "top-level components"),
		"canvas":      canvasSchema(),
		"theme":       jsonschema.Object(nil),
		"dataSources": jsonschema.Array(nil, ""),
	}, "components")
}

// NormalizedPageJSONSchema is the full shape a normalized page must satisfy;
// every top-level field is required.
func NormalizedPageJSONSchema() *jsonschema.Schema {
	return jsonschema.Object(map[string]*jsonschema.Schema{
		"version":     jsonschema.String("schema version"),
		"metadata":    metadataSchema(),
		"components":  jsonschema.Array(normalizedComponentSchema(), ""),
		"canvas":      canvasSchema(),
		"theme":       jsonschema.Object(nil),
		"dataSources": jsonschema.Array(nil, ""),
	}, "version", "metadata", "components", "canvas", "theme", "dataSources")
}
