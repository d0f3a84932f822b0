// Package schema defines the documents the generators produce: [Component],
// a single UI element descriptor, and [PageSchema], a full page with its
// metadata, canvas settings, theme and data sources.
//
// The types marshal to the JSON shape the editor consumes. Free-form parts
// (component properties, data mapping, theme) are kept as decoded JSON
// values. [ComponentJSONSchema] and [PageJSONSchema] describe the same shapes
// for prompts and for full-document checks.
package schema
