// Package jsonschema provides the small JSON Schema subset uigen embeds in
// prompts to steer model output, together with a structural checker.
//
// Schemas are assembled with the [Object], [String], [Number], [Boolean] and
// [Array] builders and rendered with [Schema.JSON]. [Check] validates a
// decoded JSON document against a schema and reports every violation with
// its path, which the page validator uses for its full-schema path.
package jsonschema
