// Package validate asserts the structure of normalized components and pages.
//
// The parser repairs, the validators reject: [ComponentValidator] and
// [PageValidator] walk a document and return a *ai.ValidationError listing
// every violated rule instead of stopping at the first one. Typed values are
// converted through their JSON form first, so the checks see exactly what a
// consumer of the serialized document would see.
//
// [PageValidator.ValidateContext] can delegate to a [SchemaChecker] for a
// full JSON-Schema check with path-qualified diagnostics.
package validate
