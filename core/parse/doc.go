// Package parse turns raw model output into normalized documents. Models
// wrap JSON in prose or markdown fences and emit near-miss JSON, so
// [ParseJSON] applies a layered recovery: candidate extraction, two textual
// repairs (trailing commas, single quotes) and finally automatic repair with
// jsonrepair, before failing with a *ai.ParseError that keeps the raw text.
//
// [ParseComponent] and [ParsePage] then normalize the decoded document:
// missing identifiers, names, timestamps and canvas settings are filled in
// and wrongly-shaped optional fields are coerced or dropped. The component
// "type" is the one field that is never invented.
package parse
