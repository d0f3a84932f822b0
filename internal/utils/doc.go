// Package utils provides shared low-level helpers used by the provider
// clients: JSON POST request construction with [HeaderOption] headers, bounded
// body reads, deferred body cleanup ([CloseWithLog]), the [LineScanner] and
// [SSEPayload] pair used to consume SSE and NDJSON streams, [SplitJSONObjects]
// for incrementally delivered JSON arrays, and string helpers for prompts and
// logs.
package utils
