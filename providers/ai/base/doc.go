// Package base holds the behaviour every provider client shares, provided by
// composition: each vendor package keeps a *[Client] and calls it from its
// own Generate and Stream methods.
//
// The Client runs every HTTP attempt through [WithRetry] (exponential
// backoff over retryable statuses and transport failures) and
// [Client.FetchWithTimeout] (a per-request timer bounding the wait for
// response headers, reported as status 408). Non-2xx bodies are decoded with
// a vendor [ErrorDecoder] chained before [DecodeGenericError].
//
// JSON mode lives here too: [AugmentJSONMode] adds the JSON-only system
// instruction and [ExtractJSON] recovers the document from fenced or chatty
// answers. [Client.LineStream] adapts SSE and NDJSON bodies to [ai.TextStream].
package base
