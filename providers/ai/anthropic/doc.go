// Package anthropic implements [ai.Client] for Anthropic's Messages API.
//
// System messages are merged, in order, into the top-level "system" field;
// only user and assistant turns are sent as messages. Authentication uses
// the x-api-key header together with a pinned anthropic-version.
//
// Streaming consumes the typed SSE events of the Messages API and yields the
// text of every content_block_delta. Keep-alive pings and bookkeeping events
// are skipped; an "error" event ends the stream with a *ai.ClientError.
package anthropic
