// Package ai defines the provider-agnostic vocabulary shared by every LLM
// client in uigen: conversation [Message] values, the [ClientConfig] each
// client is built from, the [Client] capability interface, the [TextStream]
// returned by streaming calls and the error taxonomy ([ClientError],
// [ParseError], [ValidationError]) rooted at [ErrGenerator].
//
// Vendor packages under providers/ai translate this vocabulary to their own
// wire format; package base supplies the retry, timeout and JSON extraction
// logic they compose.
package ai
