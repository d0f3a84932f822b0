package ai

import (
	"iter"
	"strings"
)

// TextStream wraps the sequence of text deltas produced by a streaming
// completion.
//
// Callers must consume the stream, either by ranging over Iter() (breaking
// out early is fine) or by calling Collect(). The provider holds the HTTP
// response body open until the iterator returns; a stream that is never
// iterated leaks it.
type TextStream struct {
	iterator iter.Seq2[string, error]
}

// NewTextStream creates a TextStream from a raw iterator. The iterator yields
// deltas with a nil error and may yield a single non-nil error to report a
// failure that ended the stream.
func NewTextStream(iterator iter.Seq2[string, error]) *TextStream {
	return &TextStream{iterator: iterator}
}

// Iter returns the underlying iterator for range-over-func loops.
//
//	for delta, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(delta)
//	}
func (stream *TextStream) Iter() iter.Seq2[string, error] {
	return stream.iterator
}

// Collect consumes the stream and returns the concatenated text. On a
// mid-stream error the text received so far is returned with the error.
func (stream *TextStream) Collect() (string, error) {
	var builder strings.Builder
	for delta, err := range stream.iterator {
		if err != nil {
			return builder.String(), err
		}
		builder.WriteString(delta)
	}
	return builder.String(), nil
}
