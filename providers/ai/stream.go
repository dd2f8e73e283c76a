package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of payload carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent indicates a text content delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventDone signals that the provider reported a finish reason.
	// The stream itself completes when the iterator is exhausted.
	StreamEventDone StreamEventType = "done"
)

// StreamEvent represents a single delta yielded during response streaming.
// Events are transient: they are consumed by the caller's sinks and never
// persisted.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`       // Text delta (Type == StreamEventContent)
	FinishReason string          `json:"finish_reason,omitempty"` // Present on StreamEventDone
}

// ChatStream wraps a streaming iterator over decoded provider events.
//
// Important: callers must consume the stream, either by iterating with Iter()
// (including breaking out of the loop early) or by calling Collect(). The
// underlying provider holds open resources (the HTTP response body) that are
// only released when the iterator completes or is abandoned via a loop break.
// Constructing a ChatStream and never iterating it will leak those resources.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream creates a ChatStream from a raw streaming iterator.
// The iterator is expected to yield StreamEvent values (with nil error) for
// normal deltas, and may yield a non-nil error to signal a mid-stream failure.
// An error is terminal: no further events follow it.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Content)
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Collect consumes the entire stream and returns the accumulated text.
// This is a convenience for callers who want the complete response but still
// benefit from streaming transport (lower time-to-first-byte). A mid-stream
// error terminates collection and returns the partial text with the error;
// the partial text is truncated, not invalid.
func (stream *ChatStream) Collect() (string, error) {
	var builder strings.Builder

	for event, err := range stream.iterator {
		if err != nil {
			return builder.String(), err
		}
		if event.Type == StreamEventContent {
			builder.WriteString(event.Content)
		}
	}

	return builder.String(), nil
}
