package workflow

import (
	"context"
	"sync"
)

// EventType tags an event on the streaming bridge.
type EventType string

const (
	// EventChunk carries one solution text fragment.
	EventChunk EventType = "chunk"
	// EventFinalResult carries the terminal state of the run.
	EventFinalResult EventType = "final_result"
	// EventError reports that the run failed before producing a result.
	EventError EventType = "error"
)

// Event is one entry in the ordered stream a Bridge delivers: zero or more
// chunks, then exactly one final_result or error, then channel close as the
// end-of-stream sentinel.
type Event struct {
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`
	Data    *State    `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// defaultBridgeBuffer is the event channel capacity when none is given.
const defaultBridgeBuffer = 64

// Bridge is the bounded hand-off channel between a background graph run
// (producer) and a foreground consumer. It is single-producer,
// single-consumer, scoped to one run, and not reused.
//
// The producer pushes chunks during the run, then calls exactly one of
// [Bridge.FinishResult] or [Bridge.FinishError], which enqueues the final
// event and closes the channel. The consumer ranges over [Bridge.Events]
// until it closes.
//
// There is no cancellation: with a bounded channel, a consumer that stops
// draining eventually blocks the producer. Consumers must drain to the end.
type Bridge struct {
	events chan Event
	finish sync.Once
}

// NewBridge creates a bridge with the given buffer capacity; zero or
// negative means the default.
func NewBridge(buffer int) *Bridge {
	if buffer <= 0 {
		buffer = defaultBridgeBuffer
	}
	return &Bridge{
		events: make(chan Event, buffer),
	}
}

// Push enqueues one chunk, blocking while the buffer is full. It implements
// completion.ChunkSink, so a Bridge can be passed directly to
// [WithStreamSink]. Push must not be called after FinishResult or
// FinishError.
func (b *Bridge) Push(ctx context.Context, chunk string) error {
	select {
	case b.events <- Event{Type: EventChunk, Content: chunk}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FinishResult enqueues the final result strictly after all pushed chunks
// and closes the stream. Only the first Finish call takes effect.
func (b *Bridge) FinishResult(state *State) {
	b.finish.Do(func() {
		b.events <- Event{Type: EventFinalResult, Data: state}
		close(b.events)
	})
}

// FinishError enqueues a terminal error event and closes the stream. Only
// the first Finish call takes effect.
func (b *Bridge) FinishError(err error) {
	b.finish.Do(func() {
		b.events <- Event{Type: EventError, Error: err.Error()}
		close(b.events)
	})
}

// Events returns the consumer side of the bridge. The channel closes after
// the final event; that close is the end-of-stream sentinel.
func (b *Bridge) Events() <-chan Event {
	return b.events
}
