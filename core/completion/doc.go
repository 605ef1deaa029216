// Package completion is the client layer for OpenAI-compatible
// chat-completion services (OpenRouter by default).
//
// [Client] exposes three call shapes:
//
//   - [Client.Call]: blocking text-in, text-out with retry and backoff
//   - [CallStructured]: schema-constrained call returning a typed value
//   - [Client.CallStreaming]: SSE streaming, pushing deltas to a [ChunkSink]
//
// Failures carry a [Kind] so callers can distinguish rate limiting,
// authentication problems, service unavailability, malformed output, and
// streaming faults without string matching. Authentication failures are never
// retried; everything else is, up to the configured attempt budget.
package completion
