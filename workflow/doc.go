// Package workflow runs a support ticket through a fixed decision graph.
//
// The graph classifies the ticket's intent, short-circuits explicit requests
// for a human, generates a candidate solution through the completion service,
// and gates automated resolution on the classification confidence:
//
//	intent ─┬─ immediate_escalate ─ END
//	        ├─ off_topic ────────── END
//	        └─ solution ─┬─ escalate ─ END
//	                     └─ finalize ─ END
//
// Topology is fixed at construction and validated once; a built [Graph] is
// immutable and safe for concurrent runs because all mutable data lives in
// the per-run [State].
//
// Nodes never fail a run. Completion-service errors degrade to safe states
// (unknown intent, fallback solution, forced human review) and surface
// through [State.Status] and [State.ErrorMessage] instead of returned errors.
//
// For streaming consumers, [Bridge] carries solution deltas from a background
// run to a foreground reader as ordered events with an explicit end-of-stream
// protocol.
package workflow
