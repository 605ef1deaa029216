package workflow

import (
	"context"
	"fmt"

	"github.com/deskgraph/deskgraph/core/completion"
)

// Completer is what the graph needs from the completion layer.
// *completion.Client satisfies it; tests substitute fakes.
type Completer interface {
	Call(ctx context.Context, prompt string) (string, error)
	CallStreaming(ctx context.Context, prompt string, sink completion.ChunkSink) (string, error)
}

// NodeID identifies a node of the graph. The set is closed: every node, its
// handler, and its outgoing edge are declared in the tables below and
// validated when the graph is built.
type NodeID int

const (
	NodeIntent NodeID = iota
	NodeSolution
	NodeEscalate
	NodeImmediateEscalate
	NodeOffTopic
	NodeFinalize
	nodeCount // sentinel, keep last
)

func (id NodeID) String() string {
	switch id {
	case NodeIntent:
		return "intent"
	case NodeSolution:
		return "solution"
	case NodeEscalate:
		return "escalate"
	case NodeImmediateEscalate:
		return "immediate_escalate"
	case NodeOffTopic:
		return "off_topic"
	case NodeFinalize:
		return "finalize"
	default:
		return fmt.Sprintf("node(%d)", int(id))
	}
}

// handler runs one node against the current state and returns a partial
// update. Terminal handlers ignore the sink.
type handler func(ctx context.Context, state *State, sink completion.ChunkSink) Update

// conditionalEdge routes to one of several successors based on the state.
type conditionalEdge struct {
	route   func(*State) RouteLabel
	targets map[RouteLabel]NodeID
}

// Graph is the compiled workflow. Built once, immutable afterwards, safe for
// concurrent runs.
type Graph struct {
	llm         Completer
	entry       NodeID
	handlers    [nodeCount]handler
	conditional map[NodeID]conditionalEdge
	terminal    map[NodeID]bool
}

// New builds the support workflow over the given completion layer and
// validates the node and edge tables: every node has a handler, every
// non-terminal node has an outgoing edge, every edge target exists, and
// every node is reachable from the entry.
func New(llm Completer) (*Graph, error) {
	g := &Graph{
		llm:   llm,
		entry: NodeIntent,
		conditional: map[NodeID]conditionalEdge{
			NodeIntent: {
				route: routeAfterIntent,
				targets: map[RouteLabel]NodeID{
					RouteEscalate: NodeImmediateEscalate,
					RouteOffTopic: NodeOffTopic,
					RouteContinue: NodeSolution,
				},
			},
			NodeSolution: {
				route: routeAfterSolution,
				targets: map[RouteLabel]NodeID{
					RouteEscalate: NodeEscalate,
					RouteFinish:   NodeFinalize,
				},
			},
		},
		terminal: map[NodeID]bool{
			NodeEscalate:          true,
			NodeImmediateEscalate: true,
			NodeOffTopic:          true,
			NodeFinalize:          true,
		},
	}

	g.handlers = [nodeCount]handler{
		NodeIntent: func(ctx context.Context, state *State, _ completion.ChunkSink) Update {
			return g.classifyIntent(ctx, state)
		},
		NodeSolution: func(ctx context.Context, state *State, sink completion.ChunkSink) Update {
			return g.generateSolution(ctx, state, sink)
		},
		NodeEscalate: func(_ context.Context, state *State, _ completion.ChunkSink) Update {
			return escalateNode(state)
		},
		NodeImmediateEscalate: func(_ context.Context, state *State, _ completion.ChunkSink) Update {
			return immediateEscalateNode(state)
		},
		NodeOffTopic: func(_ context.Context, state *State, _ completion.ChunkSink) Update {
			return offTopicNode(state)
		},
		NodeFinalize: func(_ context.Context, state *State, _ completion.ChunkSink) Update {
			return finalizeNode(state)
		},
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return g, nil
}

// validate checks the tables are complete and consistent.
func (g *Graph) validate() error {
	for id := NodeID(0); id < nodeCount; id++ {
		if g.handlers[id] == nil {
			return fmt.Errorf("node %s has no handler", id)
		}
		_, hasEdge := g.conditional[id]
		if g.terminal[id] && hasEdge {
			return fmt.Errorf("terminal node %s has an outgoing edge", id)
		}
		if !g.terminal[id] && !hasEdge {
			return fmt.Errorf("non-terminal node %s has no outgoing edge", id)
		}
	}

	for id, edge := range g.conditional {
		if edge.route == nil {
			return fmt.Errorf("node %s has a conditional edge without a routing function", id)
		}
		if len(edge.targets) == 0 {
			return fmt.Errorf("node %s has a conditional edge without targets", id)
		}
		for label, target := range edge.targets {
			if target < 0 || target >= nodeCount {
				return fmt.Errorf("node %s routes %q to unknown node %d", id, label, int(target))
			}
		}
	}

	if g.entry < 0 || g.entry >= nodeCount {
		return fmt.Errorf("entry is not a known node")
	}

	// Every node must be reachable from the entry.
	reachable := map[NodeID]bool{}
	var visit func(NodeID)
	visit = func(id NodeID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, target := range g.conditional[id].targets {
			visit(target)
		}
	}
	visit(g.entry)
	for id := NodeID(0); id < nodeCount; id++ {
		if !reachable[id] {
			return fmt.Errorf("node %s is unreachable from entry %s", id, g.entry)
		}
	}

	return nil
}

// maxSteps bounds a run. The graph is validated acyclic in practice (every
// path reaches a terminal in three steps), so hitting the bound means a
// routing bug rather than a long ticket.
const maxSteps = 2 * int(nodeCount)

// RunOption adjusts a single run.
type RunOption func(*runOptions)

type runOptions struct {
	sink completion.ChunkSink
}

// WithStreamSink makes the solution node stream prose deltas to sink as the
// completion service emits them. The accumulated text still lands in
// State.ProposedSolution.
func WithStreamSink(sink completion.ChunkSink) RunOption {
	return func(o *runOptions) {
		o.sink = sink
	}
}

// Run executes the graph from the entry node until a terminal node and
// returns the same state, now carrying the terminal snapshot. The state must
// be freshly created for this run.
//
// Nodes degrade internally, so the only run-level errors are structural:
// a routing function returning an unmapped label, or the step bound tripping.
func (g *Graph) Run(ctx context.Context, state *State, opts ...RunOption) (*State, error) {
	options := runOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	current := g.entry
	for step := 0; ; step++ {
		if step >= maxSteps {
			return state, fmt.Errorf("run exceeded %d steps at node %s", maxSteps, current)
		}

		update := g.handlers[current](ctx, state, options.sink)
		state.apply(update)

		if g.terminal[current] {
			return state, nil
		}

		edge := g.conditional[current]
		label := edge.route(state)
		next, ok := edge.targets[label]
		if !ok {
			return state, fmt.Errorf("node %s routed to unmapped label %q", current, label)
		}
		current = next
	}
}
