package workflow

// RouteLabel is the outcome of a routing function, mapped to a next node by
// the graph's edge tables.
type RouteLabel string

const (
	RouteEscalate RouteLabel = "escalate"
	RouteOffTopic RouteLabel = "off_topic"
	RouteContinue RouteLabel = "continue"
	RouteFinish   RouteLabel = "finish"
	RouteFailed   RouteLabel = "failed"
)

// Routing functions are pure: same state, same label, no side effects.

// routeAfterIntent picks the branch following classification. Explicit
// escalation wins, off-topic messages get dismissed, everything else goes to
// solution generation.
func routeAfterIntent(state *State) RouteLabel {
	if state.ExplicitEscalation || state.Intent == intentEscalateRequest {
		return RouteEscalate
	}
	if state.Intent == intentOffTopic {
		return RouteOffTopic
	}
	return RouteContinue
}

// routeAfterSolution picks the branch following solution generation.
func routeAfterSolution(state *State) RouteLabel {
	if state.NeedsHuman {
		return RouteEscalate
	}
	return RouteFinish
}

// routeOnFailure aborts a run whose state was marked failed. Not attached to
// the built graph; kept as an extension point for callers composing custom
// failure handling.
func routeOnFailure(state *State) RouteLabel {
	if state.Status == StatusFailed {
		return RouteFailed
	}
	return RouteContinue
}
