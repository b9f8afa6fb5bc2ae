package rewrite

import (
	"log/slog"

	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// TraceOutcome labels one step of a strategy attempt.
type TraceOutcome string

// Trace outcomes.
const (
	TraceBegin     TraceOutcome = "begin"
	TraceAttempt   TraceOutcome = "attempt"
	TraceSuccess   TraceOutcome = "success"
	TraceFailure   TraceOutcome = "failure"
	TraceExhausted TraceOutcome = "exhausted"
)

// TraceEvent describes one dispatcher step for one node.
type TraceEvent struct {
	NodeID   string
	Kind     tree.Kind
	Strategy string
	Outcome  TraceOutcome
}

// Tracer observes dispatcher steps. It is injected per Rewriter; there is
// no ambient global instrumentation.
type Tracer func(TraceEvent)

// SlogTracer returns a Tracer that logs every event to logger at debug
// level, keyed by node identity.
func SlogTracer(logger *slog.Logger) Tracer {
	return func(ev TraceEvent) {
		logger.Debug("rewrite",
			slog.String("node", ev.NodeID),
			slog.String("kind", string(ev.Kind)),
			slog.String("strategy", ev.Strategy),
			slog.String("outcome", string(ev.Outcome)),
		)
	}
}
