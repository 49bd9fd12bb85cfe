// Package trace records what the test driver is doing as a stream of span
// and point events.
//
// Enable tracing via command-line flags:
//
//	peonytest --trace=- --trace-level=detail tests/sema/bad_type.p
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures (FAIL, TIMEOUT, UNRESOLVED points)
//   - LevelPhase: Driver and per-command spans
//   - LevelDetail: Adds the phases of each command (exec, normalize, compare)
//   - LevelDebug: Everything, including every parsed diagnostic
//
// # Scopes
//
//   - ScopeDriver: One test file invocation
//   - ScopeCommand: One RUN command
//   - ScopePhase: A step inside a command
//   - ScopeItem: Individual diagnostics
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCommand, "cmd#0", parentID)
//	defer span.End("")
package trace
