// Package trace is the structured logging layer of arithlex.
//
// A run is traced as nested spans: the command (ScopeDriver), its passes
// (ScopePass: load, lex) and, in directory runs, one span per source
// (ScopeFile). Instant events such as "illegal" or "cache" hang off the
// span that produced them.
//
//	arithlex --trace=- --trace-level=file tokenize ./exprs
//
// New returns Nop when tracing is off and a Recorder otherwise. A Recorder
// streams the scopes its Level admits and keeps recent events of every
// scope, so at LevelError nothing is printed until DumpRecent is called
// for a failed run.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "lex")
//	defer span.End("")
package trace
