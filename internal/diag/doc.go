// Package diag defines the error and diagnostic model of the lexer pipeline.
//
// # Lexical errors
//
// LexError is the value the lexer returns when it gives up: a start/end span of
// position snapshots, a Code and a message. It implements error, and its Error
// text is the canonical rendering
//
//	{category}: {message}
//	File {source name}, line {1-based line}
//
// # Diagnostics
//
// Diagnostic is the richer record used when a caller collects several
// findings in one run (see lexer.Collect). It contains:
//
//   - Severity – Warning or Error.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Producers emit through a Reporter; BagReporter aggregates into a Bag that
// supports a capacity limit with a count of what it dropped, sorting and
// deduplication.
//
// Package diag does not perform IO or colored rendering. That lives in
// internal/diagfmt.
package diag
