package driver

import "arithlex/internal/lexer"

// Options controls a tokenize run.
type Options struct {
	// Collect keeps scanning after an illegal character and reports every
	// failure to the result's Bag instead of stopping at the first one.
	Collect bool
	// EmitEOF appends an EOF token to successful results.
	EmitEOF bool
	// MaxDiagnostics bounds the Bag of each result.
	MaxDiagnostics int
	// Jobs limits TokenizeDir parallelism; <= 0 uses GOMAXPROCS.
	Jobs int
	// Cache, when non-nil, is consulted before lexing and filled afterwards.
	Cache *TokenCache
	// Progress receives per-file events from TokenizeDir.
	Progress ProgressSink
}

func (o Options) lexerOptions() lexer.Options {
	return lexer.Options{EmitEOF: o.EmitEOF}
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}
