package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"arithlex/internal/diag"
	"arithlex/internal/lexer"
	"arithlex/internal/observ"
	"arithlex/internal/source"
	"arithlex/internal/token"
	"arithlex/internal/trace"
)

// TokenizeResult is the outcome of tokenizing one source.
type TokenizeResult struct {
	// Path names the source: the file path, or the name given to TokenizeSource.
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	// Err is the fail-fast error; it is nil in collect mode, where every
	// failure lands in Bag instead.
	Err    *diag.LexError
	Bag    *diag.Bag
	Timing *observ.Report
	Cached bool
}

// Failed reports whether the source contained an illegal character.
func (r *TokenizeResult) Failed() bool {
	if r == nil {
		return false
	}
	return r.Err != nil || (r.Bag != nil && r.Bag.HasErrors())
}

// Tokenize loads the file at path and tokenizes it.
// The returned error covers I/O only; lexical failures are reported in the result.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	tracer := trace.FromContext(ctx)
	timer := observ.NewTimer()

	fs := source.NewFileSet()
	loadSpan := trace.Begin(tracer, trace.ScopePass, "load", trace.CurrentSpan(ctx))
	idx := timer.Begin("load")
	fileID, err := fs.Load(path)
	timer.End(idx, "")
	loadSpan.End(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	file := fs.Get(fileID)
	res := tokenizeFile(ctx, file, opts, timer)
	res.FileSet = fs
	return res, nil
}

// TokenizeSource tokenizes in-memory text registered under name.
func TokenizeSource(ctx context.Context, name, text string, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(text)))
	res := tokenizeFile(ctx, file, opts, observ.NewTimer())
	res.FileSet = fs
	return res
}

func tokenizeFile(ctx context.Context, file *source.File, opts Options, timer *observ.Timer) *TokenizeResult {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	res := &TokenizeResult{
		Path: file.Path,
		File: file,
		Bag:  diag.NewBag(opts.maxDiagnostics()),
	}

	key := cacheKey(file, opts)
	if opts.Cache != nil {
		hit, err := opts.Cache.Load(key, file, res)
		switch {
		case err != nil:
			trace.Point(tracer, trace.ScopeFile, "cache", "error: "+err.Error(), parent)
			res.Bag.Add(diag.NewWarning(diag.IOCacheError, source.Span{},
				"token cache unreadable: "+err.Error()))
		case hit:
			trace.Point(tracer, trace.ScopeFile, "cache", "hit "+file.Path, parent)
			timer.Add("lex", 0, "cached")
			res.Cached = true
			res.Timing = reportOf(timer)
			return res
		}
	}

	span := trace.Begin(tracer, trace.ScopePass, "lex", parent)
	idx := timer.Begin("lex")
	if opts.Collect {
		res.Tokens = lexer.Collect(file.Path, file.Text(), opts.lexerOptions(), diag.BagReporter{Bag: res.Bag})
	} else {
		toks, err := lexer.NewFile(file, opts.lexerOptions()).Tokenize()
		var lexErr *diag.LexError
		if errors.As(err, &lexErr) {
			res.Err = lexErr
			res.Bag.Add(lexErr.Diagnostic())
			trace.Point(tracer, trace.ScopeFile, "illegal", lexErr.Message, span.ID())
		}
		res.Tokens = toks
	}
	note := strconv.Itoa(len(res.Tokens)) + " tokens"
	if res.Failed() {
		note = strconv.Itoa(res.Bag.Len()) + " errors"
	}
	timer.End(idx, note)
	span.WithExtra("file", file.Path).WithExtra("tokens", strconv.Itoa(len(res.Tokens))).End(note)

	if opts.Cache != nil {
		if err := opts.Cache.Store(key, res); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache", "store failed: "+err.Error(), parent)
		}
	}
	res.Timing = reportOf(timer)
	return res
}

func reportOf(timer *observ.Timer) *observ.Report {
	rep := timer.Report()
	return &rep
}
