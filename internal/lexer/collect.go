package lexer

import (
	"errors"

	"arithlex/internal/diag"
	"arithlex/internal/source"
	"arithlex/internal/token"
)

// Collect tokenizes text without stopping at the first illegal character.
// Every failure is reported to r and scanning restarts just past it; the
// result holds the tokens of all clean stretches in source order.
func Collect(name, text string, opts Options, r diag.Reporter) []token.Token {
	if r == nil {
		r = diag.Discard
	}
	text = source.ValidText(text)
	src := []rune(text)
	limit := runeLimit(src)
	inner := opts
	inner.EmitEOF = false

	var out []token.Token
	pos := source.Start(name, text)
	var last *Lexer
	for {
		last = newAt(pos, src, limit, inner)
		toks, err := last.Tokenize()
		if err == nil {
			out = append(out, toks...)
			break
		}
		var lexErr *diag.LexError
		if !errors.As(err, &lexErr) {
			break
		}
		// The stretch before the failure is clean by construction.
		prefix, _ := newAt(pos, src, lexErr.Start.Offset, inner).Tokenize()
		out = append(out, prefix...)
		reportLexError(r, lexErr, src, out)
		pos = lexErr.End
	}

	if opts.EmitEOF {
		out = append(out, last.eof())
	}
	if out == nil {
		out = []token.Token{}
	}
	return out
}

// reportLexError adds the removal fix, and a note on the number when the
// illegal character is a second decimal point glued to it.
func reportLexError(r diag.Reporter, e *diag.LexError, src []rune, before []token.Token) {
	d := e.Diagnostic().WithRemoval("remove the character")
	if src[e.Start.Offset] == '.' && len(before) > 0 {
		prev := before[len(before)-1]
		if prev.Kind == token.FloatLit && prev.Span.End.Offset == e.Start.Offset {
			d = d.WithNote(prev.Span, "a number has at most one decimal point")
		}
	}
	r.Report(d)
}
