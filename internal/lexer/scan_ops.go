package lexer

import (
	"arithlex/internal/token"
)

// scanPunct emits a single-character operator or parenthesis.
// It consumes nothing and returns false for any other character.
func (lx *Lexer) scanPunct() (token.Token, bool) {
	kind, ok := token.LookupPunct(lx.ch)
	if !ok {
		return token.Token{}, false
	}
	start := lx.cursor.Snapshot()
	lx.advance()
	return token.Token{Kind: kind, Span: spanFrom(start, lx.cursor.Snapshot())}, true
}
