package lexer

import (
	"strings"

	"arithlex/internal/token"
)

// scanNumber reads [0-9]+ optionally followed by one '.' and more digits.
// A second '.' ends the literal and is left for the main loop.
// "3." is a FloatLit; validating it is the parser's job.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Snapshot()
	var lit strings.Builder
	dots := 0

	for lx.hasCh {
		ch := lx.ch
		if ch == '.' {
			if dots == 1 {
				break
			}
			dots++
		} else if !isDigit(ch) {
			break
		}
		lit.WriteRune(ch)
		lx.advance()
	}

	kind := token.IntLit
	if dots > 0 {
		kind = token.FloatLit
	}
	return token.Token{
		Kind: kind,
		Span: spanFrom(start, lx.cursor.Snapshot()),
		Text: lit.String(),
	}
}
