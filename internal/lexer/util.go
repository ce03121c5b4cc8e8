package lexer

import (
	"unicode"

	"arithlex/internal/source"
)

// ===== Классификаторы =====

// isDigit accepts ASCII decimal digits only; other Unicode digits are illegal.
func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isSpace(ch rune) bool { return unicode.IsSpace(ch) }

func spanFrom(start, end source.Position) source.Span {
	return source.Span{Start: start, End: end}
}
