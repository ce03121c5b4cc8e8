package token

import (
	"fmt"

	"arithlex/internal/source"
)

// Token represents a single lexeme with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string // literal payload; empty unless IsLiteral
}

// HasLiteral reports whether the token carries a literal payload.
func (t Token) HasLiteral() bool {
	return t.IsLiteral() && t.Text != ""
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is an operator or parenthesis.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, LParen, RParen:
		return true
	default:
		return false
	}
}

// String renders the token the way debug listings show it: Kind or Kind("text").
func (t Token) String() string {
	if t.HasLiteral() {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}
