package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; the lexer never emits it.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the multiply operator token.
	Star // *
	// Slash represents the divide operator token.
	Slash // /
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
)

var kindNames = [...]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	IntLit:   "IntLit",
	FloatLit: "FloatLit",
	Plus:     "Plus",
	Minus:    "Minus",
	Star:     "Star",
	Slash:    "Slash",
	LParen:   "LParen",
	RParen:   "RParen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

var kindSymbols = [...]string{
	Plus:   "+",
	Minus:  "-",
	Star:   "*",
	Slash:  "/",
	LParen: "(",
	RParen: ")",
}

// punct is kindSymbols inverted.
var punct = func() map[rune]Kind {
	m := make(map[rune]Kind, len(kindSymbols))
	for k, sym := range kindSymbols {
		if sym != "" {
			m[rune(sym[0])] = Kind(k)
		}
	}
	return m
}()

// LookupPunct returns the kind of a single-character operator or parenthesis.
func LookupPunct(ch rune) (Kind, bool) {
	k, ok := punct[ch]
	return k, ok
}

// Symbol returns the source spelling of an operator or parenthesis kind, or "".
func (k Kind) Symbol() string {
	if int(k) < len(kindSymbols) {
		return kindSymbols[k]
	}
	return ""
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return Invalid, false
}
