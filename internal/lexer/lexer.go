package lexer

import (
	"arithlex/internal/diag"
	"arithlex/internal/source"
	"arithlex/internal/token"
)

// Lexer scans one source text into tokens. A Lexer is single use:
// construct a fresh one for every run.
type Lexer struct {
	src    []rune
	cursor source.Position
	limit  uint32 // exclusive bound on cursor.Offset
	ch     rune   // character under the cursor, valid when hasCh
	hasCh  bool
	opts   Options
}

// New returns a lexer positioned on the first character of text.
// Undecodable bytes are read as U+FFFD, which is an illegal character.
func New(name, text string, opts Options) *Lexer {
	text = source.ValidText(text)
	src := []rune(text)
	return newAt(source.Start(name, text), src, runeLimit(src), opts)
}

// NewFile returns a lexer over a file of a FileSet, named by its path.
func NewFile(f *source.File, opts Options) *Lexer {
	return New(f.Path, f.Text(), opts)
}

// newAt starts scanning at start and stops before offset limit.
func newAt(start source.Position, src []rune, limit uint32, opts Options) *Lexer {
	lx := &Lexer{
		src:    src,
		cursor: start,
		limit:  limit,
		opts:   opts,
	}
	lx.load()
	return lx
}

// Tokenize consumes the whole input. It returns either every token or,
// at the first illegal character, a *diag.LexError and no tokens.
func (lx *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token

	for lx.hasCh {
		ch := lx.ch
		switch {
		case isSpace(ch):
			lx.advance()
		case isDigit(ch):
			tokens = append(tokens, lx.scanNumber())
		default:
			tok, ok := lx.scanPunct()
			if !ok {
				return nil, lx.illegal(ch)
			}
			tokens = append(tokens, tok)
		}
	}

	if lx.opts.EmitEOF {
		tokens = append(tokens, lx.eof())
	}
	if tokens == nil {
		tokens = []token.Token{}
	}
	return tokens, nil
}

// Tokenize runs a fresh lexer over text.
func Tokenize(name, text string, opts Options) ([]token.Token, error) {
	return New(name, text, opts).Tokenize()
}

// illegal consumes ch and builds the error spanning it.
func (lx *Lexer) illegal(ch rune) *diag.LexError {
	start := lx.cursor.Snapshot()
	lx.advance()
	return diag.NewIllegalCharacter(start, lx.cursor.Snapshot(), ch)
}

func (lx *Lexer) eof() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

func (lx *Lexer) emptySpan() source.Span {
	at := lx.cursor.Snapshot()
	return source.Span{Start: at, End: at}
}

// Pos returns a snapshot of the cursor.
func (lx *Lexer) Pos() source.Position {
	return lx.cursor.Snapshot()
}
