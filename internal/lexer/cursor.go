package lexer

import (
	"fmt"

	"fortio.org/safecast"
)

func runeLimit(src []rune) uint32 {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return limit
}

// load refreshes ch from the cursor offset.
func (lx *Lexer) load() {
	if lx.cursor.Offset < lx.limit {
		lx.ch = lx.src[lx.cursor.Offset]
		lx.hasCh = true
		return
	}
	lx.ch = 0
	lx.hasCh = false
}

// advance moves the cursor past the current character.
func (lx *Lexer) advance() {
	if !lx.hasCh {
		return
	}
	lx.cursor.Advance(lx.ch)
	lx.load()
}

// EOF reports whether the cursor is past the last character.
func (lx *Lexer) EOF() bool {
	return !lx.hasCh
}

// Peek returns the character under the cursor, or 0 at EOF.
func (lx *Lexer) Peek() rune {
	return lx.ch
}
