package source

import (
	"fmt"
	"unicode/utf8"
)

// Position is a cursor location inside a named source text.
// Offset counts characters, not bytes; Line and Col are 0-based.
// Byte is the same location as an index into Text.
type Position struct {
	Offset uint32
	Line   uint32
	Col    uint32
	Byte   uint32
	Name   string
	Text   string
}

// Start returns the position of the first character of text.
func Start(name, text string) Position {
	return Position{Name: name, Text: text}
}

// Advance moves the position past consumed.
// A line break bumps Line and resets Col; anything else bumps Col.
func (p *Position) Advance(consumed rune) {
	p.Offset++
	p.Col++
	p.Byte += uint32(max(utf8.RuneLen(consumed), 1))
	if consumed == '\n' {
		p.Line++
		p.Col = 0
	}
}

// Snapshot returns an independent copy that later calls to Advance will not touch.
func (p *Position) Snapshot() Position {
	return *p
}

// OneBasedLine is the line number as shown to humans.
func (p Position) OneBasedLine() uint32 {
	return p.Line + 1
}

// Before reports whether p lies strictly before other in the same text.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Line+1, p.Col+1)
}
