package source

import (
	"fmt"
)

// Span is a half-open [Start, End) pair of position snapshots.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a span from two snapshots, swapping them if given out of order.
func NewSpan(start, end Position) Span {
	if end.Before(start) {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Empty reports a zero-width span, such as the EOF marker or a span
// without a source location.
func (s Span) Empty() bool {
	return s.Start.Offset == s.End.Offset
}

func (s Span) Len() uint32 {
	return s.End.Offset - s.Start.Offset
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d-%d", s.Start.Name, s.Start.Offset, s.End.Offset)
}

// Cover returns the smallest span enclosing both s and other.
// Spans over different sources are not merged.
func (s Span) Cover(other Span) Span {
	if s.Start.Name != other.Start.Name {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Slice returns the characters of the source text covered by the span.
func (s Span) Slice() string {
	n := uint32(len(s.Start.Text))
	lo, hi := min(s.Start.Byte, n), min(s.End.Byte, n)
	if lo >= hi {
		return ""
	}
	return s.Start.Text[lo:hi]
}
