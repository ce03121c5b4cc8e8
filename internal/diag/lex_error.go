package diag

import (
	"fmt"

	"arithlex/internal/source"
)

// LexError describes why tokenization stopped. It is never mutated after construction.
type LexError struct {
	Start   source.Position
	End     source.Position
	Code    Code
	Message string
}

// NewIllegalCharacter builds the error for an unrecognised character ch spanning start..end.
func NewIllegalCharacter(start, end source.Position, ch rune) *LexError {
	return &LexError{
		Start:   start,
		End:     end,
		Code:    LexIllegalCharacter,
		Message: fmt.Sprintf("'%c'", ch),
	}
}

// Category is the error name, e.g. "IllegalCharacter".
func (e *LexError) Category() string {
	return e.Code.Category()
}

// Error renders "{category}: {message}\nFile {name}, line {line}" with a 1-based line.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s\nFile %s, line %d",
		e.Category(), e.Message, e.Start.Name, e.Start.OneBasedLine())
}

// Span returns the start..end span of the offending text.
func (e *LexError) Span() source.Span {
	return source.NewSpan(e.Start, e.End)
}

// Diagnostic converts the error into an error-severity Diagnostic.
func (e *LexError) Diagnostic() Diagnostic {
	return NewError(e.Code, e.Span(), fmt.Sprintf("%s %s", e.Code.Title(), e.Message))
}
