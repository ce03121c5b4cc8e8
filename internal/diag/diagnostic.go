package diag

import (
	"arithlex/internal/source"
)

// Severity orders diagnostics; the zero value is not a valid severity.
type Severity uint8

const (
	SevWarning Severity = iota + 1 // cache trouble, the run still succeeds
	SevError                       // lexical failure or unreadable source
)

var severityNames = [...]string{SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) && severityNames[s] != "" {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by the one-line format.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "unknown"
}

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevWarning, Code: code, Primary: primary, Message: msg}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithRemoval attaches the fix that deletes the primary span.
func (d Diagnostic) WithRemoval(title string) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: []FixEdit{{Span: d.Primary}}})
	return d
}
