package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"arithlex/internal/diag"
	"arithlex/internal/source"
)

type palette struct {
	err, warn, info, note, help, caret, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		help:   color.New(color.FgGreen, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.help, p.caret, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics in a human-readable form.
// It walks bag.Items() (call bag.Sort() first). For each diagnostic:
//
//	<name>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with ^~~~ under the span, then notes and fixes.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, p, opts); err != nil {
			return err
		}
	}
	return nil
}

// PrettyLexError renders a single lexical error: the canonical text, then
// the source context with a caret under the offending character.
func PrettyLexError(w io.Writer, e *diag.LexError, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	cat, rest, _ := strings.Cut(e.Error(), ":")
	if _, err := fmt.Fprintf(w, "%s:%s\n", p.err.Sprint(cat), rest); err != nil {
		return err
	}
	return writeContext(w, e.Span(), p, opts.Context)
}

func prettyOne(w io.Writer, d diag.Diagnostic, p palette, opts PrettyOpts) error {
	// An empty span names a source (or nothing) rather than a place in it.
	located := !d.Primary.Empty()
	loc := d.Primary.Start.String()
	if !located {
		loc = d.Primary.Start.Name
	}
	if loc != "" {
		loc += ": "
	}
	if _, err := fmt.Fprintf(w, "%s%s %s: %s\n",
		loc,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message); err != nil {
		return err
	}
	if located {
		if err := writeContext(w, d.Primary, p, opts.Context); err != nil {
			return err
		}
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), n.Span.Start.String(), n.Msg); err != nil {
				return err
			}
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			if _, err := fmt.Fprintf(w, "  %s %s\n", p.help.Sprint("help:"), f.Title); err != nil {
				return err
			}
			for _, e := range f.Edits {
				if _, err := fmt.Fprintf(w, "    %s -> %q\n", describeEdit(e), e.NewText); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func describeEdit(e diag.FixEdit) string {
	return fmt.Sprintf("%d:%d-%d:%d %q",
		e.Span.Start.Line+1, e.Span.Start.Col+1,
		e.Span.End.Line+1, e.Span.End.Col+1,
		e.Span.Slice())
}

// writeContext prints up to context lines above the span's line, the line itself
// and an underline. Columns are measured in display cells.
func writeContext(w io.Writer, sp source.Span, p palette, context int8) error {
	lines := strings.Split(sp.Start.Text, "\n")
	lineNo := int(sp.Start.Line)
	if lineNo >= len(lines) {
		return nil
	}
	first := max(lineNo-int(max(context, 0)), 0)
	gutterWidth := len(fmt.Sprint(lineNo + 1))

	for i := first; i <= lineNo; i++ {
		if _, err := fmt.Fprintf(w, " %s %s\n",
			p.gutter.Sprintf("%*d |", gutterWidth, i+1),
			expandTabs(lines[i])); err != nil {
			return err
		}
	}

	line := []rune(lines[lineNo])
	col := min(int(sp.Start.Col), len(line))
	prefix := runewidth.StringWidth(expandTabs(string(line[:col])))

	width := 1
	if sp.End.Line == sp.Start.Line && sp.End.Col > sp.Start.Col {
		endCol := min(int(sp.End.Col), len(line))
		width = max(runewidth.StringWidth(expandTabs(string(line[col:endCol]))), 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	_, err := fmt.Fprintf(w, " %s %s%s\n",
		p.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", prefix),
		p.caret.Sprint(marker))
	return err
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
