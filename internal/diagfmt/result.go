package diagfmt

import (
	"encoding/json"
	"io"

	"arithlex/internal/diag"
	"arithlex/internal/token"
)

// LexErrorJSON is the fail-fast error of a tokenize run.
type LexErrorJSON struct {
	Category string       `json:"category"`
	Message  string       `json:"message"`
	Text     string       `json:"text"`
	Location LocationJSON `json:"location"`
}

// TokenizeOutput is the JSON document for one tokenized source.
type TokenizeOutput struct {
	File        string           `json:"file"`
	Tokens      []TokenOutput    `json:"tokens"`
	Error       *LexErrorJSON    `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Cached      bool             `json:"cached,omitempty"`
}

// BuildTokenizeOutput assembles the document for one source. lexErr may be nil.
func BuildTokenizeOutput(file string, tokens []token.Token, lexErr *diag.LexError, bag *diag.Bag, opts JSONOpts) TokenizeOutput {
	out := TokenizeOutput{
		File:        file,
		Tokens:      TokenOutputs(tokens),
		Diagnostics: BuildDiagnosticsOutput(bag, opts).Diagnostics,
	}
	if lexErr != nil {
		out.Error = &LexErrorJSON{
			Category: lexErr.Category(),
			Message:  lexErr.Message,
			Text:     lexErr.Error(),
			Location: makeLocation(lexErr.Span()),
		}
	}
	return out
}

// FormatTokenizeJSON writes a single document, or an array when there are several.
func FormatTokenizeJSON(w io.Writer, docs []TokenizeOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(docs) == 1 {
		return enc.Encode(docs[0])
	}
	if docs == nil {
		docs = []TokenizeOutput{}
	}
	return enc.Encode(docs)
}
