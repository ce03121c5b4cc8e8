package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"arithlex/internal/token"
)

type TokenOutput struct {
	Kind string       `json:"kind" msgpack:"kind"`
	Text string       `json:"text,omitempty" msgpack:"text,omitempty"`
	Span LocationJSON `json:"span" msgpack:"span"`
}

// TokenOutputs converts tokens to their serializable form, stopping after EOF.
func TokenOutputs(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: makeLocation(tok.Span),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensPretty prints one token per line with its 1-based span.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		start, end := tok.Span.Start, tok.Span.End

		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			if _, err := fmt.Fprintf(w, " %q", tok.Text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			start.Line+1, start.Col+1,
			end.Line+1, end.Col+1); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensList prints the compact one-line listing, e.g.
// Tokens: [FloatLit("3.14"), Plus, IntLit("2")]
func FormatTokensList(w io.Writer, tokens []token.Token) error {
	if _, err := io.WriteString(w, "Tokens: ["); err != nil {
		return err
	}
	for i, tok := range tokens {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, tok.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(TokenOutputs(tokens))
}

// FormatTokensMsgpack writes the tokens as a msgpack array of maps.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(TokenOutputs(tokens))
}

// DecodeTokensMsgpack reads back what FormatTokensMsgpack wrote.
func DecodeTokensMsgpack(r io.Reader) ([]TokenOutput, error) {
	var out []TokenOutput
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	return out, nil
}
