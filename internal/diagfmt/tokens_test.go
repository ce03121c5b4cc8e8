package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"arithlex/internal/lexer"
	"arithlex/internal/token"
)

func sample(t *testing.T) []token.Token {
	t.Helper()
	tokens, err := lexer.Tokenize("example", "3.14 + (2)", lexer.Options{EmitEOF: true})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	return tokens
}

func TestFormatTokensPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, sample(t)); err != nil {
		t.Fatal(err)
	}
	want := "  1: FloatLit   \"3.14\" at 1:1-1:5\n" +
		"  2: Plus       at 1:6-1:7\n" +
		"  3: LParen     at 1:8-1:9\n" +
		"  4: IntLit     \"2\" at 1:9-1:10\n" +
		"  5: RParen     at 1:10-1:11\n" +
		"  6: EOF        at 1:11-1:11\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTokensList(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensList(&buf, sample(t)[:3]); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "Tokens: [FloatLit(\"3.14\"), Plus, LParen]\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, sample(t)); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out) != 6 {
		t.Fatalf("expected 6 tokens, got %d", len(out))
	}
	if out[0].Kind != "FloatLit" || out[0].Text != "3.14" || out[0].Span.End.Offset != 4 {
		t.Errorf("first token = %+v", out[0])
	}
	if bytes.Contains(buf.Bytes(), []byte(`"text": ""`)) {
		t.Error("empty literal must be omitted")
	}
}

func TestTokensMsgpack(t *testing.T) {
	tokens := sample(t)
	var buf bytes.Buffer
	if err := FormatTokensMsgpack(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	out, err := DecodeTokensMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(tokens) {
		t.Fatalf("decoded %d tokens, want %d", len(out), len(tokens))
	}
	for i, tok := range tokens {
		if out[i].Kind != tok.Kind.String() || out[i].Text != tok.Text {
			t.Errorf("token %d = %+v, want %v", i, out[i], tok)
		}
	}
}
