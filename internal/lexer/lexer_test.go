package lexer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"arithlex/internal/diag"
	"arithlex/internal/lexer"
	"arithlex/internal/source"
	"arithlex/internal/token"
)

func lex(t *testing.T, input string) []token.Token {
	t.Helper()
	tokens, err := lexer.Tokenize("test.expr", input, lexer.Options{})
	require.NoError(t, err, "input %q", input)
	return tokens
}

func lexErr(t *testing.T, input string) *diag.LexError {
	t.Helper()
	tokens, err := lexer.Tokenize("test.expr", input, lexer.Options{})
	require.Error(t, err, "input %q", input)
	require.Nil(t, tokens, "tokens must be discarded on error")
	var le *diag.LexError
	require.True(t, errors.As(err, &le), "error must be *diag.LexError, got %T", err)
	return le
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func requireTok(t *testing.T, actual token.Token, kind token.Kind, text string, line, col uint32) {
	t.Helper()
	require.Equal(t, kind, actual.Kind, "token kind")
	require.Equal(t, text, actual.Text, "token text")
	require.Equal(t, line, actual.Span.Start.Line, "token line")
	require.Equal(t, col, actual.Span.Start.Col, "token col")
}

func TestWhitespaceOnly(t *testing.T) {
	for _, input := range []string{"", " ", "\t\t", "\n\n ", " \r\n\v\f", "  "} {
		tokens := lex(t, input)
		require.Empty(t, tokens, "input %q", input)
		require.NotNil(t, tokens, "success must return a non-nil slice")
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"42", token.IntLit},
		{"0042", token.IntLit},
		{"1234567890", token.IntLit},
		{"3.14", token.FloatLit},
		{"0.5", token.FloatLit},
		{"10.0", token.FloatLit},
		{"3.", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lex(t, tt.input)
			require.Len(t, tokens, 1)
			requireTok(t, tokens[0], tt.kind, tt.input, 0, 0)
			require.Equal(t, uint32(len(tt.input)), tokens[0].Span.End.Offset)
		})
	}
}

func TestFloatHasExactlyOneDot(t *testing.T) {
	for _, tok := range lex(t, "1 2.5 33 4.75") {
		dots := strings.Count(tok.Text, ".")
		switch tok.Kind {
		case token.FloatLit:
			require.Equal(t, 1, dots, tok.Text)
		case token.IntLit:
			require.Equal(t, 0, dots, tok.Text)
		}
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"+", token.Plus},
		{"-", token.Minus},
		{"*", token.Star},
		{"/", token.Slash},
		{"(", token.LParen},
		{")", token.RParen},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lex(t, tt.input)
			require.Len(t, tokens, 1)
			requireTok(t, tokens[0], tt.kind, "", 0, 0)
			require.False(t, tokens[0].HasLiteral())
			require.Equal(t, uint32(1), tokens[0].Span.Len())
		})
	}
}

func TestIllegalCharacter(t *testing.T) {
	for _, input := range []string{"@", "1 + x", "2 % 3", "#", "(1]", "λ", "٣"} {
		t.Run(input, func(t *testing.T) {
			le := lexErr(t, input)
			require.Equal(t, diag.LexIllegalCharacter, le.Code)
			require.Equal(t, "IllegalCharacter", le.Category())
			bad := le.Span().Slice()
			require.Len(t, []rune(bad), 1)
			require.Contains(t, le.Message, bad)
			require.Equal(t, le.Start.Offset+1, le.End.Offset)
		})
	}
}

func TestInvalidUTF8IsOneIllegalCharacter(t *testing.T) {
	le := lexErr(t, "4 \xff\xfe")
	require.Equal(t, uint32(2), le.Start.Offset)
	require.Equal(t, uint32(3), le.End.Offset)
	require.Equal(t, "\uFFFD", le.Span().Slice())
}

func TestIllegalCharacterErrorText(t *testing.T) {
	_, err := lexer.Tokenize("example", "1 +\n2 $ 3", lexer.Options{})
	require.EqualError(t, err, "IllegalCharacter: '$'\nFile example, line 2")
}

func TestIllegalCharacterSpan(t *testing.T) {
	le := lexErr(t, "12\n 3 @")
	require.Equal(t, uint32(6), le.Start.Offset)
	require.Equal(t, uint32(1), le.Start.Line)
	require.Equal(t, uint32(3), le.Start.Col)
	require.Equal(t, uint32(7), le.End.Offset)
	require.Equal(t, uint32(4), le.End.Col)
}

func TestSecondDotEndsNumber(t *testing.T) {
	le := lexErr(t, "1.2.3")
	require.Equal(t, uint32(3), le.Start.Offset)
	require.Equal(t, "'.'", le.Message)
}

func TestLeadingDotIsIllegal(t *testing.T) {
	le := lexErr(t, ".5")
	require.Equal(t, uint32(0), le.Start.Offset)
}

func TestFirstCharacterIsClassified(t *testing.T) {
	tokens := lex(t, "7")
	require.Len(t, tokens, 1)
	require.Equal(t, "7", tokens[0].Text)

	tokens = lex(t, "(1)")
	require.Equal(t, []token.Kind{token.LParen, token.IntLit, token.RParen}, kinds(tokens))
}

func TestCharacterAfterNumberIsNotSkipped(t *testing.T) {
	tokens := lex(t, "2*3")
	require.Equal(t, []token.Kind{token.IntLit, token.Star, token.IntLit}, kinds(tokens))
	require.Equal(t, "3", tokens[2].Text)
}

func TestLineColumn(t *testing.T) {
	tokens := lex(t, "1\n22")
	require.Len(t, tokens, 2)
	requireTok(t, tokens[0], token.IntLit, "1", 0, 0)
	requireTok(t, tokens[1], token.IntLit, "22", 1, 0)
	require.Equal(t, uint32(2), tokens[1].Span.Start.Offset)
}

func TestMultiLinePositions(t *testing.T) {
	tokens := lex(t, "(1 +\n\t2)\n* 3.5")
	require.Len(t, tokens, 7)
	requireTok(t, tokens[0], token.LParen, "", 0, 0)
	requireTok(t, tokens[1], token.IntLit, "1", 0, 1)
	requireTok(t, tokens[2], token.Plus, "", 0, 3)
	requireTok(t, tokens[3], token.IntLit, "2", 1, 1)
	requireTok(t, tokens[4], token.RParen, "", 1, 2)
	requireTok(t, tokens[5], token.Star, "", 2, 0)
	requireTok(t, tokens[6], token.FloatLit, "3.5", 2, 2)
}

func TestPositionMonotonic(t *testing.T) {
	inputs := []string{
		"3.14 + 2 * (6 - 4.5)",
		"1\n2\n\n3 / 4",
		"  ((1))  ",
		"12.5.6",
	}
	for _, input := range inputs {
		tokens, err := lexer.Tokenize("m.expr", input, lexer.Options{EmitEOF: true})
		var spans []source.Span
		for _, tok := range tokens {
			spans = append(spans, tok.Span)
		}
		var le *diag.LexError
		if errors.As(err, &le) {
			spans = append(spans, le.Span())
		}
		for i := 1; i < len(spans); i++ {
			require.GreaterOrEqual(t, spans[i].Start.Offset, spans[i-1].End.Offset,
				"input %q span %d", input, i)
		}
		for _, sp := range spans {
			require.LessOrEqual(t, sp.Start.Offset, sp.End.Offset)
		}
	}
}

func TestEndToEndExample(t *testing.T) {
	tokens := lex(t, "3.14 + 2 * (6 - 4.5)")
	require.Equal(t, []token.Kind{
		token.FloatLit, token.Plus, token.IntLit, token.Star, token.LParen,
		token.IntLit, token.Minus, token.FloatLit, token.RParen,
	}, kinds(tokens))

	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	require.Equal(t, []string{"3.14", "", "2", "", "", "6", "", "4.5", ""}, texts)
	require.Equal(t, "3.14", tokens[0].Span.Slice())
	require.Equal(t, "4.5", tokens[7].Span.Slice())
}

func TestEmitEOF(t *testing.T) {
	tokens, err := lexer.Tokenize("eof.expr", "1 +\n2 ", lexer.Options{EmitEOF: true})
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	last := tokens[3]
	require.Equal(t, token.EOF, last.Kind)
	require.Empty(t, last.Text)
	require.True(t, last.Span.Empty())
	require.Equal(t, uint32(6), last.Span.Start.Offset)
	require.Equal(t, uint32(1), last.Span.Start.Line)

	tokens, err = lexer.Tokenize("eof.expr", "", lexer.Options{EmitEOF: true})
	require.NoError(t, err)
	require.Equal(t, []token.Kind{token.EOF}, kinds(tokens))
}

func TestErrorDiscardsEOF(t *testing.T) {
	tokens, err := lexer.Tokenize("e.expr", "1 ?", lexer.Options{EmitEOF: true})
	require.Error(t, err)
	require.Nil(t, tokens)
}

func TestSpansCarrySourceIdentity(t *testing.T) {
	text := "8 / 2"
	tokens := lex(t, text)
	for _, tok := range tokens {
		require.Equal(t, "test.expr", tok.Span.Start.Name)
		require.Equal(t, text, tok.Span.Start.Text)
	}
}

func TestNewFile(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("virtual.expr", []byte("5-1")))
	tokens, err := lexer.NewFile(f, lexer.Options{}).Tokenize()
	require.NoError(t, err)
	require.Equal(t, []token.Kind{token.IntLit, token.Minus, token.IntLit}, kinds(tokens))
	require.Equal(t, "virtual.expr", tokens[0].Span.Start.Name)
}

func TestUnicodeOffsetsCountCharacters(t *testing.T) {
	// U+3000 IDEOGRAPHIC SPACE is whitespace and three bytes long.
	tokens := lex(t, "1　2")
	require.Len(t, tokens, 2)
	require.Equal(t, uint32(2), tokens[1].Span.Start.Offset)
	require.Equal(t, uint32(2), tokens[1].Span.Start.Col)
}
