package lexer

type Options struct {
	// EmitEOF appends a final token.EOF with an empty span.
	EmitEOF bool
}
