// Package token defines lexical token kinds for arithmetic expressions.
// Invariants:
//   - Token.Text holds the exact characters of a numeric literal and is empty
//     for every operator, parenthesis and EOF token.
//   - A FloatLit's Text contains exactly one '.'; an IntLit's contains none.
//   - Token.Span brackets the lexeme with cursor snapshots (Begin..End).
package token
