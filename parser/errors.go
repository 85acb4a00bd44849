package parser

import "fmt"

// LexError reports a failure to tokenize the input: an unterminated string,
// hex string, regex or comment, an invalid escape, a malformed numeric
// literal, or a stray character. Line and Column are 1-based.
type LexError struct {
	Line   int
	Column int
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// ParseError reports a structural failure: an unexpected token, a missing
// condition section, a misplaced directive or unbalanced braces.
// Line and Column are 1-based and point at the offending token.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}
