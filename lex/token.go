// Package lex turns a filter clause into a doubly linked chain of tokens.
// Position, Next and Previous are first-class on the token itself rather
// than tracked by a separate cursor, so the parser can peek forward or
// backward across a token without re-lexing or keeping a pager in sync.
package lex

import "github.com/fuhongbo/dynfilter/value"

// Kind distinguishes the three token variants: Symbol, Named and Value.
type Kind uint8

const (
	KindSymbol Kind = iota
	KindNamed
	KindValue
)

// Token is immutable once produced except for the Next/Previous links,
// which the Lexer sets as it emits the chain.
type Token struct {
	Pos  int    // 1-based column in the original clause
	Text string // exact source lexeme

	Kind Kind

	// Symbol is the canonical (uppercased) form when Kind == KindSymbol;
	// operators and reserved words are compared case-insensitively.
	Symbol string

	// Type/Val are populated when Kind == KindValue.
	Type value.Kind
	Val  value.Value

	Next     *Token
	Previous *Token
}

// IsSymbol reports whether this token is a Symbol with the given canonical
// text, e.g. tok.IsSymbol("AND") or tok.IsSymbol("(").
func (t *Token) IsSymbol(sym string) bool {
	return t != nil && t.Kind == KindSymbol && t.Symbol == sym
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Text
}
