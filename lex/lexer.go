package lex

import (
	"regexp"
	"strconv"
	"strings"

	u "github.com/araddon/gou"

	"github.com/fuhongbo/dynfilter/qerrors"
	"github.com/fuhongbo/dynfilter/value"
)

var _ = u.EMPTY

// syntaxErr builds the one error kind the whole pipeline raises: every
// lexer failure is a qerrors.FilterError, same as parser and compiler
// failures further down the pipeline.
func syntaxErr(pos int, text string) error {
	return qerrors.Syntax(pos, text)
}

// The static regex table is built once at package init and never mutated
// afterwards, so it is safe to share across concurrent Lex calls.
var (
	reCharLiteral   = regexp.MustCompile(`^'(\\[\\'trn]|[^\\'])'`)
	reStringLiteral = regexp.MustCompile(`^"[^"]*"`)
	reDecimal       = regexp.MustCompile(`^(\d+\.\d*|\.\d+)`)
	reInteger       = regexp.MustCompile(`^\d+`)
	reWord          = regexp.MustCompile(`^\w+`)
	reWhitespace    = regexp.MustCompile(`^\s+`)
)

// symbols is tried in order; multi-character symbols must precede any
// single-character prefix they share.
var symbols = []string{
	"<>", "<=", ">=",
	"[", "]", "(", ")", ",", "+", "-", "*", "/", "%", "^", "=", "<", ">",
}

var reservedWords = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "BETWEEN": true, "IN": true,
	"IS": true, "CONTAINS": true, "STARTSWITH": true, "ENDSWITH": true,
}

var charEscapes = map[string]rune{
	`\\`: '\\',
	`\'`: '\'',
	`\t`: '\t',
	`\r`: '\r',
	`\n`: '\n',
}

// Lex tokenizes clause and returns the head of the resulting doubly linked
// token chain. clause must be non-empty; rejecting a blank clause is the
// caller's job.
func Lex(clause string) (*Token, error) {
	var toks []*Token
	i := 0
	for i < len(clause) {
		if m := reWhitespace.FindString(clause[i:]); m != "" {
			i += len(m)
			continue
		}
		if i >= len(clause) {
			break
		}
		start := i
		rest := clause[i:]

		if m := reCharLiteral.FindString(rest); m != "" {
			inner := m[1 : len(m)-1]
			var r rune
			if strings.HasPrefix(inner, `\`) {
				esc, ok := charEscapes[inner]
				if !ok {
					return nil, syntaxErr(start+1, m)
				}
				r = esc
			} else {
				rs := []rune(inner)
				if len(rs) != 1 {
					return nil, syntaxErr(start+1, m)
				}
				r = rs[0]
			}
			toks = append(toks, &Token{
				Pos: start + 1, Text: m, Kind: KindValue,
				Type: value.Char, Val: value.OfChar(r),
			})
			i += len(m)
			continue
		}

		if m := reStringLiteral.FindString(rest); m != "" {
			inner := m[1 : len(m)-1]
			toks = append(toks, &Token{
				Pos: start + 1, Text: m, Kind: KindValue,
				Type: value.String, Val: value.OfString(inner),
			})
			i += len(m)
			continue
		}

		if m := reDecimal.FindString(rest); m != "" {
			d, err := strconv.ParseFloat(m, 64)
			if err != nil {
				return nil, syntaxErr(start+1, m)
			}
			toks = append(toks, &Token{
				Pos: start + 1, Text: m, Kind: KindValue,
				Type: value.Double, Val: value.OfDouble(d),
			})
			i += len(m)
			continue
		}

		if m := reInteger.FindString(rest); m != "" {
			n, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				return nil, syntaxErr(start+1, m)
			}
			toks = append(toks, &Token{
				Pos: start + 1, Text: m, Kind: KindValue,
				Type: value.Int, Val: value.OfInt(n),
			})
			i += len(m)
			continue
		}

		if sym, ok := matchSymbol(rest); ok {
			toks = append(toks, &Token{
				Pos: start + 1, Text: sym, Kind: KindSymbol, Symbol: sym,
			})
			i += len(sym)
			continue
		}

		if m := reWord.FindString(rest); m != "" {
			toks = append(toks, classifyWord(start+1, m))
			i += len(m)
			continue
		}

		u.Debugf("lex: no rule matched at %d: %q", start+1, string(rest[0]))
		return nil, syntaxErr(start+1, string(rest[0]))
	}

	return link(toks), nil
}

func matchSymbol(rest string) (string, bool) {
	for _, s := range symbols {
		if strings.HasPrefix(rest, s) {
			return s, true
		}
	}
	return "", false
}

func classifyWord(pos int, word string) *Token {
	upper := strings.ToUpper(word)
	switch upper {
	case "NULL":
		return &Token{Pos: pos, Text: word, Kind: KindValue, Type: value.Object, Val: value.Null()}
	case "TRUE":
		return &Token{Pos: pos, Text: word, Kind: KindValue, Type: value.Bool, Val: value.OfBool(true)}
	case "FALSE":
		return &Token{Pos: pos, Text: word, Kind: KindValue, Type: value.Bool, Val: value.OfBool(false)}
	}
	if reservedWords[upper] {
		return &Token{Pos: pos, Text: word, Kind: KindSymbol, Symbol: upper}
	}
	return &Token{Pos: pos, Text: word, Kind: KindNamed}
}

func link(toks []*Token) *Token {
	if len(toks) == 0 {
		return nil
	}
	for i := range toks {
		if i > 0 {
			toks[i].Previous = toks[i-1]
		}
		if i+1 < len(toks) {
			toks[i].Next = toks[i+1]
		}
	}
	return toks[0]
}
