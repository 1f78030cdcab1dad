// Package qerrors implements the single error taxonomy shared by the whole
// filter/sort compiler: syntax errors, unknown-member errors, type-mismatch
// errors, unsupported-call errors and result-mismatch errors are all one
// FilterError kind carrying a position, the offending text and an optional
// detail; SortError is its sibling for the sort-clause compiler. Both
// implement DynamicQueryError.
package qerrors

import "fmt"

// DynamicQueryError is implemented by every error this module raises.
type DynamicQueryError interface {
	error
	dynamicQueryError()
}

// FilterError is raised anywhere in the lex/parse/rebalance/type-check
// pipeline. Detail, when non-empty, is appended after the syntax prefix.
type FilterError struct {
	Pos    int
	Text   string
	Detail string // e.g. "'Foo' is not a public member of 'Bar'."
}

func (e *FilterError) Error() string {
	prefix := fmt.Sprintf("Invalid syntax near '%s' at position %d.", e.Text, e.Pos)
	if e.Detail == "" {
		return prefix
	}
	return prefix + " " + e.Detail
}

func (e *FilterError) dynamicQueryError() {}

func Syntax(pos int, text string) *FilterError {
	return &FilterError{Pos: pos, Text: text}
}

func UnknownMember(pos int, text, name, record string) *FilterError {
	return &FilterError{Pos: pos, Text: text,
		Detail: fmt.Sprintf("'%s' is not a public member of '%s'.", name, record)}
}

func TypeMismatch(pos int, text, role string, types ...string) *FilterError {
	return &FilterError{Pos: pos, Text: text, Detail: typeMismatchDetail(role, types)}
}

func typeMismatchDetail(role string, types []string) string {
	switch len(types) {
	case 0:
		return fmt.Sprintf("The %s has an invalid type.", role)
	case 1:
		return fmt.Sprintf("The %s must be a %s.", role, types[0])
	default:
		s := fmt.Sprintf("The %s must be a %s", role, types[0])
		for _, t := range types[1:] {
			s += fmt.Sprintf(" or a %s", t)
		}
		return s + "."
	}
}

func UnsupportedCall(pos int, text, name string) *FilterError {
	return &FilterError{Pos: pos, Text: text,
		Detail: fmt.Sprintf("Method '%s' not supported.", name)}
}

// ArityMismatch is a small extension of the type-mismatch family for a
// built-in called with the wrong number of arguments; see DESIGN.md for
// why this gets its own message shape instead of being folded into
// TypeMismatch.
func ArityMismatch(pos int, text, name string, want int) *FilterError {
	return &FilterError{Pos: pos, Text: text,
		Detail: fmt.Sprintf("Method '%s' requires exactly %d argument(s).", name, want)}
}

func ResultMismatch(pos int, text, wantType string) *FilterError {
	return &FilterError{Pos: pos, Text: text,
		Detail: fmt.Sprintf("The result of the expression must be a %s.", wantType)}
}

// SortError is raised by the sort-clause compiler.
type SortError struct {
	Message string
}

func (e *SortError) Error() string  { return e.Message }
func (e *SortError) dynamicQueryError() {}

func Sort(format string, args ...interface{}) *SortError {
	return &SortError{Message: fmt.Sprintf(format, args...)}
}

// ArgumentError is raised when a caller-supplied argument fails validation
// before the clause is even handed to the lexer, e.g. a blank filter
// clause.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string      { return e.Message }
func (e *ArgumentError) dynamicQueryError() {}

func Argument(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}
