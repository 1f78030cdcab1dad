// Package builtins holds the fixed, read-only call table the
// type-checking transformer consults for function-call nodes: a
// case-insensitive lookup into a small, closed set of built-ins (MAX,
// MIN). There is no user registration path; callers cannot extend this
// table at runtime.
package builtins

import (
	"strings"

	"github.com/fuhongbo/dynfilter/value"
)

// Func describes one built-in: a fixed arity, a result kind, and the Go
// function implementing it.
type Func struct {
	Name  string
	Arity int
	Kind  value.Kind
	Eval  func(args ...int64) int64
}

var table = map[string]Func{
	"MAX": {Name: "MAX", Arity: 2, Kind: value.Int, Eval: func(a ...int64) int64 {
		if a[0] > a[1] {
			return a[0]
		}
		return a[1]
	}},
	"MIN": {Name: "MIN", Arity: 2, Kind: value.Int, Eval: func(a ...int64) int64 {
		if a[0] < a[1] {
			return a[0]
		}
		return a[1]
	}},
}

// Lookup finds a built-in by name, case-insensitively.
func Lookup(name string) (Func, bool) {
	f, ok := table[strings.ToUpper(name)]
	return f, ok
}
