// Package texpr is the neutral, language-independent typed expression tree
// the compiler emits. It is parameterized by a caller-supplied Instance
// placeholder and never evaluated by this package; evaluation is the host
// collection adapter's concern, implemented for this repository's own
// purposes in package engine.
package texpr

import "github.com/fuhongbo/dynfilter/value"

// Expression is any node of the typed output tree. Every node knows its
// own result Kind, which is how the type-checking transformer enforces
// operand rules bottom-up.
type Expression interface {
	Kind() value.Kind
}

// Instance is the bound placeholder representing "the current record"
// inside the emitted expression.
type Instance struct {
	RecordType string
}

func (Instance) Kind() value.Kind { return value.Object }

// Constant is a typed literal.
type Constant struct {
	K   value.Kind
	Val value.Value
}

func (c Constant) Kind() value.Kind { return c.K }

// Member is a property/field access on some target expression. Package
// compile always emits Instance as the target, since the grammar has no
// nested member access.
type Member struct {
	Target Expression
	Name   string
	K      value.Kind
}

func (m Member) Kind() value.Kind { return m.K }

// Indexer is the character-indexer call emitted whenever a string-typed
// value or field is followed by `[i]`. The target must be string-typed
// and the index int-typed; the result is always Char.
type Indexer struct {
	Target Expression
	Index  Expression
}

func (Indexer) Kind() value.Kind { return value.Char }

// StaticCall is a call into the fixed MAX/MIN built-in table.
type StaticCall struct {
	Name string
	Args []Expression
	K    value.Kind
}

func (c StaticCall) Kind() value.Kind { return c.K }

// MethodCall is a call to a string instance method (CONTAINS / STARTSWITH
// / ENDSWITH), always bool-typed.
type MethodCall struct {
	Target Expression
	Method string
	Args   []Expression
}

func (MethodCall) Kind() value.Kind { return value.Bool }

// Unary covers negation ([-]), identity ([+]) and logical NOT.
type Unary struct {
	Op      string
	Operand Expression
	K       value.Kind
}

func (u Unary) Kind() value.Kind { return u.K }

// Binary covers every binary operator: arithmetic, power, comparisons,
// equality, AND/OR and IS.
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
	K     value.Kind
}

func (b Binary) Kind() value.Kind { return b.K }

// Convert wraps an int-typed expression that must be promoted to double,
// per the numeric promotion rule (`^` always promotes both sides).
type Convert struct {
	Operand Expression
}

func (Convert) Kind() value.Kind { return value.Double }
