// Package value defines the small fixed set of runtime value kinds that
// flow through the filter compiler: object, bool, int, double, char and
// string. There is no user-extensible type system.
package value

import "fmt"

// Kind identifies one of the six value kinds the compiler understands.
type Kind uint8

const (
	Object Kind = iota
	Bool
	Int
	Double
	Char
	String
)

// Name is the .NET-flavored type name used in diagnostic messages, e.g.
// "the value on the left must be a Int32 or a Double". The original system
// this was distilled from surfaces these names verbatim, so we keep them
// rather than Go-ish names like "int"/"float64".
func (k Kind) Name() string {
	switch k {
	case Object:
		return "Object"
	case Bool:
		return "Boolean"
	case Int:
		return "Int32"
	case Double:
		return "Double"
	case Char:
		return "Char"
	case String:
		return "String"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string { return k.Name() }

// Value is a decoded literal: a kind tag plus the Go value backing it.
// Object values (the `null` literal) carry a nil Raw.
type Value struct {
	Kind Kind
	Raw  interface{}
}

func Of(k Kind, raw interface{}) Value { return Value{Kind: k, Raw: raw} }

func Null() Value             { return Value{Kind: Object, Raw: nil} }
func OfBool(b bool) Value     { return Value{Kind: Bool, Raw: b} }
func OfInt(i int64) Value     { return Value{Kind: Int, Raw: i} }
func OfDouble(d float64) Value {
	return Value{Kind: Double, Raw: d}
}
func OfChar(c rune) Value   { return Value{Kind: Char, Raw: c} }
func OfString(s string) Value { return Value{Kind: String, Raw: s} }

func (v Value) Bool() bool     { return v.Raw.(bool) }
func (v Value) Int() int64     { return v.Raw.(int64) }
func (v Value) Double() float64 { return v.Raw.(float64) }
func (v Value) Char() rune     { return v.Raw.(rune) }
func (v Value) String() string {
	if v.Kind == String {
		return v.Raw.(string)
	}
	return fmt.Sprintf("%v", v.Raw)
}

// IsNumeric reports whether the kind participates in arithmetic promotion.
func (k Kind) IsNumeric() bool { return k == Int || k == Double }

// Promote returns the wider of two numeric kinds: mixing Int and Double
// promotes the Int side to Double.
func Promote(a, b Kind) Kind {
	if a == Double || b == Double {
		return Double
	}
	return Int
}

// ToDouble converts a numeric Value to its double-valued form, used when
// promoting one operand of a mixed int/double pair (or, for `^`, both
// operands unconditionally).
func ToDouble(v Value) Value {
	switch v.Kind {
	case Double:
		return v
	case Int:
		return OfDouble(float64(v.Int()))
	default:
		panic("value: ToDouble called on non-numeric value")
	}
}
