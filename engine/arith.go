package engine

import (
	"math"
	"strings"

	"github.com/fuhongbo/dynfilter/value"
)

func equalValues(a, b value.Value) bool {
	if a.Kind.IsNumeric() || b.Kind.IsNumeric() {
		return toF(a) == toF(b)
	}
	switch a.Kind {
	case value.Bool:
		return a.Bool() == b.Bool()
	case value.Char:
		return a.Char() == runeOf(b)
	case value.String:
		return a.String() == b.String()
	default:
		return a.Raw == b.Raw
	}
}

func compareValues(a, b value.Value, op string) bool {
	var cmp int
	switch {
	case a.Kind.IsNumeric() || b.Kind.IsNumeric():
		fa, fb := toF(a), toF(b)
		switch {
		case fa < fb:
			cmp = -1
		case fa > fb:
			cmp = 1
		}
	case a.Kind == value.Char:
		cmp = strings.Compare(string(a.Char()), string(runeOf(b)))
	default:
		cmp = strings.Compare(a.String(), b.String())
	}
	switch op {
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	default: // ">="
		return cmp >= 0
	}
}

func arith(a, b value.Value, op string, want value.Kind) value.Value {
	if want == value.Double {
		fa, fb := toF(a), toF(b)
		return value.OfDouble(applyFloat(fa, fb, op))
	}
	return value.OfInt(applyInt(a.Int(), b.Int(), op))
}

func applyFloat(a, b float64, op string) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	default: // "%"
		return math.Mod(a, b)
	}
}

func applyInt(a, b int64, op string) int64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	default: // "%"
		return a % b
	}
}

func powFloat(a, b float64) float64 { return math.Pow(a, b) }

func toF(v value.Value) float64 {
	switch v.Kind {
	case value.Double:
		return v.Double()
	case value.Int:
		return float64(v.Int())
	case value.Char:
		return float64(v.Char())
	default:
		return 0
	}
}

func runeOf(v value.Value) rune {
	if v.Kind == value.Char {
		return v.Char()
	}
	r := []rune(v.String())
	if len(r) == 0 {
		return 0
	}
	return r[0]
}
