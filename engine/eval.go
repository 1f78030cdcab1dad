// Package engine is this repository's host collection adapter: it walks a
// compiled texpr.Expression against records held in an in-memory
// hashicorp/go-memdb store, making FilterBy and SortBy runnable end to
// end.
package engine

import (
	"fmt"
	"strings"

	"github.com/fuhongbo/dynfilter/builtins"
	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/texpr"
	"github.com/fuhongbo/dynfilter/value"

	"reflect"
)

// Eval walks a compiled typed expression against one record (addressed
// via reflection) and returns its runtime value. This is the default,
// in-process evaluation strategy; sqladapter offers a SQL-pushdown
// alternative for larger sources.
func Eval(e texpr.Expression, instance reflect.Value) (value.Value, error) {
	switch n := e.(type) {
	case texpr.Constant:
		return n.Val, nil
	case texpr.Instance:
		return value.Of(value.Object, instance.Interface()), nil
	case texpr.Member:
		return evalMember(n, instance)
	case texpr.Indexer:
		return evalIndexer(n, instance)
	case texpr.StaticCall:
		return evalStaticCall(n, instance)
	case texpr.MethodCall:
		return evalMethodCall(n, instance)
	case texpr.Unary:
		return evalUnary(n, instance)
	case texpr.Binary:
		return evalBinary(n, instance)
	case texpr.Convert:
		operand, err := Eval(n.Operand, instance)
		if err != nil {
			return value.Value{}, err
		}
		return value.ToDouble(operand), nil
	default:
		return value.Value{}, fmt.Errorf("engine: unhandled expression %T", e)
	}
}

func evalMember(n texpr.Member, instance reflect.Value) (value.Value, error) {
	fv := instance.FieldByName(n.Name)
	if !fv.IsValid() {
		return value.Value{}, fmt.Errorf("engine: record has no field %q", n.Name)
	}
	return reflectToValue(fv, n.K), nil
}

func reflectToValue(fv reflect.Value, k value.Kind) value.Value {
	switch k {
	case value.Bool:
		return value.OfBool(fv.Bool())
	case value.Int:
		return value.OfInt(fv.Int())
	case value.Double:
		return value.OfDouble(fv.Float())
	case value.Char:
		return value.OfChar(rune(fv.Int()))
	case value.String:
		return value.OfString(fv.String())
	default:
		return value.Of(value.Object, fv.Interface())
	}
}

func evalIndexer(n texpr.Indexer, instance reflect.Value) (value.Value, error) {
	target, err := Eval(n.Target, instance)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := Eval(n.Index, instance)
	if err != nil {
		return value.Value{}, err
	}
	runes := []rune(target.String())
	i := int(idx.Int())
	if i < 0 || i >= len(runes) {
		return value.Value{}, fmt.Errorf("engine: index %d out of range for %q", i, target.String())
	}
	return value.OfChar(runes[i]), nil
}

func evalStaticCall(n texpr.StaticCall, instance reflect.Value) (value.Value, error) {
	args := make([]int64, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, instance)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v.Int()
	}
	fn, ok := builtins.Lookup(n.Name)
	if !ok {
		return value.Value{}, fmt.Errorf("engine: unknown built-in %q", n.Name)
	}
	return value.OfInt(fn.Eval(args...)), nil
}

func evalMethodCall(n texpr.MethodCall, instance reflect.Value) (value.Value, error) {
	target, err := Eval(n.Target, instance)
	if err != nil {
		return value.Value{}, err
	}
	arg, err := Eval(n.Args[0], instance)
	if err != nil {
		return value.Value{}, err
	}
	s, sub := target.String(), arg.String()
	switch n.Method {
	case "Contains":
		return value.OfBool(strings.Contains(s, sub)), nil
	case "StartsWith":
		return value.OfBool(strings.HasPrefix(s, sub)), nil
	default: // EndsWith
		return value.OfBool(strings.HasSuffix(s, sub)), nil
	}
}

func evalUnary(n texpr.Unary, instance reflect.Value) (value.Value, error) {
	operand, err := Eval(n.Operand, instance)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case expr.UnaryPlus:
		return operand, nil
	case expr.UnaryMinus:
		if operand.Kind == value.Double {
			return value.OfDouble(-operand.Double()), nil
		}
		return value.OfInt(-operand.Int()), nil
	default: // NOT
		return value.OfBool(!operand.Bool()), nil
	}
}

func evalBinary(n texpr.Binary, instance reflect.Value) (value.Value, error) {
	left, err := Eval(n.Left, instance)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(n.Right, instance)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case "AND":
		return value.OfBool(left.Bool() && right.Bool()), nil
	case "OR":
		return value.OfBool(left.Bool() || right.Bool()), nil
	case "=":
		return value.OfBool(equalValues(left, right)), nil
	case "<>":
		return value.OfBool(!equalValues(left, right)), nil
	case "<", ">", "<=", ">=":
		return value.OfBool(compareValues(left, right, n.Op)), nil
	case "^":
		return value.OfDouble(powFloat(left.Double(), right.Double())), nil
	case "+", "-", "*", "/", "%":
		return arith(left, right, n.Op, n.K), nil
	default:
		return value.Value{}, fmt.Errorf("engine: unknown operator %q", n.Op)
	}
}
