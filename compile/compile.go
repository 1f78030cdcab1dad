// Package compile is the type-checking transformer: it walks a rebalanced
// parse tree bottom-up and emits a texpr.Expression bound to a
// caller-supplied record schema, applying per-operator type rules,
// numeric promotion and property lookup one node at a time.
package compile

import (
	"fmt"

	u "github.com/araddon/gou"

	"github.com/fuhongbo/dynfilter/builtins"
	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/lex"
	"github.com/fuhongbo/dynfilter/qerrors"
	"github.com/fuhongbo/dynfilter/schema"
	"github.com/fuhongbo/dynfilter/texpr"
	"github.com/fuhongbo/dynfilter/value"
)

var _ = u.EMPTY

var numericKinds = []string{value.Int.Name(), value.Double.Name()}
var comparableKinds = []string{value.Int.Name(), value.Double.Name(), value.Char.Name()}

// compilePanic mirrors expr's parsePanic: every diagnostic aborts the
// current compile via panic, recovered once at Compile's boundary. There
// is no retry, no fallback, no best-effort recovery.
type compilePanic struct{ err error }

func fail(pos int, text, role string, types ...string) {
	panic(compilePanic{qerrors.TypeMismatch(pos, text, role, types...)})
}

// Compiler type-checks parse trees against one fixed record Schema.
type Compiler struct {
	Schema *schema.Schema
}

func New(s *schema.Schema) *Compiler { return &Compiler{Schema: s} }

// Compile type-checks root (already parsed and rebalanced) and requires
// the final expression's kind to equal want (e.g. value.Bool for a filter
// predicate).
func (c *Compiler) Compile(root *expr.TreeNode, want value.Kind) (result texpr.Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if cp, ok := r.(compilePanic); ok {
				err = cp.err
				return
			}
			panic(r)
		}
	}()
	instance := texpr.Instance{RecordType: c.Schema.Name}
	result = c.walk(root, instance)
	if result.Kind() != want {
		u.Warnf("compile: result kind %v does not match requested %v", result.Kind(), want)
		panic(compilePanic{qerrors.ResultMismatch(root.Token.Pos, root.Token.Text, want.Name())})
	}
	return result, nil
}

func (c *Compiler) walk(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	tok := n.Token
	switch {
	case tok.Kind == lex.KindValue:
		return c.walkValue(n, instance)
	case n.IsField:
		return c.walkField(n, instance)
	case tok.Kind == lex.KindNamed:
		return c.walkCall(n, instance)
	case tok.Symbol == "(":
		return c.walk(n.Children[0], instance)
	case tok.Symbol == "IN":
		return c.walkIn(n, instance)
	case tok.Symbol == "BETWEEN":
		return c.walkBetween(n, instance)
	case tok.Symbol == expr.UnaryPlus || tok.Symbol == expr.UnaryMinus || tok.Symbol == "NOT":
		return c.walkUnary(n, instance)
	default:
		return c.walkBinary(n, instance)
	}
}

func (c *Compiler) walkValue(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	tok := n.Token
	constExpr := texpr.Constant{K: tok.Type, Val: tok.Val}
	if len(n.Children) == 0 {
		return constExpr
	}
	if tok.Type != value.String {
		fail(tok.Pos, tok.Text, "indexed value", value.String.Name())
	}
	idx := c.walk(n.Children[0], instance)
	if idx.Kind() != value.Int {
		ic := n.Children[0].Token
		fail(ic.Pos, ic.Text, "index", value.Int.Name())
	}
	return texpr.Indexer{Target: constExpr, Index: idx}
}

func (c *Compiler) walkField(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	tok := n.Token
	f, ok := c.Schema.Lookup(tok.Text)
	if !ok {
		panic(compilePanic{qerrors.UnknownMember(tok.Pos, tok.Text, tok.Text, c.Schema.Name)})
	}
	member := texpr.Member{Target: instance, Name: f.Name, K: f.Kind}
	if len(n.Children) == 0 {
		return member
	}
	if f.Kind != value.String {
		fail(tok.Pos, tok.Text, "indexed field", value.String.Name())
	}
	idx := c.walk(n.Children[0], instance)
	if idx.Kind() != value.Int {
		ic := n.Children[0].Token
		fail(ic.Pos, ic.Text, "index", value.Int.Name())
	}
	return texpr.Indexer{Target: member, Index: idx}
}

func (c *Compiler) walkCall(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	tok := n.Token
	fn, ok := builtins.Lookup(tok.Text)
	if !ok {
		panic(compilePanic{qerrors.UnsupportedCall(tok.Pos, tok.Text, tok.Text)})
	}
	if len(n.Children) != fn.Arity {
		panic(compilePanic{qerrors.ArityMismatch(tok.Pos, tok.Text, tok.Text, fn.Arity)})
	}
	args := make([]texpr.Expression, len(n.Children))
	for i, child := range n.Children {
		args[i] = c.walk(child, instance)
		if args[i].Kind() != value.Int {
			fail(child.Token.Pos, child.Token.Text,
				fmt.Sprintf("argument %d of '%s'", i+1, tok.Text), value.Int.Name())
		}
	}
	return texpr.StaticCall{Name: fn.Name, Args: args, K: fn.Kind}
}

func (c *Compiler) walkUnary(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	tok := n.Token
	ct := n.Children[0].Token
	operand := c.walk(n.Children[0], instance)
	switch tok.Symbol {
	case expr.UnaryPlus, expr.UnaryMinus:
		if !operand.Kind().IsNumeric() {
			fail(ct.Pos, ct.Text, "value", numericKinds...)
		}
		return texpr.Unary{Op: tok.Symbol, Operand: operand, K: operand.Kind()}
	default: // NOT
		if operand.Kind() != value.Bool {
			fail(ct.Pos, ct.Text, "value", value.Bool.Name())
		}
		return texpr.Unary{Op: "NOT", Operand: operand, K: value.Bool}
	}
}

func (c *Compiler) walkBinary(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	tok := n.Token
	lt, rt := n.Children[0].Token, n.Children[1].Token
	left := c.walk(n.Children[0], instance)
	right := c.walk(n.Children[1], instance)

	switch tok.Symbol {
	case "^":
		if !left.Kind().IsNumeric() {
			fail(lt.Pos, lt.Text, "value on the left", numericKinds...)
		}
		if !right.Kind().IsNumeric() {
			fail(rt.Pos, rt.Text, "value on the right", numericKinds...)
		}
		return texpr.Binary{Op: "^", Left: toDouble(left), Right: toDouble(right), K: value.Double}

	case "*", "/", "%", "+", "-":
		if !left.Kind().IsNumeric() {
			fail(lt.Pos, lt.Text, "value on the left", numericKinds...)
		}
		if !right.Kind().IsNumeric() {
			fail(rt.Pos, rt.Text, "value on the right", numericKinds...)
		}
		result := value.Promote(left.Kind(), right.Kind())
		return texpr.Binary{Op: tok.Symbol, Left: promoteTo(left, result), Right: promoteTo(right, result), K: result}

	case "<", ">", "<=", ">=":
		if !isIn(left.Kind(), value.Int, value.Double, value.Char) {
			fail(lt.Pos, lt.Text, "value on the left", comparableKinds...)
		}
		if right.Kind() != left.Kind() {
			fail(rt.Pos, rt.Text, "value on the right", left.Kind().Name())
		}
		return texpr.Binary{Op: tok.Symbol, Left: left, Right: right, K: value.Bool}

	case "=", "<>":
		if right.Kind() != left.Kind() {
			fail(rt.Pos, rt.Text, "value on the right", left.Kind().Name())
		}
		return texpr.Binary{Op: tok.Symbol, Left: left, Right: right, K: value.Bool}

	case "CONTAINS", "STARTSWITH", "ENDSWITH":
		if left.Kind() != value.String {
			fail(lt.Pos, lt.Text, "value on the left", value.String.Name())
		}
		if right.Kind() != value.String {
			fail(rt.Pos, rt.Text, "value on the right", value.String.Name())
		}
		return texpr.MethodCall{Target: left, Method: stringMethod(tok.Symbol), Args: []texpr.Expression{right}}

	case "IS":
		if left.Kind() != value.Bool {
			fail(lt.Pos, lt.Text, "value on the left", value.Bool.Name())
		}
		if right.Kind() != left.Kind() {
			fail(rt.Pos, rt.Text, "value on the right", left.Kind().Name())
		}
		return texpr.Binary{Op: "=", Left: left, Right: right, K: value.Bool}

	case "AND", "OR":
		if left.Kind() != value.Bool {
			fail(lt.Pos, lt.Text, "value on the left", value.Bool.Name())
		}
		if right.Kind() != left.Kind() {
			fail(rt.Pos, rt.Text, "value on the right", left.Kind().Name())
		}
		return texpr.Binary{Op: tok.Symbol, Left: left, Right: right, K: value.Bool}
	}
	panic(fmt.Sprintf("compile: unreachable operator %q", tok.Symbol))
}

func (c *Compiler) walkBetween(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	operandTok := n.Children[0].Token
	left := c.walk(n.Children[0], instance)
	if !isIn(left.Kind(), value.Int, value.Double, value.Char) {
		fail(operandTok.Pos, operandTok.Text, "value on the left", comparableKinds...)
	}

	lowerTok := n.Children[1].Token
	lower := c.walk(n.Children[1], instance)
	if lower.Kind() != left.Kind() {
		fail(lowerTok.Pos, lowerTok.Text, "lower bound", left.Kind().Name())
	}

	upperTok := n.Children[2].Token
	upper := c.walk(n.Children[2], instance)
	if upper.Kind() != left.Kind() {
		fail(upperTok.Pos, upperTok.Text, "upper bound", left.Kind().Name())
	}

	ge := texpr.Binary{Op: ">=", Left: left, Right: lower, K: value.Bool}
	le := texpr.Binary{Op: "<=", Left: left, Right: upper, K: value.Bool}
	return texpr.Binary{Op: "AND", Left: ge, Right: le, K: value.Bool}
}

// walkIn folds the choice list into a right-nested disjunction seeded with
// `false`, preserving parse order so a consumer evaluating left to right
// sees the same short-circuit order the choices were written in.
func (c *Compiler) walkIn(n *expr.TreeNode, instance texpr.Expression) texpr.Expression {
	left := c.walk(n.Children[0], instance)
	choices := n.Children[1:]
	eqs := make([]texpr.Expression, len(choices))
	for i, ch := range choices {
		v := c.walk(ch, instance)
		if v.Kind() != left.Kind() {
			fail(ch.Token.Pos, ch.Token.Text, "choice", left.Kind().Name())
		}
		eqs[i] = texpr.Binary{Op: "=", Left: left, Right: v, K: value.Bool}
	}
	acc := eqs[len(eqs)-1]
	for i := len(eqs) - 2; i >= 0; i-- {
		acc = texpr.Binary{Op: "OR", Left: eqs[i], Right: acc, K: value.Bool}
	}
	falseConst := texpr.Constant{K: value.Bool, Val: value.OfBool(false)}
	return texpr.Binary{Op: "OR", Left: falseConst, Right: acc, K: value.Bool}
}

func toDouble(e texpr.Expression) texpr.Expression {
	if e.Kind() == value.Double {
		return e
	}
	return texpr.Convert{Operand: e}
}

func promoteTo(e texpr.Expression, want value.Kind) texpr.Expression {
	if e.Kind() == want {
		return e
	}
	return texpr.Convert{Operand: e}
}

func isIn(k value.Kind, choices ...value.Kind) bool {
	for _, c := range choices {
		if k == c {
			return true
		}
	}
	return false
}

func stringMethod(sym string) string {
	switch sym {
	case "CONTAINS":
		return "Contains"
	case "STARTSWITH":
		return "StartsWith"
	default:
		return "EndsWith"
	}
}
