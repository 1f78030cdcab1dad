// Package sqladapter is an optional SQL-pushdown alternative to the
// default in-process engine: instead of scanning records with
// engine.Eval, it translates a compiled texpr.Expression into a SQL WHERE
// fragment and lets the database do the filtering. A small Dialect
// interface isolates the one place the two target engines differ —
// identifier quoting — from the shared expression-to-SQL walk.
package sqladapter

import (
	"fmt"
	"strings"

	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/texpr"
	"github.com/fuhongbo/dynfilter/value"
)

// Dialect controls identifier quoting for one SQL engine. Placeholder
// style is the same ("?") for both engines this adapter targets.
type Dialect interface {
	QuoteIdent(name string) string
	Name() string
}

type mysqlDialect struct{}

func (mysqlDialect) QuoteIdent(name string) string { return "`" + name + "`" }
func (mysqlDialect) Name() string                  { return "mysql" }

type sqliteDialect struct{}

func (sqliteDialect) QuoteIdent(name string) string { return `"` + name + `"` }
func (sqliteDialect) Name() string                   { return "sqlite3" }

// MySQL is the backtick-quoting dialect for github.com/go-sql-driver/mysql.
var MySQL Dialect = mysqlDialect{}

// SQLite is the double-quote-quoting dialect for github.com/mattn/go-sqlite3.
var SQLite Dialect = sqliteDialect{}

// writer accumulates a parameterized SQL fragment as it walks a typed
// expression, mirroring engine.Eval's recursive-descent shape but
// emitting text and bind arguments instead of evaluating.
type writer struct {
	dialect Dialect
	buf     strings.Builder
	args    []interface{}
}

// WhereClause renders e as a parameterized SQL boolean expression usable
// after a WHERE keyword, e.g. `("age" >= ?)` with args []interface{}{21}.
func WhereClause(d Dialect, e texpr.Expression) (sql string, args []interface{}, err error) {
	w := &writer{dialect: d}
	if err := w.write(e); err != nil {
		return "", nil, err
	}
	return w.buf.String(), w.args, nil
}

func (w *writer) write(e texpr.Expression) error {
	switch n := e.(type) {
	case texpr.Constant:
		return w.writeConstant(n)
	case texpr.Instance:
		return fmt.Errorf("sqladapter: cannot render a bare record reference")
	case texpr.Member:
		w.buf.WriteString(w.dialect.QuoteIdent(n.Name))
		return nil
	case texpr.Indexer:
		return w.writeIndexer(n)
	case texpr.StaticCall:
		return w.writeStaticCall(n)
	case texpr.MethodCall:
		return w.writeMethodCall(n)
	case texpr.Unary:
		return w.writeUnary(n)
	case texpr.Binary:
		return w.writeBinary(n)
	case texpr.Convert:
		// Both engines here promote int to double implicitly in
		// arithmetic context, so Convert is a no-op at the SQL layer.
		return w.write(n.Operand)
	default:
		return fmt.Errorf("sqladapter: unhandled expression %T", e)
	}
}

func (w *writer) writeConstant(n texpr.Constant) error {
	switch n.K {
	case value.Bool:
		w.bind(n.Val.Bool())
	case value.Int:
		w.bind(n.Val.Int())
	case value.Double:
		w.bind(n.Val.Double())
	case value.Char:
		w.bind(string(n.Val.Char()))
	case value.String:
		w.bind(n.Val.String())
	default:
		w.buf.WriteString("NULL")
	}
	return nil
}

func (w *writer) bind(v interface{}) {
	w.args = append(w.args, v)
	w.buf.WriteString("?")
}

func (w *writer) writeIndexer(n texpr.Indexer) error {
	// SQL has no single-character substring shorthand portable across
	// both engines' placeholder styles, so render SUBSTR(target, index+1, 1).
	w.buf.WriteString("SUBSTR(")
	if err := w.write(n.Target); err != nil {
		return err
	}
	w.buf.WriteString(", (")
	if err := w.write(n.Index); err != nil {
		return err
	}
	w.buf.WriteString(") + 1, 1)")
	return nil
}

func (w *writer) writeStaticCall(n texpr.StaticCall) error {
	w.buf.WriteString(n.Name)
	w.buf.WriteString("(")
	for i, a := range n.Args {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		if err := w.write(a); err != nil {
			return err
		}
	}
	w.buf.WriteString(")")
	return nil
}

func (w *writer) writeMethodCall(n texpr.MethodCall) error {
	pattern, err := sqlLikePattern(n)
	if err != nil {
		return err
	}
	if err := w.write(n.Target); err != nil {
		return err
	}
	w.buf.WriteString(" LIKE ")
	w.bind(pattern.literal)
	return nil
}

type likePattern struct{ literal string }

func sqlLikePattern(n texpr.MethodCall) (likePattern, error) {
	lit, ok := n.Args[0].(texpr.Constant)
	if !ok {
		return likePattern{}, fmt.Errorf("sqladapter: %s requires a literal argument for SQL pushdown", n.Method)
	}
	s := lit.Val.String()
	switch n.Method {
	case "Contains":
		return likePattern{"%" + s + "%"}, nil
	case "StartsWith":
		return likePattern{s + "%"}, nil
	default: // EndsWith
		return likePattern{"%" + s}, nil
	}
}

func (w *writer) writeUnary(n texpr.Unary) error {
	switch n.Op {
	case expr.UnaryPlus:
		return w.write(n.Operand)
	case expr.UnaryMinus:
		w.buf.WriteString("-(")
		if err := w.write(n.Operand); err != nil {
			return err
		}
		w.buf.WriteString(")")
		return nil
	default: // NOT
		w.buf.WriteString("NOT (")
		if err := w.write(n.Operand); err != nil {
			return err
		}
		w.buf.WriteString(")")
		return nil
	}
}

var sqlOp = map[string]string{
	"AND": "AND", "OR": "OR", "=": "=", "<>": "<>",
	"<": "<", ">": ">", "<=": "<=", ">=": ">=",
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%",
}

func (w *writer) writeBinary(n texpr.Binary) error {
	if n.Op == "^" {
		w.buf.WriteString("POWER(")
		if err := w.write(n.Left); err != nil {
			return err
		}
		w.buf.WriteString(", ")
		if err := w.write(n.Right); err != nil {
			return err
		}
		w.buf.WriteString(")")
		return nil
	}
	op, ok := sqlOp[n.Op]
	if !ok {
		return fmt.Errorf("sqladapter: unsupported operator %q", n.Op)
	}
	w.buf.WriteString("(")
	if err := w.write(n.Left); err != nil {
		return err
	}
	w.buf.WriteString(" " + op + " ")
	if err := w.write(n.Right); err != nil {
		return err
	}
	w.buf.WriteString(")")
	return nil
}
