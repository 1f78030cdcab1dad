/*
Package dynfilter compiles textual filter and sort clauses against a
statically known Go record type and applies them to an in-memory slice.

	type User struct {
		Name string
		Age  int64
	}

	adults, err := dynfilter.FilterBy(users, "Age >= 18")
	byName, err := dynfilter.SortBy(adults, "Name")

FilterBy and SortBy are this repository's top-level public surface: a
single thin package that wires together the compiler pipeline (lex,
parse, rebalance, type-check) and the in-process host adapter so a
caller doesn't have to assemble the pipeline by hand.
*/
package dynfilter

import (
	"reflect"
	"strings"

	u "github.com/araddon/gou"

	"github.com/fuhongbo/dynfilter/compile"
	"github.com/fuhongbo/dynfilter/compilecache"
	"github.com/fuhongbo/dynfilter/engine"
	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/lex"
	"github.com/fuhongbo/dynfilter/qerrors"
	"github.com/fuhongbo/dynfilter/schema"
	"github.com/fuhongbo/dynfilter/sortclause"
	"github.com/fuhongbo/dynfilter/texpr"
	"github.com/fuhongbo/dynfilter/value"
)

// defaultCache memoizes compiled filter clauses across calls, keyed by
// record type name plus clause text. Compiling is pure and side-effect
// free, so sharing one process-wide cache across callers is safe.
var defaultCache = compilecache.New(256)

// FilterBy compiles clause against T's schema and returns the elements
// of source for which it evaluates true, preserving their original
// relative order.
func FilterBy[T any](source []T, clause string) ([]T, error) {
	pred, err := CompileFilter(reflect.TypeOf((*T)(nil)).Elem(), clause)
	if err != nil {
		return nil, err
	}
	return engine.FilterBy(source, pred)
}

// SortBy compiles a sort clause (comma-separated "field[ ASC|DESC]"
// items) against T's schema and returns source reordered accordingly.
// Multiple keys are applied as one stable multi-key comparator, so later
// keys only break ties left by earlier ones.
func SortBy[T any](source []T, clause string) ([]T, error) {
	s := schema.Of(reflect.TypeOf((*T)(nil)).Elem())
	keys, err := sortclause.Parse(clause, s)
	if err != nil {
		return nil, err
	}
	return engine.SortBy(source, keys)
}

// CompileFilter runs the full lex/parse/rebalance/type-check pipeline
// for clause against a record of type t, consulting and populating the
// package's compiled-clause cache. Most callers want FilterBy instead;
// CompileFilter is exposed for hosts (such as sqladapter) that need the
// typed expression itself rather than an immediately-applied filter.
func CompileFilter(t reflect.Type, clause string) (texpr.Expression, error) {
	if strings.TrimSpace(clause) == "" {
		return nil, qerrors.Argument("Filter clause cannot be null or empty.")
	}
	s := schema.Of(t)
	if cached, ok := defaultCache.Get(s.Name, clause); ok {
		return cached, nil
	}

	head, err := lex.Lex(clause)
	if err != nil {
		return nil, err
	}
	tree, err := expr.Parse(head)
	if err != nil {
		return nil, err
	}
	tree = expr.Rebalance(tree)

	compiled, err := compile.New(s).Compile(tree, value.Bool)
	if err != nil {
		u.Debugf("dynfilter: compile failed for %q against %s: %v", clause, s.Name, err)
		return nil, err
	}

	defaultCache.Put(s.Name, clause, compiled)
	return compiled, nil
}

// Clause validation and compile errors returned by
// FilterBy/SortBy/CompileFilter are one of qerrors.FilterError,
// qerrors.SortError or qerrors.ArgumentError; re-exported here so callers
// don't need a second import just to type-assert on them. Errors raised
// while FilterBy evaluates records (e.g. a string index out of range) are
// plain errors from package engine.
type (
	FilterError   = qerrors.FilterError
	SortError     = qerrors.SortError
	ArgumentError = qerrors.ArgumentError
)
