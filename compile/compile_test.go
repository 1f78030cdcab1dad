package compile_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuhongbo/dynfilter/compile"
	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/lex"
	"github.com/fuhongbo/dynfilter/qerrors"
	"github.com/fuhongbo/dynfilter/schema"
	"github.com/fuhongbo/dynfilter/texpr"
	"github.com/fuhongbo/dynfilter/value"
)

type person struct {
	Name string
	Age  int64
	GPA  float64
	VIP  bool
	Init rune
}

func personSchema() *schema.Schema {
	return schema.Of(reflect.TypeOf(person{}))
}

func compileClause(t *testing.T, clause string, want value.Kind) (texpr.Expression, error) {
	t.Helper()
	head, err := lex.Lex(clause)
	require.NoError(t, err)
	tree, err := expr.Parse(head)
	require.NoError(t, err)
	tree = expr.Rebalance(tree)
	return compile.New(personSchema()).Compile(tree, want)
}

func TestCompileSimpleComparison(t *testing.T) {
	e, err := compileClause(t, "Age >= 18", value.Bool)
	require.NoError(t, err)
	bin, ok := e.(texpr.Binary)
	require.True(t, ok)
	assert.Equal(t, ">=", bin.Op)
	member, ok := bin.Left.(texpr.Member)
	require.True(t, ok)
	assert.Equal(t, "Age", member.Name)
}

func TestCompileUnknownFieldError(t *testing.T) {
	_, err := compileClause(t, "Bogus = 1", value.Bool)
	require.Error(t, err)
	var fe *qerrors.FilterError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Detail, "not a public member")
}

func TestCompileIntDoublePromotion(t *testing.T) {
	e, err := compileClause(t, "Age + GPA > 1.0", value.Bool)
	require.NoError(t, err)
	bin := e.(texpr.Binary)
	left := bin.Left.(texpr.Binary)
	assert.Equal(t, value.Double, left.Kind())
	_, converted := left.Left.(texpr.Convert)
	assert.True(t, converted, "int operand should be wrapped in Convert when promoted")
}

func TestCompilePowerAlwaysPromotesToDouble(t *testing.T) {
	e, err := compileClause(t, "Age ^ 2 > 1.0", value.Bool)
	require.NoError(t, err)
	bin := e.(texpr.Binary)
	pow := bin.Left.(texpr.Binary)
	assert.Equal(t, "^", pow.Op)
	assert.Equal(t, value.Double, pow.Kind())
	_, ok := pow.Left.(texpr.Convert)
	assert.True(t, ok)
}

func TestCompileStringIndexingYieldsChar(t *testing.T) {
	e, err := compileClause(t, "Name[0] = 'A'", value.Bool)
	require.NoError(t, err)
	bin := e.(texpr.Binary)
	idx, ok := bin.Left.(texpr.Indexer)
	require.True(t, ok)
	assert.Equal(t, value.Char, idx.Kind())
}

func TestCompileIndexingNonStringFieldFails(t *testing.T) {
	_, err := compileClause(t, "Age[0] = 'A'", value.Bool)
	require.Error(t, err)
}

func TestCompileBetween(t *testing.T) {
	e, err := compileClause(t, "Age BETWEEN 18 AND 65", value.Bool)
	require.NoError(t, err)
	and := e.(texpr.Binary)
	assert.Equal(t, "AND", and.Op)
	ge := and.Left.(texpr.Binary)
	le := and.Right.(texpr.Binary)
	assert.Equal(t, ">=", ge.Op)
	assert.Equal(t, "<=", le.Op)
}

// Age IN (1,2,3,4) must compile to
// Or(false, Or(Eq(Age,1), Or(Eq(Age,2), Or(Eq(Age,3), Eq(Age,4))))),
// preserving parse order right-nested.
func TestCompileInFoldsRightNestedSeededWithFalse(t *testing.T) {
	e, err := compileClause(t, "Age IN (1,2,3,4)", value.Bool)
	require.NoError(t, err)

	outer := e.(texpr.Binary)
	require.Equal(t, "OR", outer.Op)
	falseConst, ok := outer.Left.(texpr.Constant)
	require.True(t, ok)
	assert.Equal(t, false, falseConst.Val.Bool())

	var choices []int64
	cur := outer.Right
	for {
		bin, ok := cur.(texpr.Binary)
		if !ok || bin.Op != "OR" {
			eq := cur.(texpr.Binary)
			require.Equal(t, "=", eq.Op)
			choices = append(choices, eq.Right.(texpr.Constant).Val.Int())
			break
		}
		eq := bin.Left.(texpr.Binary)
		require.Equal(t, "=", eq.Op)
		choices = append(choices, eq.Right.(texpr.Constant).Val.Int())
		cur = bin.Right
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, choices)
}

func TestCompileContainsStartsWithEndsWith(t *testing.T) {
	e, err := compileClause(t, `Name CONTAINS "abc"`, value.Bool)
	require.NoError(t, err)
	mc := e.(texpr.MethodCall)
	assert.Equal(t, "Contains", mc.Method)
}

func TestCompileBuiltinCall(t *testing.T) {
	e, err := compileClause(t, "MAX(Age, 10) > 5", value.Bool)
	require.NoError(t, err)
	bin := e.(texpr.Binary)
	call := bin.Left.(texpr.StaticCall)
	assert.Equal(t, "MAX", call.Name)
	assert.Equal(t, value.Int, call.Kind())
}

func TestCompileArityMismatch(t *testing.T) {
	_, err := compileClause(t, "MAX(Age) > 5", value.Bool)
	require.Error(t, err)
	var fe *qerrors.FilterError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Detail, "requires exactly")
}

func TestCompileResultKindMismatch(t *testing.T) {
	_, err := compileClause(t, "Age + 1", value.Bool)
	require.Error(t, err)
	var fe *qerrors.FilterError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Detail, "must be a Boolean")
}

func TestCompileNotRequiresBool(t *testing.T) {
	_, err := compileClause(t, "NOT Age", value.Bool)
	require.Error(t, err)
}

func TestCompileUnaryNegation(t *testing.T) {
	e, err := compileClause(t, "-Age = -5", value.Bool)
	require.NoError(t, err)
	bin := e.(texpr.Binary)
	un := bin.Left.(texpr.Unary)
	assert.Equal(t, expr.UnaryMinus, un.Op)
}
