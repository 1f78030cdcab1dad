package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/lex"
	"github.com/fuhongbo/dynfilter/qerrors"
)

func parse(t *testing.T, clause string) *expr.TreeNode {
	t.Helper()
	head, err := lex.Lex(clause)
	require.NoError(t, err)
	tree, err := expr.Parse(head)
	require.NoError(t, err)
	return tree
}

func TestParseSimpleComparison(t *testing.T) {
	tree := parse(t, "Age >= 18")
	require.True(t, tree.Token.IsSymbol(">="))
	require.Len(t, tree.Children, 2)
	assert.True(t, tree.Children[0].IsField)
	assert.Equal(t, "Age", tree.Children[0].Token.Text)
	assert.False(t, tree.Children[1].IsField)
}

func TestParseUnaryMinusGetsSyntheticSymbol(t *testing.T) {
	tree := parse(t, "-Age")
	assert.Equal(t, expr.UnaryMinus, tree.Token.Symbol)
	assert.Equal(t, expr.PrecUnary, tree.Precedence)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "Age", tree.Children[0].Token.Text)
}

func TestParseCallWithArgs(t *testing.T) {
	tree := parse(t, "MAX(1, 2)")
	assert.Equal(t, "MAX", tree.Token.Text)
	assert.Equal(t, expr.PrecLeaf, tree.Precedence)
	require.Len(t, tree.Children, 2)
}

func TestParseCallWithNoArgs(t *testing.T) {
	tree := parse(t, "MAX()")
	assert.Equal(t, "MAX", tree.Token.Text)
	assert.Len(t, tree.Children, 0)
}

func TestParseIndexingOnFieldAndValue(t *testing.T) {
	tree := parse(t, "Name[0]")
	require.True(t, tree.IsField)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "0", tree.Children[0].Token.Text)

	tree2 := parse(t, `"abc"[1]`)
	require.Len(t, tree2.Children, 1)
}

func TestParseParenScope(t *testing.T) {
	tree := parse(t, "(1 + 2)")
	assert.Equal(t, "(", tree.Token.Text)
	assert.Equal(t, expr.PrecLeaf, tree.Precedence)
	require.Len(t, tree.Children, 1)
	assert.True(t, tree.Children[0].Token.IsSymbol("+"))
}

func TestParseBetween(t *testing.T) {
	tree := parse(t, "Age BETWEEN 1 AND 10")
	assert.True(t, tree.Token.IsSymbol("BETWEEN"))
	require.Len(t, tree.Children, 3)
}

func TestParseInRequiresAtLeastOneChoice(t *testing.T) {
	head, err := lex.Lex("Age IN ()")
	require.NoError(t, err)
	_, err = expr.Parse(head)
	require.Error(t, err)
}

func TestParseIn(t *testing.T) {
	tree := parse(t, "Age IN (1, 2, 3)")
	assert.True(t, tree.Token.IsSymbol("IN"))
	require.Len(t, tree.Children, 4) // left + 3 choices
}

func TestParseAdjacentOperandsIsSyntaxError(t *testing.T) {
	head, err := lex.Lex("1 2")
	require.NoError(t, err)
	_, err = expr.Parse(head)
	require.Error(t, err)
	var fe *qerrors.FilterError
	require.ErrorAs(t, err, &fe)
}

func TestParseUnexpectedTrailingTokenIsSyntaxError(t *testing.T) {
	head, err := lex.Lex("1 + 2)")
	require.NoError(t, err)
	_, err = expr.Parse(head)
	require.Error(t, err)
}

func TestParseUnclosedParenIsSyntaxError(t *testing.T) {
	head, err := lex.Lex("(1 + 2")
	require.NoError(t, err)
	_, err = expr.Parse(head)
	require.Error(t, err)
}
