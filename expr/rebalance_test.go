package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuhongbo/dynfilter/expr"
	"github.com/fuhongbo/dynfilter/lex"
)

func rebalanced(t *testing.T, clause string) *expr.TreeNode {
	t.Helper()
	head, err := lex.Lex(clause)
	require.NoError(t, err)
	tree, err := expr.Parse(head)
	require.NoError(t, err)
	return expr.Rebalance(tree)
}

// 2+3*4 must rebalance to 2+(3*4): the left-to-right parser initially
// skews this to (2+3)*4, which is wrong because * binds tighter than +.
func TestRebalancePromotesTighterOperator(t *testing.T) {
	tree := rebalanced(t, "2+3*4")
	require.True(t, tree.Token.IsSymbol("+"))
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "2", tree.Children[0].Token.Text)
	require.True(t, tree.Children[1].Token.IsSymbol("*"))
	assert.Equal(t, "3", tree.Children[1].Children[0].Token.Text)
	assert.Equal(t, "4", tree.Children[1].Children[1].Token.Text)
}

// 2*3+4 is already shaped correctly by left-to-right parsing (tighter
// operator came first), so rebalance must leave it untouched.
func TestRebalanceLeavesAlreadyCorrectTreeAlone(t *testing.T) {
	tree := rebalanced(t, "2*3+4")
	require.True(t, tree.Token.IsSymbol("+"))
	require.True(t, tree.Children[0].Token.IsSymbol("*"))
	assert.Equal(t, "4", tree.Children[1].Token.Text)
}

// 1^2^3: same-precedence operators never rotate against each other, so
// this stays left-associative: (1^2)^3.
func TestRebalanceSamePrecedenceStaysLeftAssociative(t *testing.T) {
	tree := rebalanced(t, "1^2^3")
	require.True(t, tree.Token.IsSymbol("^"))
	require.True(t, tree.Children[0].Token.IsSymbol("^"))
	assert.Equal(t, "1", tree.Children[0].Children[0].Token.Text)
	assert.Equal(t, "2", tree.Children[0].Children[1].Token.Text)
	assert.Equal(t, "3", tree.Children[1].Token.Text)
}

func TestRebalanceDoesNotRotateScopesOrCalls(t *testing.T) {
	tree := rebalanced(t, "(1+2)*3")
	require.True(t, tree.Token.IsSymbol("*"))
	assert.Equal(t, "(", tree.Children[0].Token.Text)
}

func TestRebalanceAndOrPrecedence(t *testing.T) {
	tree := rebalanced(t, "a AND b OR c AND d")
	require.True(t, tree.Token.IsSymbol("OR"))
	require.True(t, tree.Children[0].Token.IsSymbol("AND"))
	require.True(t, tree.Children[1].Token.IsSymbol("AND"))
}
