package expr

// Rebalance restores standard precedence/associativity to a tree built by
// the left-to-right parser in parser.go. Left-to-right construction skews
// every run of operators to the left regardless of precedence; this pass
// rotates until, for every operator node, its first child does not bind
// looser (does not have a strictly greater precedence number) than the
// node itself.
//
// Equal-precedence runs never rotate, which is what makes this produce
// conventional left associativity for e.g. `a - b + c` => `(a - b) + c`.
func Rebalance(n *TreeNode) *TreeNode {
	if n == nil {
		return nil
	}
	if n.isOperator() {
		n = rotate(n)
	}
	for i, c := range n.Children {
		n.Children[i] = Rebalance(c)
	}
	return n
}

// rotate repeatedly left-rotates n while its first child binds looser than
// n does, i.e. while the first child is an operator with a strictly
// greater precedence number than n's.
func rotate(n *TreeNode) *TreeNode {
	for {
		if len(n.Children) == 0 {
			return n
		}
		child := n.Children[0]
		if !child.isOperator() || child.Precedence <= n.Precedence {
			return n
		}
		// child becomes the new root; child's last child (the displaced
		// subtree) becomes n's new first child; n becomes child's new
		// last child.
		displaced := child.Children[len(child.Children)-1]
		n.Children[0] = displaced
		child.Children[len(child.Children)-1] = n
		n = child
	}
}
