package expr

import (
	u "github.com/araddon/gou"

	"github.com/fuhongbo/dynfilter/lex"
	"github.com/fuhongbo/dynfilter/qerrors"
)

var _ = u.EMPTY

// Scope is the stopping rule active for the current parse frame: it tells
// buildSubtree which token would close the enclosing construct (a paren
// group, an argument list, an index, or a BETWEEN lower bound) rather than
// extend the expression currently being built.
type Scope uint8

const (
	ScopeTop Scope = iota
	ScopeParen
	ScopeArgument
	ScopeIndex
	ScopeBetween
)

func (s Scope) stops(tok *lex.Token) bool {
	if tok == nil || tok.Kind != lex.KindSymbol {
		return false
	}
	switch s {
	case ScopeParen:
		return tok.Symbol == ")"
	case ScopeArgument:
		return tok.Symbol == ")" || tok.Symbol == ","
	case ScopeIndex:
		return tok.Symbol == "]"
	case ScopeBetween:
		return tok.Symbol == "AND"
	default: // ScopeTop
		return false
	}
}

// Parser walks the token chain left to right using the current token as
// its only mutable state. Since Next/Previous live on the token itself,
// there is no separate cursor object to keep in sync with the chain.
type Parser struct {
	cur *lex.Token
}

// parsePanic is how internal parse errors propagate to the single recover
// point in Parse, rather than threading an error return through every
// recursive call.
type parsePanic struct{ err error }

func (p *Parser) errorf(tok *lex.Token, detail string) {
	pos, text := tokenInfo(tok, p.cur)
	e := qerrors.Syntax(pos, text)
	e.Detail = detail
	u.Debugf("expr: parse error at %d near %q: %s", pos, text, detail)
	panic(parsePanic{e})
}

func tokenInfo(tok, fallback *lex.Token) (int, string) {
	if tok != nil {
		return tok.Pos, tok.Text
	}
	if fallback != nil {
		return fallback.Pos + len(fallback.Text), "<end of clause>"
	}
	return 1, "<end of clause>"
}

func (p *Parser) advance() {
	if p.cur != nil {
		p.cur = p.cur.Next
	}
}

func isPrefixPos(tok *lex.Token) bool {
	return tok.Previous == nil || tok.Previous.Kind == lex.KindSymbol
}

// Parse builds the (unbalanced) parse tree for the whole token chain
// starting at head. The returned tree still needs Rebalance.
func Parse(head *lex.Token) (root *TreeNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pp, ok := r.(parsePanic); ok {
				err = pp.err
				return
			}
			panic(r)
		}
	}()
	p := &Parser{cur: head}
	root = p.buildSubtree(ScopeTop)
	if p.cur != nil {
		p.errorf(p.cur, "")
	}
	return root, nil
}

// buildSubtree parses one node, then keeps combining following tokens
// into it until the active scope says to stop or the token chain runs
// out.
func (p *Parser) buildSubtree(scope Scope) *TreeNode {
	acc := p.parsePrimary(scope)
	for p.cur != nil {
		if scope.stops(p.cur) {
			break
		}
		acc = p.combine(acc, scope)
	}
	return acc
}

// parsePrimary builds exactly one node: a parenthesized scope, a prefix
// unary, or a Named/Value leaf (with its own call or index handling).
func (p *Parser) parsePrimary(scope Scope) *TreeNode {
	cur := p.cur
	if cur == nil {
		p.errorf(nil, "")
	}

	if cur.Kind == lex.KindSymbol {
		switch {
		case cur.Symbol == "(" && isPrefixPos(cur):
			return p.parseScope()
		case (cur.Symbol == "+" || cur.Symbol == "-") && isPrefixPos(cur):
			return p.parseUnary(cur)
		case cur.Symbol == "NOT" && isPrefixPos(cur):
			return p.parseUnary(cur)
		default:
			p.errorf(cur, "")
		}
	}

	switch cur.Kind {
	case lex.KindNamed:
		return p.parseNamedOrCall()
	case lex.KindValue:
		return p.parseValue()
	}
	p.errorf(cur, "")
	return nil
}

func (p *Parser) parseScope() *TreeNode {
	open := p.cur
	p.advance() // consume "("
	inner := p.buildSubtree(ScopeParen)
	if p.cur == nil || !p.cur.IsSymbol(")") {
		p.errorf(p.cur, "")
	}
	p.advance() // consume ")"
	return &TreeNode{Token: open, Precedence: PrecLeaf, Children: []*TreeNode{inner}}
}

func (p *Parser) parseUnary(op *lex.Token) *TreeNode {
	var canon string
	switch op.Symbol {
	case "+":
		canon = UnaryPlus
	case "-":
		canon = UnaryMinus
	default:
		canon = op.Symbol // NOT
	}
	marker := &lex.Token{Pos: op.Pos, Text: op.Text, Kind: lex.KindSymbol, Symbol: canon}
	p.advance() // consume the operator
	child := p.parsePrimary(ScopeTop)
	return &TreeNode{Token: marker, Precedence: PrecUnary, Children: []*TreeNode{child}}
}

// checkAdjacency rejects two operand tokens sitting next to each other in
// the source without an operator between them.
func (p *Parser) checkAdjacency(cur *lex.Token) {
	prev := cur.Previous
	if prev == nil {
		return
	}
	if prev.Kind != lex.KindSymbol {
		p.errorf(cur, "")
	}
	if prev.Symbol == ")" || prev.Symbol == "]" {
		p.errorf(cur, "")
	}
}

func (p *Parser) parseNamedOrCall() *TreeNode {
	cur := p.cur
	p.checkAdjacency(cur)
	if cur.Next != nil && cur.Next.IsSymbol("(") {
		return p.parseCall(cur)
	}
	p.advance()
	node := &TreeNode{Token: cur, Precedence: PrecLeaf, IsField: true}
	return p.maybeIndex(node)
}

func (p *Parser) parseCall(name *lex.Token) *TreeNode {
	p.advance() // consume name
	p.advance() // consume "("
	var args []*TreeNode
	if p.cur != nil && p.cur.IsSymbol(")") {
		p.advance()
		return &TreeNode{Token: name, Precedence: PrecLeaf, Children: args}
	}
	for {
		args = append(args, p.buildSubtree(ScopeArgument))
		if p.cur != nil && p.cur.IsSymbol(",") {
			p.advance()
			continue
		}
		if p.cur != nil && p.cur.IsSymbol(")") {
			p.advance()
			break
		}
		p.errorf(p.cur, "")
	}
	return &TreeNode{Token: name, Precedence: PrecLeaf, Children: args}
}

func (p *Parser) parseValue() *TreeNode {
	cur := p.cur
	p.checkAdjacency(cur)
	p.advance()
	return p.maybeIndex(leaf(cur))
}

func (p *Parser) maybeIndex(node *TreeNode) *TreeNode {
	if p.cur == nil || !p.cur.IsSymbol("[") {
		return node
	}
	p.advance() // consume "["
	idx := p.buildSubtree(ScopeIndex)
	if p.cur == nil || !p.cur.IsSymbol("]") {
		p.errorf(p.cur, "")
	}
	p.advance() // consume "]"
	node.Children = []*TreeNode{idx}
	return node
}

// combine folds the current token into acc by dispatching on its
// canonical symbol to the matching operator construction.
func (p *Parser) combine(acc *TreeNode, scope Scope) *TreeNode {
	cur := p.cur
	if cur.Kind != lex.KindSymbol {
		// Two operand tokens back to back with no operator between them.
		p.errorf(cur, "")
	}
	switch cur.Symbol {
	case "^":
		return p.binary(cur, PrecPower, acc, scope)
	case "*", "/", "%":
		return p.binary(cur, PrecMulDiv, acc, scope)
	case "+", "-":
		return p.binary(cur, PrecAddSub, acc, scope)
	case "<", ">", "<=", ">=", "=", "<>", "CONTAINS", "STARTSWITH", "ENDSWITH":
		return p.binary(cur, PrecCompare, acc, scope)
	case "BETWEEN":
		return p.between(cur, acc)
	case "IS":
		return p.binary(cur, PrecIs, acc, scope)
	case "AND":
		return p.binary(cur, PrecAnd, acc, scope)
	case "OR":
		return p.binary(cur, PrecOr, acc, scope)
	case "IN":
		return p.in(cur, acc)
	default:
		p.errorf(cur, "")
	}
	return nil
}

func (p *Parser) binary(op *lex.Token, prec int, left *TreeNode, scope Scope) *TreeNode {
	p.advance() // consume operator
	right := p.parsePrimary(scope)
	return &TreeNode{Token: op, Precedence: prec, Children: []*TreeNode{left, right}}
}

func (p *Parser) between(op *lex.Token, left *TreeNode) *TreeNode {
	p.advance() // consume BETWEEN
	lower := p.buildSubtree(ScopeBetween)
	if p.cur == nil || !p.cur.IsSymbol("AND") {
		p.errorf(p.cur, "")
	}
	p.advance() // consume AND
	upper := p.parsePrimary(ScopeTop)
	return &TreeNode{Token: op, Precedence: PrecCompare, Children: []*TreeNode{left, lower, upper}}
}

func (p *Parser) in(op *lex.Token, left *TreeNode) *TreeNode {
	p.advance() // consume IN
	if p.cur == nil || !p.cur.IsSymbol("(") {
		p.errorf(p.cur, "")
	}
	p.advance() // consume "("
	children := []*TreeNode{left}
	for {
		children = append(children, p.buildSubtree(ScopeArgument))
		if p.cur != nil && p.cur.IsSymbol(",") {
			p.advance()
			continue
		}
		if p.cur != nil && p.cur.IsSymbol(")") {
			p.advance()
			break
		}
		p.errorf(p.cur, "")
	}
	if len(children) < 2 {
		p.errorf(op, "IN requires at least one choice")
	}
	return &TreeNode{Token: op, Precedence: PrecLeaf, Children: children}
}
