package parser

import (
	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/token"
)

// Expression parsing methods for the Parser.
//
// Binary operators all share one precedence level and associate to the
// left, so 1 + 2 * 3 is (1 + 2) * 3. A trailing ? starts a ternary that
// takes the whole infix chain as its condition. Call and subscript suffixes
// only follow identifiers.

// parseExpression parses a full expression starting at the next token.
func (p *Parser) parseExpression() ast.Expr {
	if !p.enter(p.peek()) {
		return nil
	}
	defer p.leave()

	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		op := p.peek()
		switch {
		case op.Type == token.QUESTION:
			p.advance()
			return p.parseChoose(left)
		case op.Type.IsInfix():
			p.advance()
			right := p.parsePrefix()
			if right == nil {
				return nil
			}
			left = &ast.Infix{
				Span:  ast.SpanOf(left).Union(ast.SpanOf(right)),
				Left:  left,
				Op:    op.Type,
				Right: right,
			}
		default:
			return left
		}
	}
}

// parseChoose parses the branches of cond ? lhs : rhs after the question
// mark.
func (p *Parser) parseChoose(cond ast.Expr) ast.Expr {
	lhs := p.parseExpression()
	if lhs == nil {
		return nil
	}
	if !p.expectToken(token.COLON) {
		return nil
	}
	rhs := p.parseExpression()
	if rhs == nil {
		return nil
	}
	return &ast.Choose{
		Span: ast.SpanOf(cond).Union(ast.SpanOf(rhs)),
		Cond: cond,
		Lhs:  lhs,
		Rhs:  rhs,
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	tok := p.peek()
	fn, ok := p.prefixParseFns[tok.Type]
	if !ok {
		p.errorAndRecover("expression", tok)
		return nil
	}
	if !p.enter(tok) {
		return nil
	}
	defer p.leave()
	return fn()
}

func (p *Parser) parseIdent() ast.Expr {
	return p.parsePostfix(p.newIdent(p.next()))
}

// parsePostfix applies call and subscript suffixes to base. Subscripts
// chain freely but a call cannot directly follow another call.
func (p *Parser) parsePostfix(base ast.Expr) ast.Expr {
	afterCall := false
	for {
		switch p.peek().Type {
		case token.LPAREN:
			if afterCall {
				return base
			}
			p.advance()
			args, ok := parseList(p, p.expressionItem, token.RPAREN)
			if !ok {
				return nil
			}
			base = &ast.Call{
				Span:   ast.Span{Start: base.Pos(), End: p.lastEnd},
				Callee: base,
				Args:   args,
			}
			afterCall = true
		case token.LBRACKET:
			p.advance()
			index := p.parseSubscriptIndex()
			if index == nil {
				return nil
			}
			base = &ast.ArraySubscript{
				Span:  ast.Span{Start: base.Pos(), End: p.lastEnd},
				Base:  base,
				Index: index,
			}
			afterCall = false
		default:
			return base
		}
	}
}

// parseSubscriptIndex parses the inside of [...] after the opening bracket,
// including the closing bracket: a[i], a[l:r], a[l:], a[:r] or a[:].
func (p *Parser) parseSubscriptIndex() ast.SubscriptIndex {
	var left ast.Expr
	if !p.peekIs(token.COLON) {
		if left = p.parseExpression(); left == nil {
			return nil
		}
		if !p.peekIs(token.COLON) {
			if !p.expectToken(token.RBRACKET) {
				return nil
			}
			return &ast.Index{X: left}
		}
	}
	p.advance() // ':'
	sublist := &ast.Sublist{Left: left}
	if !p.peekIs(token.RBRACKET) {
		if sublist.Right = p.parseExpression(); sublist.Right == nil {
			return nil
		}
	}
	if !p.expectToken(token.RBRACKET) {
		return nil
	}
	return sublist
}

func (p *Parser) parseUnary() ast.Expr {
	op := p.next()
	x := p.parsePrefix()
	if x == nil {
		return nil
	}
	return &ast.Unary{Span: ast.Span{Start: op.Start, End: x.End()}, Op: op.Type, X: x}
}

func (p *Parser) parseParen() ast.Expr {
	lparen := p.next()
	x := p.parseExpression()
	if x == nil {
		return nil
	}
	if !p.expectToken(token.RPAREN) {
		return nil
	}
	return &ast.Paren{Span: ast.Span{Start: lparen.Start, End: p.lastEnd}, X: x}
}

func (p *Parser) expressionItem() (ast.Expr, bool) {
	x := p.parseExpression()
	return x, x != nil
}
