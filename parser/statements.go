package parser

import (
	"fmt"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/token"
)

// functionModifiers are the words accepted after a function's parameter
// list besides the abort keyword.
var functionModifiers = map[string]bool{
	"range":   true,
	"dict":    true,
	"closure": true,
}

// parseStatement parses one statement starting at the next token. It
// returns nil when the statement had an error, which has been recorded, or
// when the token produces no statement.
func (p *Parser) parseStatement() *ast.Stmt {
	tok := p.next()
	switch tok.Type {
	case token.PIPE:
		return nil
	case token.NEWLINE:
		return p.newStmt(tok.Start, &ast.EmptyStmt{})
	}
	if !tok.Type.IsKeyword() {
		hint := ""
		if tok.Type == token.IDENT {
			hint = keywordHint(p.l.Text(tok))
		}
		code := ErrUnexpectedToken
		if tok.Type == token.ILLEGAL {
			code = ErrInvalidToken
		}
		p.addError(code, tok, "expected keyword, found "+tokenText(p.l, tok), hint)
		p.consumeUntilEndOfStatement()
		return nil
	}

	if !p.enter(tok) {
		return nil
	}
	defer p.leave()

	var kind ast.StmtKind
	switch tok.Type {
	case token.LET:
		kind = p.parseLet()
	case token.CALL:
		kind = p.parseCall()
	case token.EXECUTE:
		kind = p.parseExecute()
	case token.RETURN:
		kind = p.parseReturn()
	case token.IF:
		if stmt := p.parseIf(tok); stmt != nil {
			kind = stmt
		}
	case token.WHILE:
		kind = p.parseWhile(tok)
	case token.FUNCTION:
		kind = p.parseFunction(tok)
	case token.FOR:
		kind = p.parseFor(tok)
	case token.TRY:
		kind = p.parseTry(tok)
	case token.SET:
		kind = p.parseSet()
	case token.BREAK:
		kind = p.parseKeywordOnly(&ast.BreakStmt{})
	case token.CONTINUE:
		kind = p.parseKeywordOnly(&ast.ContinueStmt{})
	case token.FINISH:
		kind = p.parseKeywordOnly(&ast.FinishStmt{})
	default:
		// a keyword that cannot start a statement, e.g. a stray endif
		p.addError(ErrUnexpectedToken, tok, "expected keyword, found "+tokenText(p.l, tok), "")
		p.consumeUntilEndOfStatement()
		return nil
	}
	if kind == nil {
		return nil
	}
	return p.newStmt(tok.Start, kind)
}

func (p *Parser) parseKeywordOnly(kind ast.StmtKind) ast.StmtKind {
	if !p.expectEndOfStatement() {
		return nil
	}
	return kind
}

func (p *Parser) parseLet() ast.StmtKind {
	target := p.parseExpression()
	if target == nil {
		return nil
	}
	op := p.peek()
	if !op.Type.IsAssign() {
		p.errorAndRecover("assign operator", op)
		return nil
	}
	p.advance()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	if !p.expectEndOfStatement() {
		return nil
	}
	return &ast.LetStmt{Var: target, Op: op.Type, Value: value}
}

func (p *Parser) parseCall() ast.StmtKind {
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	if !p.expectToken(token.LPAREN) {
		return nil
	}
	args, ok := parseList(p, p.expressionItem, token.RPAREN)
	if !ok {
		return nil
	}
	if !p.expectEndOfStatement() {
		return nil
	}
	return &ast.CallStmt{Name: name, Args: args}
}

func (p *Parser) parseExecute() ast.StmtKind {
	args := []ast.Expr{}
	for !p.peek().Type.IsTerminator() {
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	p.expectEndOfStatement()
	return &ast.ExecuteStmt{Args: args}
}

func (p *Parser) parseReturn() ast.StmtKind {
	if p.peek().Type.IsTerminator() {
		p.expectEndOfStatement()
		return &ast.ReturnStmt{}
	}
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	if !p.expectEndOfStatement() {
		return nil
	}
	return &ast.ReturnStmt{Value: value}
}

func (p *Parser) parseSet() ast.StmtKind {
	option := p.expectIdentifier()
	if option == nil {
		return nil
	}
	stmt := &ast.SetStmt{Option: option.Name}
	if p.peekIs(token.ASSIGN) {
		p.advance()
		value := p.peek()
		if value.Type != token.IDENT && value.Type != token.NUMBER {
			p.errorAndRecover("identifier or number", value)
			return nil
		}
		p.advance()
		stmt.Value = p.l.Text(value)
	}
	if !p.expectEndOfStatement() {
		return nil
	}
	return stmt
}

// parseBody parses statements up to one of the given terminators or the end
// of the input. The terminator is not consumed. Any other block keyword is a
// stray statement and is reported without leaving the block.
func (p *Parser) parseBody(terminators ...token.Type) []*ast.Stmt {
	body := []*ast.Stmt{}
	for !p.stopped {
		tok := p.peek()
		if tok.Type == token.EOF || tok.Is(terminators...) {
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
	}
	return body
}

// closeBlock consumes the end keyword of a block and the end of statement
// after it. When the block ends with anything else it records an
// unterminated block error at the opening keyword instead.
func (p *Parser) closeBlock(opener token.Token, end token.Type) {
	if !p.peekIs(end) {
		p.addError(ErrUnterminatedBlock, opener,
			fmt.Sprintf("unterminated %s block, expected %s", tokenText(p.l, opener), end.Description()), "")
		return
	}
	p.advance()
	p.expectEndOfStatement()
}

// parseHeader parses the expression and end of statement that follow if,
// elseif and while.
func (p *Parser) parseHeader() (ast.Expr, bool) {
	cond := p.parseExpression()
	if cond == nil {
		return nil, false
	}
	return cond, p.expectEndOfStatement()
}

// parseIf parses the rest of an if statement, with opener being the if
// keyword. An elseif continues the chain recursively.
func (p *Parser) parseIf(opener token.Token) *ast.IfStmt {
	cond, ok := p.parseHeader()
	stmt := &ast.IfStmt{Cond: cond}
	stmt.Then = p.parseBody(token.ELSE, token.ELSEIF, token.ENDIF)

	switch p.peek().Type {
	case token.ELSE:
		p.advance()
		p.expectEndOfStatement()
		stmt.Else = &ast.Else{Body: p.parseBody(token.ENDIF)}
		p.closeBlock(opener, token.ENDIF)
	case token.ELSEIF:
		p.advance()
		nested := p.parseIf(opener)
		if nested == nil {
			return nil
		}
		stmt.Else = &ast.ElseIf{If: nested}
	default:
		p.closeBlock(opener, token.ENDIF)
	}
	if !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile(opener token.Token) ast.StmtKind {
	cond, ok := p.parseHeader()
	body := p.parseBody(token.ENDWHILE)
	p.closeBlock(opener, token.ENDWHILE)
	if !ok {
		return nil
	}
	return &ast.WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) parseLoopVariable() ast.LoopVariable {
	switch tok := p.peek(); tok.Type {
	case token.LBRACKET:
		p.advance()
		names, ok := parseList(p, p.identifierItem, token.RBRACKET)
		if !ok {
			return nil
		}
		return &ast.ListVar{Names: names}
	case token.IDENT:
		p.advance()
		return &ast.SingleVar{Name: p.newIdent(tok)}
	default:
		p.errorAndRecover("`[` or identifier", tok)
		return nil
	}
}

func (p *Parser) parseFor(opener token.Token) ast.StmtKind {
	stmt := &ast.ForStmt{}
	ok := false
	if stmt.Var = p.parseLoopVariable(); stmt.Var != nil && p.expectToken(token.IN) {
		stmt.Range, ok = p.parseHeader()
	}
	stmt.Body = p.parseBody(token.ENDFOR)
	p.closeBlock(opener, token.ENDFOR)
	if !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseFunction(opener token.Token) ast.StmtKind {
	stmt := &ast.FunctionStmt{}
	if p.peekIs(token.BANG) {
		p.advance()
		stmt.Overwrite = true
	}
	ok := p.parseFunctionHeader(stmt)
	stmt.Body = p.parseBody(token.ENDFUNCTION)
	p.closeBlock(opener, token.ENDFUNCTION)
	if !ok {
		return nil
	}
	return stmt
}

func (p *Parser) parseFunctionHeader(stmt *ast.FunctionStmt) bool {
	if stmt.Name = p.expectIdentifier(); stmt.Name == nil {
		return false
	}
	if !p.expectToken(token.LPAREN) {
		return false
	}
	params, ok := parseList(p, p.parameterItem, token.RPAREN)
	if !ok {
		return false
	}
	stmt.Params = params
	for {
		tok := p.peek()
		if tok.Type == token.ABORT {
			stmt.Abort = true
		} else if tok.Type == token.IDENT && functionModifiers[p.l.Text(tok)] {
			switch p.l.Text(tok) {
			case "range":
				stmt.Range = true
			case "dict":
				stmt.Dict = true
			case "closure":
				stmt.Closure = true
			}
		} else {
			break
		}
		p.advance()
	}
	return p.expectEndOfStatement()
}

// tryTerminators end a try body or a catch clause.
var tryTerminators = []token.Type{token.CATCH, token.FINALLY, token.ENDTRY}

func (p *Parser) parseTry(opener token.Token) ast.StmtKind {
	ok := p.expectEndOfStatement()
	stmt := &ast.TryStmt{}
	stmt.Body = p.parseBody(tryTerminators...)
	for p.peekIs(token.CATCH) && !p.stopped {
		p.advance()
		clause := &ast.CatchClause{Pattern: p.restOfStatement()}
		clause.Body = p.parseBody(tryTerminators...)
		stmt.Catches = append(stmt.Catches, clause)
	}
	if p.peekIs(token.FINALLY) {
		p.advance()
		p.expectEndOfStatement()
		stmt.HasFinally = true
		stmt.Finally = p.parseBody(token.ENDTRY)
	}
	p.closeBlock(opener, token.ENDTRY)
	if !ok {
		return nil
	}
	return stmt
}

// restOfStatement consumes the tokens up to the end of the statement and
// returns the source text they cover.
func (p *Parser) restOfStatement() string {
	start, end := p.peek().Start, p.peek().Start
	for !p.peek().Type.IsTerminator() {
		end = p.next().End
	}
	p.expectEndOfStatement()
	return p.l.Input()[start:end]
}

func (p *Parser) identifierItem() (*ast.Ident, bool) {
	id := p.expectIdentifier()
	return id, id != nil
}

func (p *Parser) parameterItem() (*ast.Ident, bool) {
	if tok := p.peek(); tok.Type == token.SPREAD {
		p.advance()
		return p.newIdent(tok), true
	}
	return p.identifierItem()
}
