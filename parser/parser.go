// Package parser is used to generate the abstract syntax tree (AST) for a
// Vimscript program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
//
// Parsing never fails as a whole. Each statement that does not match the
// grammar records one ParseError, the rest of its line is skipped, and
// parsing resumes with the next statement.
package parser

import (
	"fmt"
	"strings"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/report"
	"github.com/vimlsp/vimscript/internal/token"
)

type prefixParseFn func() ast.Expr

// Parse the provided input as Vimscript source code and return the AST. This
// is shorthand way to create a Lexer and Parser and then call Parse on that.
// The returned error is nil or a multi-error holding every *ParseError; use
// ErrorList to get them back. The program is returned in both cases.
func Parse(input string, options ...Option) (*ast.Program, error) {
	p := New(lexer.New(input), options...)
	program := p.Parse()
	return program, p.Err()
}

// ParseExpr parses input as a single expression. Anything after the
// expression other than trailing line breaks is an error.
func ParseExpr(input string, options ...Option) (ast.Expr, error) {
	p := New(lexer.New(input), options...)
	x := p.parseExpression()
	if x != nil {
		for p.peekIs(token.NEWLINE) {
			p.advance()
		}
		if tok := p.peek(); tok.Type != token.EOF {
			p.unexpected(token.EOF.Description(), tok)
		}
	}
	return x, p.Err()
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser. Statements or
// expressions nested deeper are reported and skipped. The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithMaxErrors stops parsing once n errors have been recorded. Zero, the
// default, means no limit.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// l is our lexer
	l *lexer.Lexer

	// tokens lexed from the input, without the EOF sentinel
	tokens []token.Token

	// pos is the index of the next token to consume
	pos int

	// lastEnd is the end offset of the last consumed token
	lastEnd int

	// parsing errors collected during parsing
	errors []*ParseError

	// stopped is set once maxErrors is reached
	stopped bool

	// nextID is the last NodeID handed out
	nextID ast.NodeID

	// prefixParseFns holds a map of parsing methods for the tokens that may
	// start an expression.
	prefixParseFns map[token.Type]prefixParseFn

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int

	// Maximum number of errors before parsing stops
	maxErrors int
}

// New returns a Parser for the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		tokens:         l.Tokens(),
		prefixParseFns: map[token.Type]prefixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.LPAREN, p.parseParen)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.BANG, p.parseUnary)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LBRACE, p.parseDictionary)
	return p
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// Parse the program that is provided via the lexer.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{}
	for !p.atEOF() && !p.stopped {
		if stmt := p.parseStatement(); stmt != nil {
			program.Stmts = append(program.Stmts, stmt)
		}
	}
	return program
}

// Errors returns the errors recorded so far, in source order.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// Err returns the recorded errors combined into a single error, or nil.
func (p *Parser) Err() error {
	return joinErrors(p.errors)
}

// Lexer returns the lexer the parser reads from.
func (p *Parser) Lexer() *lexer.Lexer {
	return p.l
}

// Text returns the source text of a token.
func (p *Parser) Text(tok token.Token) string {
	return p.l.Text(tok)
}

// FindToken returns the first token whose range contains pos, with both
// ends inclusive so that a cursor right after a name still finds it. On the
// boundary between two tokens an identifier is preferred.
func (p *Parser) FindToken(pos token.Position) (token.Token, bool) {
	for i, tok := range p.tokens {
		if !p.l.TokenRange(tok).Contains(pos) {
			continue
		}
		if tok.Type != token.IDENT && i+1 < len(p.tokens) {
			if next := p.tokens[i+1]; next.Type == token.IDENT && p.l.TokenRange(next).Contains(pos) {
				return next, true
			}
		}
		return tok, true
	}
	return token.Token{}, false
}

// ResolveLocation converts a byte span to line and character positions.
func (p *Parser) ResolveLocation(span ast.Span) token.Range {
	return p.l.Range(span.Start, span.End)
}

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the next token without consuming it. Past the last token it
// returns the EOF sentinel.
func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.l.EOF()
}

func (p *Parser) peekIs(t token.Type) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.lastEnd = p.tokens[p.pos].End
		p.pos++
	}
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	p.advance()
	return tok
}

func (p *Parser) addError(code ErrorCode, tok token.Token, msg, hint string) {
	if p.stopped {
		return
	}
	position := p.l.TokenRange(tok)
	if tok.Type == token.NEWLINE {
		// keep the range on the line that ends
		position.End = token.Position{Line: position.Start.Line, Character: position.Start.Character + 1}
	}
	p.errors = append(p.errors, &ParseError{
		Code:     code,
		Message:  msg,
		Position: position,
		Span:     ast.Span{Start: tok.Start, End: tok.End},
		File:     p.filename,
		Hint:     hint,
	})
	if p.maxErrors > 0 && len(p.errors) >= p.maxErrors {
		p.stopped = true
	}
}

// unexpected records "expected X, found Y" at the found token.
func (p *Parser) unexpected(expected string, found token.Token) {
	code := ErrUnexpectedToken
	switch {
	case found.Type == token.ILLEGAL:
		code = ErrInvalidToken
	case expected == "expression":
		code = ErrMissingExpression
	case expected == "identifier":
		code = ErrExpectedIdentifier
	}
	p.addError(code, found, fmt.Sprintf("expected %s, found %s", expected, tokenText(p.l, found)), "")
}

// errorAndRecover records an error at found and skips the rest of the
// statement.
func (p *Parser) errorAndRecover(expected string, found token.Token) {
	p.unexpected(expected, found)
	p.consumeUntilEndOfStatement()
}

// consumeUntilEndOfStatement discards tokens up to and including the next
// statement terminator.
func (p *Parser) consumeUntilEndOfStatement() {
	for !p.atEOF() {
		if tok := p.next(); tok.Type.IsTerminator() {
			return
		}
	}
}

func (p *Parser) expectToken(t token.Type) bool {
	if tok := p.peek(); tok.Type != t {
		p.errorAndRecover(t.Description(), tok)
		return false
	}
	p.advance()
	return true
}

// expectEndOfStatement consumes a new line or pipe. The end of the input
// also ends a statement but is never consumed.
func (p *Parser) expectEndOfStatement() bool {
	switch tok := p.peek(); tok.Type {
	case token.NEWLINE, token.PIPE:
		p.advance()
		return true
	case token.EOF:
		return true
	default:
		p.errorAndRecover(token.NEWLINE.Description(), tok)
		return false
	}
}

func (p *Parser) expectIdentifier() *ast.Ident {
	tok := p.peek()
	if tok.Type != token.IDENT {
		p.errorAndRecover(token.IDENT.Description(), tok)
		return nil
	}
	p.advance()
	return p.newIdent(tok)
}

func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	span := ast.Span{Start: tok.Start, End: tok.End}
	return &ast.Ident{Span: span, Name: p.l.Text(tok), NameSpan: span}
}

func (p *Parser) newStmt(start int, kind ast.StmtKind) *ast.Stmt {
	p.nextID++
	return &ast.Stmt{
		ID:   p.nextID,
		Span: ast.Span{Start: start, End: max(start, p.lastEnd)},
		Kind: kind,
	}
}

// enter increments the nesting depth, recording an error and skipping the
// statement when it would exceed the limit.
func (p *Parser) enter(tok token.Token) bool {
	if p.depth >= p.maxDepth {
		p.addError(ErrMaxDepth, tok, fmt.Sprintf("maximum nesting depth of %d exceeded", p.maxDepth), "")
		p.consumeUntilEndOfStatement()
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// parseList parses comma separated items up to and including end. An empty
// list and a single trailing comma are accepted.
func parseList[T any](p *Parser, item func() (T, bool), end token.Type) ([]T, bool) {
	items := []T{}
	if p.peekIs(end) {
		p.advance()
		return items, true
	}
	for {
		v, ok := item()
		if !ok {
			return nil, false
		}
		items = append(items, v)
		switch tok := p.peek(); tok.Type {
		case end:
			p.advance()
			return items, true
		case token.COMMA:
			p.advance()
			if p.peekIs(end) {
				p.advance()
				return items, true
			}
		default:
			p.errorAndRecover("`,` or "+end.Description(), tok)
			return nil, false
		}
	}
}

func keywordHint(name string) string {
	if lower := strings.ToLower(name); lower != name && token.LookupIdentifier(lower) != token.IDENT {
		return fmt.Sprintf("keywords are case-sensitive, did you mean `%s`?", lower)
	}
	return report.FormatSuggestions(report.SuggestSimilar(name, token.Keywords()))
}
