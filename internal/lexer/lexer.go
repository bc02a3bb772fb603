// Package lexer converts Vimscript source text into a sequence of tokens.
//
// Lexing never fails. Malformed input such as an unterminated single quoted
// string becomes an ILLEGAL token and lexing carries on with the next byte.
// Whitespace and comments are consumed without emitting tokens, while line
// breaks are significant and become NEWLINE tokens unless the next line is a
// continuation line starting with a backslash.
package lexer

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/vimlsp/vimscript/internal/token"
)

// Comment is the byte range of a comment, including its leading quote.
type Comment struct {
	Start int
	End   int
}

// Lexer holds the tokens lexed from one input string. The token slice is
// built once by New and never modified afterwards.
type Lexer struct {
	input    string
	pos      int
	tokens   []token.Token
	comments []Comment

	// A double quote is a comment only when it is the first token on a
	// logical line.
	firstInLine bool

	linesOnce sync.Once
	lines     *token.LineIndex
}

// New lexes the entire input and returns the Lexer holding the result.
func New(input string) *Lexer {
	l := &Lexer{input: input, firstInLine: true}
	l.run()
	return l
}

// Lex returns the tokens of input.
func Lex(input string) []token.Token {
	return New(input).Tokens()
}

// Input returns the source text.
func (l *Lexer) Input() string {
	return l.input
}

// Tokens returns the lexed tokens. The EOF sentinel is not included.
func (l *Lexer) Tokens() []token.Token {
	return l.tokens
}

// Comments returns the byte ranges of all comments in source order.
func (l *Lexer) Comments() []Comment {
	return l.comments
}

// EOF returns the end of file sentinel, an empty token positioned at the end
// of the input.
func (l *Lexer) EOF() token.Token {
	return token.Token{Type: token.EOF, Start: len(l.input), End: len(l.input)}
}

// Text returns the source text covered by tok.
func (l *Lexer) Text(tok token.Token) string {
	start, end := tok.Start, tok.End
	if start < 0 {
		start = 0
	}
	if end > len(l.input) {
		end = len(l.input)
	}
	if start >= end {
		return ""
	}
	return l.input[start:end]
}

// Lines returns the line index of the input, building it on first use.
func (l *Lexer) Lines() *token.LineIndex {
	l.linesOnce.Do(func() {
		l.lines = token.NewLineIndex(l.input)
	})
	return l.lines
}

// Position resolves a byte offset to a line and character.
func (l *Lexer) Position(offset int) token.Position {
	return l.Lines().Position(offset)
}

// Range resolves a half-open byte range.
func (l *Lexer) Range(start, end int) token.Range {
	return l.Lines().Range(start, end)
}

// TokenRange resolves the range covered by tok.
func (l *Lexer) TokenRange(tok token.Token) token.Range {
	return l.Range(tok.Start, tok.End)
}

func (l *Lexer) run() {
	for l.pos < len(l.input) {
		l.next()
	}
}

func (l *Lexer) emit(typ token.Type, start, end int) {
	l.tokens = append(l.tokens, token.Token{Type: typ, Start: start, End: end})
	l.firstInLine = typ == token.NEWLINE
	l.pos = end
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

func (l *Lexer) next() {
	start := l.pos
	switch ch := l.input[l.pos]; ch {
	case ' ', '\t', '\r':
		l.pos++
	case '\n':
		l.readNewline()
	case '"':
		l.readDoubleQuote()
	case '\'':
		l.readSingleQuote()
	case '(':
		l.emit(token.LPAREN, start, start+1)
	case ')':
		l.emit(token.RPAREN, start, start+1)
	case '[':
		l.emit(token.LBRACKET, start, start+1)
	case ']':
		l.emit(token.RBRACKET, start, start+1)
	case '{':
		l.emit(token.LBRACE, start, start+1)
	case '}':
		l.emit(token.RBRACE, start, start+1)
	case ',':
		l.emit(token.COMMA, start, start+1)
	case ':':
		l.emit(token.COLON, start, start+1)
	case '?':
		l.emit(token.QUESTION, start, start+1)
	case '+':
		l.operatorOrAssign(token.PLUS, token.PLUS_EQUALS)
	case '-':
		l.operatorOrAssign(token.MINUS, token.MINUS_EQUALS)
	case '*':
		l.operatorOrAssign(token.ASTERISK, token.ASTERISK_EQUALS)
	case '/':
		l.operatorOrAssign(token.SLASH, token.SLASH_EQUALS)
	case '%':
		l.operatorOrAssign(token.MOD, token.MOD_EQUALS)
	case '<':
		l.operatorOrAssign(token.LT, token.LT_EQUALS)
	case '>':
		l.operatorOrAssign(token.GT, token.GT_EQUALS)
	case '.':
		l.readPeriod()
	case '=':
		switch l.peekByte(1) {
		case '=':
			l.withCaseVariant(2, token.EQ, token.EQ_CASE, token.EQ_ICASE)
		case '~':
			l.withCaseVariant(2, token.MATCH, token.MATCH_CASE, token.MATCH_ICASE)
		default:
			l.emit(token.ASSIGN, start, start+1)
		}
	case '!':
		switch l.peekByte(1) {
		case '=':
			l.withCaseVariant(2, token.NOT_EQ, token.NOT_EQ_CASE, token.NOT_EQ_ICASE)
		case '~':
			l.withCaseVariant(2, token.NOT_MATCH, token.NOT_MATCH_CASE, token.NOT_MATCH_ICASE)
		default:
			l.emit(token.BANG, start, start+1)
		}
	case '|':
		if l.peekByte(1) == '|' {
			l.emit(token.OR, start, start+2)
		} else {
			l.emit(token.PIPE, start, start+1)
		}
	case '&':
		if l.peekByte(1) == '&' {
			l.emit(token.AND, start, start+2)
		} else {
			// &option names such as &paste or &l:shiftwidth
			l.readPrefixedIdentifier(1)
		}
	case '$':
		l.readPrefixedIdentifier(1)
	case '@':
		l.readRegister()
	default:
		if isDigit(ch) {
			l.readNumber()
			return
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if isIdentifierStart(r) {
			l.readIdentifier()
			return
		}
		l.emit(token.ILLEGAL, start, start+size)
	}
}

func (l *Lexer) operatorOrAssign(op, assign token.Type) {
	if l.peekByte(1) == '=' {
		l.emit(assign, l.pos, l.pos+2)
		return
	}
	l.emit(op, l.pos, l.pos+1)
}

// withCaseVariant emits one of the comparison operators with an optional
// trailing # (match case) or ? (ignore case).
func (l *Lexer) withCaseVariant(width int, plain, matchCase, ignoreCase token.Type) {
	start := l.pos
	switch l.peekByte(width) {
	case '#':
		l.emit(matchCase, start, start+width+1)
	case '?':
		l.emit(ignoreCase, start, start+width+1)
	default:
		l.emit(plain, start, start+width)
	}
}

func (l *Lexer) readPeriod() {
	start := l.pos
	switch {
	case l.peekByte(1) == '.' && l.peekByte(2) == '.':
		l.emit(token.SPREAD, start, start+3)
	case l.peekByte(1) == '.' && l.peekByte(2) == '=':
		l.emit(token.CONCAT_EQUALS, start, start+3)
	case l.peekByte(1) == '.':
		l.emit(token.CONCAT, start, start+2)
	case l.peekByte(1) == '=':
		l.emit(token.PERIOD_EQUALS, start, start+2)
	default:
		l.emit(token.PERIOD, start, start+1)
	}
}

// continuationAfter returns the offset just past the backslash when the
// line starting at offset is a continuation line, or -1.
func (l *Lexer) continuationAfter(offset int) int {
	for offset < len(l.input) && (l.input[offset] == ' ' || l.input[offset] == '\t') {
		offset++
	}
	if offset < len(l.input) && l.input[offset] == '\\' {
		return offset + 1
	}
	return -1
}

func (l *Lexer) readNewline() {
	start := l.pos
	if next := l.continuationAfter(start + 1); next >= 0 {
		l.pos = next
		return
	}
	l.emit(token.NEWLINE, start, start+1)
}

func (l *Lexer) readDoubleQuote() {
	start := l.pos
	if l.firstInLine {
		l.readComment(start)
		return
	}
	pos := start + 1
	for pos < len(l.input) {
		switch l.input[pos] {
		case '\n':
			// A double quote that does not close on its own line is a
			// trailing comment.
			l.readComment(start)
			return
		case '\\':
			if pos+1 < len(l.input) && l.input[pos+1] != '\n' {
				pos++
			}
		case '"':
			l.emit(token.STRING, start, pos+1)
			return
		}
		pos++
	}
	l.readComment(start)
}

func (l *Lexer) readComment(start int) {
	end := start
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	l.comments = append(l.comments, Comment{Start: start, End: end})
	l.pos = end
}

func (l *Lexer) readSingleQuote() {
	start := l.pos
	pos := start + 1
	for pos < len(l.input) {
		switch l.input[pos] {
		case '\'':
			if pos+1 < len(l.input) && l.input[pos+1] == '\'' {
				pos += 2
				continue
			}
			l.emit(token.STRING, start, pos+1)
			return
		case '\n':
			next := l.continuationAfter(pos + 1)
			if next < 0 {
				// The line break is left for the NEWLINE token so the next
				// statement is not swallowed.
				l.emit(token.ILLEGAL, start, pos)
				return
			}
			pos = next
			continue
		}
		pos++
	}
	l.emit(token.ILLEGAL, start, pos)
}

func (l *Lexer) readNumber() {
	start := l.pos
	end := start
	for end < len(l.input) && isDigit(l.input[end]) {
		end++
	}
	l.emit(token.NUMBER, start, end)
}

func (l *Lexer) scanIdentifier(from int) int {
	end := from
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !isIdentifierChar(r) {
			break
		}
		end += size
	}
	return end
}

func (l *Lexer) readIdentifier() {
	start := l.pos
	end := l.scanIdentifier(start)
	l.emit(token.LookupIdentifier(l.input[start:end]), start, end)
}

// readPrefixedIdentifier reads names like &paste and $HOME. A prefix that is
// not followed by a name is illegal.
func (l *Lexer) readPrefixedIdentifier(prefix int) {
	start := l.pos
	end := l.scanIdentifier(start + prefix)
	if end == start+prefix {
		l.emit(token.ILLEGAL, start, start+prefix)
		return
	}
	l.emit(token.IDENT, start, end)
}

const registerNames = "\"@/*+-.:%#=_"

func (l *Lexer) readRegister() {
	start := l.pos
	next := l.peekByte(1)
	if next != 0 && strings.IndexByte(registerNames, next) >= 0 {
		l.emit(token.IDENT, start, start+2)
		return
	}
	l.readPrefixedIdentifier(1)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierChar(r rune) bool {
	switch {
	case r == '_' || r == '#' || r == ':':
		return true
	case r < utf8.RuneSelf:
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
