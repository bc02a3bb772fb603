package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/token"
)

// Literal parsing methods for the Parser.

func (p *Parser) parseNumber() ast.Expr {
	tok := p.next()
	literal := p.l.Text(tok)
	// The lexer only produces digit runs, which always parse.
	value, _ := strconv.ParseFloat(literal, 64)
	return &ast.Number{
		Span:    ast.Span{Start: tok.Start, End: tok.End},
		Literal: literal,
		Value:   value,
	}
}

func (p *Parser) parseString() ast.Expr {
	return p.newString(p.next())
}

func (p *Parser) newString(tok token.Token) *ast.String {
	raw := p.l.Text(tok)
	return &ast.String{
		Span:  ast.Span{Start: tok.Start, End: tok.End},
		Raw:   raw,
		Value: decodeString(raw),
	}
}

func (p *Parser) parseArray() ast.Expr {
	lbracket := p.next()
	elements, ok := parseList(p, p.expressionItem, token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.Array{
		Span:     ast.Span{Start: lbracket.Start, End: p.lastEnd},
		Elements: elements,
	}
}

func (p *Parser) parseDictionary() ast.Expr {
	lbrace := p.next()
	entries, ok := parseList(p, p.dictEntryItem, token.RBRACE)
	if !ok {
		return nil
	}
	return &ast.Dictionary{
		Span:    ast.Span{Start: lbrace.Start, End: p.lastEnd},
		Entries: entries,
	}
}

func (p *Parser) dictEntryItem() (*ast.DictEntry, bool) {
	key := p.peek()
	if key.Type != token.STRING {
		p.errorAndRecover(token.STRING.Description(), key)
		return nil, false
	}
	p.advance()
	if !p.expectToken(token.COLON) {
		return nil, false
	}
	value := p.parseExpression()
	if value == nil {
		return nil, false
	}
	return &ast.DictEntry{Key: p.newString(key), Value: value}, true
}

// decodeString returns the contents of a quoted string literal. In single
// quoted strings '' stands for one quote and nothing else is special. Double
// quoted strings support backslash escapes.
func decodeString(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := removeContinuations(raw[1 : len(raw)-1])
	if raw[0] == '\'' {
		return strings.ReplaceAll(body, "''", "'")
	}
	return unescape(body)
}

// removeContinuations drops each line break together with the indentation
// and backslash that continue the literal on the next line.
func removeContinuations(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			out = append(out, s[i])
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j < len(s) && s[j] == '\\' {
			if n := len(out); n > 0 && out[n-1] == '\r' {
				out = out[:n-1]
			}
			i = j
			continue
		}
		out = append(out, '\n')
	}
	return string(out)
}

var simpleEscapes = map[byte]string{
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'e':  "\x1b",
	'b':  "\b",
	'f':  "\f",
	'\\': "\\",
	'"':  "\"",
	'<':  "<",
}

func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out.WriteByte(s[i])
			continue
		}
		i++
		ch := s[i]
		if esc, ok := simpleEscapes[ch]; ok {
			out.WriteString(esc)
			continue
		}
		switch ch {
		case 'x', 'X':
			if r, n := readHex(s[i+1:], 2); n > 0 {
				out.WriteByte(byte(r))
				i += n
				continue
			}
		case 'u':
			if r, n := readHex(s[i+1:], 4); n > 0 {
				out.WriteRune(r)
				i += n
				continue
			}
		}
		// Unknown escapes stand for the character itself.
		r, size := utf8.DecodeRuneInString(s[i:])
		out.WriteRune(r)
		i += size - 1
	}
	return out.String()
}

// readHex reads up to limit hex digits from the start of s.
func readHex(s string, limit int) (rune, int) {
	n := 0
	for n < limit && n < len(s) && isHex(s[n]) {
		n++
	}
	if n == 0 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), n
}

func isHex(ch byte) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
