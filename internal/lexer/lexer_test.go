package lexer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/google/go-cmp/cmp"

	"github.com/vimlsp/vimscript/internal/token"
)

type expectedToken struct {
	expectedType    token.Type
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)
	tokens := l.Tokens()
	if len(tokens) != len(tests) {
		var got []string
		for _, tok := range tokens {
			got = append(got, string(tok.Type)+" "+l.Text(tok))
		}
		t.Fatalf("token count wrong, expected=%d, got=%d: %q", len(tests), len(tokens), got)
	}
	for i, tt := range tests {
		tok := tokens[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if l.Text(tok) != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, l.Text(tok))
		}
	}
}

func TestLetStatement(t *testing.T) {
	checkTokens(t, "let l:var = 15", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "l:var"},
		{token.ASSIGN, "="},
		{token.NUMBER, "15"},
	})
}

func TestSingleCharacterTokens(t *testing.T) {
	checkTokens(t, "()[]{},:?!|", []expectedToken{
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.COLON, ":"},
		{token.QUESTION, "?"},
		{token.BANG, "!"},
		{token.PIPE, "|"},
	})
}

func TestOperators(t *testing.T) {
	input := "+ += - -= * *= / /= % %= . .= .. ..= ... = == ==# ==? != !=# !=? " +
		"=~ =~# =~? !~ !~# !~? < <= > >= && ||"
	checkTokens(t, input, []expectedToken{
		{token.PLUS, "+"},
		{token.PLUS_EQUALS, "+="},
		{token.MINUS, "-"},
		{token.MINUS_EQUALS, "-="},
		{token.ASTERISK, "*"},
		{token.ASTERISK_EQUALS, "*="},
		{token.SLASH, "/"},
		{token.SLASH_EQUALS, "/="},
		{token.MOD, "%"},
		{token.MOD_EQUALS, "%="},
		{token.PERIOD, "."},
		{token.PERIOD_EQUALS, ".="},
		{token.CONCAT, ".."},
		{token.CONCAT_EQUALS, "..="},
		{token.SPREAD, "..."},
		{token.ASSIGN, "="},
		{token.EQ, "=="},
		{token.EQ_CASE, "==#"},
		{token.EQ_ICASE, "==?"},
		{token.NOT_EQ, "!="},
		{token.NOT_EQ_CASE, "!=#"},
		{token.NOT_EQ_ICASE, "!=?"},
		{token.MATCH, "=~"},
		{token.MATCH_CASE, "=~#"},
		{token.MATCH_ICASE, "=~?"},
		{token.NOT_MATCH, "!~"},
		{token.NOT_MATCH_CASE, "!~#"},
		{token.NOT_MATCH_ICASE, "!~?"},
		{token.LT, "<"},
		{token.LT_EQUALS, "<="},
		{token.GT, ">"},
		{token.GT_EQUALS, ">="},
		{token.AND, "&&"},
		{token.OR, "||"},
	})
}

func TestKeywords(t *testing.T) {
	checkTokens(t, "function! s:Name(a, ...) abort\nendfunction", []expectedToken{
		{token.FUNCTION, "function"},
		{token.BANG, "!"},
		{token.IDENT, "s:Name"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.SPREAD, "..."},
		{token.RPAREN, ")"},
		{token.ABORT, "abort"},
		{token.NEWLINE, "\n"},
		{token.ENDFUNCTION, "endfunction"},
	})
	// keywords are case-sensitive
	checkTokens(t, "Let IF", []expectedToken{
		{token.IDENT, "Let"},
		{token.IDENT, "IF"},
	})
}

func TestIdentifiers(t *testing.T) {
	checkTokens(t, "my#plugin#func s:x l:var &paste &l:sw $HOME @a @/ g: café_1", []expectedToken{
		{token.IDENT, "my#plugin#func"},
		{token.IDENT, "s:x"},
		{token.IDENT, "l:var"},
		{token.IDENT, "&paste"},
		{token.IDENT, "&l:sw"},
		{token.IDENT, "$HOME"},
		{token.IDENT, "@a"},
		{token.IDENT, "@/"},
		{token.IDENT, "g:"},
		{token.IDENT, "café_1"},
	})
}

func TestInvalids(t *testing.T) {
	checkTokens(t, "& $ ~ \\ ;", []expectedToken{
		{token.ILLEGAL, "&"},
		{token.ILLEGAL, "$"},
		{token.ILLEGAL, "~"},
		{token.ILLEGAL, "\\"},
		{token.ILLEGAL, ";"},
	})
}

func TestIntegers(t *testing.T) {
	checkTokens(t, "0 42 007 1.5", []expectedToken{
		{token.NUMBER, "0"},
		{token.NUMBER, "42"},
		{token.NUMBER, "007"},
		{token.NUMBER, "1"},
		{token.PERIOD, "."},
		{token.NUMBER, "5"},
	})
}

func TestSingleQuotedString(t *testing.T) {
	checkTokens(t, "'That''s enough.'", []expectedToken{
		{token.STRING, "'That''s enough.'"},
	})
	checkTokens(t, "'That\n \\is valid literal'", []expectedToken{
		{token.STRING, "'That\n \\is valid literal'"},
	})
	checkTokens(t, "''", []expectedToken{
		{token.STRING, "''"},
	})
}

func TestInvalidSingleQuotedString(t *testing.T) {
	// A line break without a continuation ends the literal, and the next
	// line is lexed on its own.
	checkTokens(t, "'That\n '", []expectedToken{
		{token.ILLEGAL, "'That"},
		{token.NEWLINE, "\n"},
		{token.ILLEGAL, "'"},
	})
	checkTokens(t, "let a = 'oops\nlet b = 1", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.ILLEGAL, "'oops"},
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "b"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
	})
}

func TestDoubleQuotedString(t *testing.T) {
	checkTokens(t, `let a = "say \"hi\"\n" . "\\"`, []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.STRING, `"say \"hi\"\n"`},
		{token.PERIOD, "."},
		{token.STRING, `"\\"`},
	})
}

func TestComments(t *testing.T) {
	input := "\" header comment\nlet a = 1 \" trailing\n  \" indented"
	l := New(input)
	checkTokens(t, input, []expectedToken{
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.NEWLINE, "\n"},
	})
	var texts []string
	for _, c := range l.Comments() {
		texts = append(texts, input[c.Start:c.End])
	}
	assert.Equal(t, []string{`" header comment`, `" trailing`, `" indented`}, texts)
}

func TestLineContinuation(t *testing.T) {
	checkTokens(t, "let a = [1,\n      \\ 2,\n\t\\ 3]\ncall f()", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.LBRACKET, "["},
		{token.NUMBER, "1"},
		{token.COMMA, ","},
		{token.NUMBER, "2"},
		{token.COMMA, ","},
		{token.NUMBER, "3"},
		{token.RBRACKET, "]"},
		{token.NEWLINE, "\n"},
		{token.CALL, "call"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
	})
}

func TestContinuedLineStringIsNotComment(t *testing.T) {
	checkTokens(t, "call f(\n  \\ \"x\")", []expectedToken{
		{token.CALL, "call"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.STRING, `"x"`},
		{token.RPAREN, ")"},
	})
}

func TestCRLFNewlines(t *testing.T) {
	checkTokens(t, "let a = 1\r\nlet b = 2\r\n", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "b"},
		{token.ASSIGN, "="},
		{token.NUMBER, "2"},
		{token.NEWLINE, "\n"},
	})
}

func TestEmptyInput(t *testing.T) {
	l := New("")
	assert.Empty(t, l.Tokens())
	assert.Equal(t, token.Token{Type: token.EOF}, l.EOF())
	assert.Empty(t, New("   \t  ").Tokens())
}

func TestEOFSentinel(t *testing.T) {
	l := New("let a")
	eof := l.EOF()
	assert.Equal(t, token.EOF, eof.Type)
	assert.Equal(t, 5, eof.Start)
	assert.Equal(t, 5, eof.End)
	assert.Equal(t, "", l.Text(eof))
	assert.Len(t, l.Tokens(), 2)
}

func TestTokenRanges(t *testing.T) {
	l := New("let l:var\nlet x")
	tokens := l.Tokens()
	want := []token.Token{
		{Type: token.LET, Start: 0, End: 3},
		{Type: token.IDENT, Start: 4, End: 9},
		{Type: token.NEWLINE, Start: 9, End: 10},
		{Type: token.LET, Start: 10, End: 13},
		{Type: token.IDENT, Start: 14, End: 15},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("token mismatch (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, "0:9-1:0", l.TokenRange(tokens[2]).String())
	assert.Equal(t, token.Position{Line: 1, Character: 4}, l.Position(14))
}

const fuzzAlphabet = "abcl:#_& $@'\"\\\n \t()[]{},?.=!~<>|+-*/%0123456789é;"

func TestTokensOrderedAndNonOverlapping(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []rune(fuzzAlphabet)
	for i := 0; i < 2000; i++ {
		var b strings.Builder
		n := rng.Intn(60)
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		input := b.String()
		tokens := Lex(input)
		prevEnd := 0
		for k, tok := range tokens {
			assert.LessOrEqual(t, prevEnd, tok.Start, "input %q token %d overlaps", input, k)
			assert.True(t, tok.Start < tok.End, "input %q token %d is empty", input, k)
			assert.LessOrEqual(t, tok.End, len(input), "input %q token %d past end", input, k)
			prevEnd = tok.End
		}
	}
}

func FuzzLex(f *testing.F) {
	f.Add("let l:var = 15")
	f.Add("'That\n \\is valid literal'")
	f.Add("\" comment\nif a ==# 'b' | echo | endif")
	f.Fuzz(func(t *testing.T, input string) {
		prevEnd := 0
		for _, tok := range Lex(input) {
			if tok.Start < prevEnd || tok.End <= tok.Start || tok.End > len(input) {
				t.Fatalf("bad token %+v in %q", tok, input)
			}
			prevEnd = tok.End
		}
	})
}
