// Package token defines the keywords, operators and token kinds produced when
// lexing Vimscript source code.
package token

// Type describes the type of a token as a string.
type Type string

// Token is one lexical unit. Start and End are byte offsets into the lexed
// input; the text itself is not copied onto the token.
type Token struct {
	Type  Type
	Start int
	End   int
}

// Len returns the number of bytes covered by the token.
func (t Token) Len() int {
	return t.End - t.Start
}

// Is reports whether the token has any of the given types.
func (t Token) Is(types ...Type) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// Token types
const (
	ABORT       Type = "abort"
	BREAK       Type = "break"
	CALL        Type = "call"
	CATCH       Type = "catch"
	CONTINUE    Type = "continue"
	ELSE        Type = "else"
	ELSEIF      Type = "elseif"
	ENDFOR      Type = "endfor"
	ENDFUNCTION Type = "endfunction"
	ENDIF       Type = "endif"
	ENDTRY      Type = "endtry"
	ENDWHILE    Type = "endwhile"
	EXECUTE     Type = "execute"
	FINALLY     Type = "finally"
	FINISH      Type = "finish"
	FOR         Type = "for"
	FUNCTION    Type = "function"
	IF          Type = "if"
	IN          Type = "in"
	LET         Type = "let"
	RETURN      Type = "return"
	SET         Type = "set"
	TRY         Type = "try"
	WHILE       Type = "while"

	IDENT   Type = "IDENT"
	NUMBER  Type = "NUMBER"
	STRING  Type = "STRING"
	NEWLINE Type = "EOL"
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	LPAREN   Type = "("
	RPAREN   Type = ")"
	LBRACKET Type = "["
	RBRACKET Type = "]"
	LBRACE   Type = "{"
	RBRACE   Type = "}"
	COMMA    Type = ","
	COLON    Type = ":"
	QUESTION Type = "?"
	BANG     Type = "!"
	PIPE     Type = "|"

	ASSIGN          Type = "="
	PLUS_EQUALS     Type = "+="
	MINUS_EQUALS    Type = "-="
	ASTERISK_EQUALS Type = "*="
	SLASH_EQUALS    Type = "/="
	MOD_EQUALS      Type = "%="
	PERIOD_EQUALS   Type = ".="
	CONCAT_EQUALS   Type = "..="

	PLUS     Type = "+"
	MINUS    Type = "-"
	ASTERISK Type = "*"
	SLASH    Type = "/"
	MOD      Type = "%"
	PERIOD   Type = "."
	CONCAT   Type = ".."
	SPREAD   Type = "..."
	AND      Type = "&&"
	OR       Type = "||"

	EQ              Type = "=="
	EQ_CASE         Type = "==#"
	EQ_ICASE        Type = "==?"
	NOT_EQ          Type = "!="
	NOT_EQ_CASE     Type = "!=#"
	NOT_EQ_ICASE    Type = "!=?"
	MATCH           Type = "=~"
	MATCH_CASE      Type = "=~#"
	MATCH_ICASE     Type = "=~?"
	NOT_MATCH       Type = "!~"
	NOT_MATCH_CASE  Type = "!~#"
	NOT_MATCH_ICASE Type = "!~?"
	LT              Type = "<"
	LT_EQUALS       Type = "<="
	GT              Type = ">"
	GT_EQUALS       Type = ">="
)

// Reserved keywords. Matching is case-sensitive.
var keywords = map[string]Type{
	"abort":       ABORT,
	"break":       BREAK,
	"call":        CALL,
	"catch":       CATCH,
	"continue":    CONTINUE,
	"else":        ELSE,
	"elseif":      ELSEIF,
	"endfor":      ENDFOR,
	"endfunction": ENDFUNCTION,
	"endif":       ENDIF,
	"endtry":      ENDTRY,
	"endwhile":    ENDWHILE,
	"execute":     EXECUTE,
	"finally":     FINALLY,
	"finish":      FINISH,
	"for":         FOR,
	"function":    FUNCTION,
	"if":          IF,
	"in":          IN,
	"let":         LET,
	"return":      RETURN,
	"set":         SET,
	"try":         TRY,
	"while":       WHILE,
}

// LookupIdentifier returns the keyword type for the identifier, or IDENT if
// it is not a keyword.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the keyword spellings in no particular order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	return names
}

// IsKeyword reports whether t is a reserved word.
func (t Type) IsKeyword() bool {
	_, ok := keywords[string(t)]
	return ok
}

// IsTerminator reports whether t ends a logical statement.
func (t Type) IsTerminator() bool {
	return t == NEWLINE || t == PIPE || t == EOF
}

// IsAssign reports whether t is one of the assignment operators accepted by
// a let statement.
func (t Type) IsAssign() bool {
	switch t {
	case ASSIGN, PLUS_EQUALS, MINUS_EQUALS, ASTERISK_EQUALS, SLASH_EQUALS,
		MOD_EQUALS, PERIOD_EQUALS, CONCAT_EQUALS:
		return true
	}
	return false
}

// IsInfix reports whether t is a binary operator in expressions.
func (t Type) IsInfix() bool {
	switch t {
	case EQ, EQ_CASE, EQ_ICASE, NOT_EQ, NOT_EQ_CASE, NOT_EQ_ICASE,
		MATCH, MATCH_CASE, MATCH_ICASE, NOT_MATCH, NOT_MATCH_CASE, NOT_MATCH_ICASE,
		LT, LT_EQUALS, GT, GT_EQUALS,
		PERIOD, CONCAT, AND, OR,
		PLUS, MINUS, ASTERISK, SLASH, MOD:
		return true
	}
	return false
}

// Description returns the human readable form of the type used in error
// messages, e.g. "`let`", "identifier" or "new line".
func (t Type) Description() string {
	switch t {
	case IDENT:
		return "identifier"
	case NUMBER:
		return "number"
	case STRING:
		return "string literal"
	case NEWLINE:
		return "new line"
	case ILLEGAL:
		return "invalid token"
	case EOF:
		return "end of file"
	}
	return "`" + string(t) + "`"
}
