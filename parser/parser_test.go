package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
	"github.com/google/go-cmp/cmp"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/token"
)

func mustParse(t *testing.T, input string, options ...Option) *ast.Program {
	t.Helper()
	program, err := Parse(input, options...)
	assert.NoError(t, err)
	return program
}

func TestLetStatement(t *testing.T) {
	program := mustParse(t, "let l:var = 15")
	assert.Len(t, program.Stmts, 1)

	stmt := program.Stmts[0]
	assert.Equal(t, ast.NodeID(1), stmt.ID)
	assert.Equal(t, ast.Span{Start: 0, End: 14}, stmt.Span)

	want := &ast.LetStmt{
		Var:   &ast.Ident{Span: ast.Span{Start: 4, End: 9}, Name: "l:var", NameSpan: ast.Span{Start: 4, End: 9}},
		Op:    token.ASSIGN,
		Value: &ast.Number{Span: ast.Span{Start: 12, End: 14}, Literal: "15", Value: 15},
	}
	if diff := cmp.Diff(want, stmt.Kind); diff != "" {
		t.Errorf("let statement mismatch (-want +got):\n%s", diff)
	}
}

func TestLetMissingOperator(t *testing.T) {
	program, err := Parse("let l:var ! 15")
	assert.Error(t, err)
	assert.Empty(t, program.Stmts)

	errs := ErrorList(err)
	assert.Len(t, errs, 1)
	assert.Equal(t, ErrUnexpectedToken, errs[0].Code)
	assert.Equal(t, "expected assign operator, found `!`", errs[0].Message)
	assert.Equal(t, token.Range{
		Start: token.Position{Line: 0, Character: 10},
		End:   token.Position{Line: 0, Character: 11},
	}, errs[0].Position)
	assert.Equal(t, "0:10-0:11: expected assign operator, found `!`", err.Error())
}

func TestFilenameInErrors(t *testing.T) {
	_, err := Parse("let x ! 1", WithFilename("plugin.vim"))
	assert.Error(t, err)
	errs := ErrorList(err)
	assert.Len(t, errs, 1)
	assert.Equal(t, "plugin.vim", errs[0].File)
	assert.True(t, strings.HasPrefix(err.Error(), "plugin.vim:0:6-0:7: "))
}

func TestQuotedQuote(t *testing.T) {
	input := "'That''s enough.'"
	tokens := lexer.Lex(input)
	assert.Len(t, tokens, 1)
	assert.Equal(t, token.STRING, tokens[0].Type)
	assert.Equal(t, input, input[tokens[0].Start:tokens[0].End])

	x, err := ParseExpr(input)
	assert.NoError(t, err)
	str, ok := x.(*ast.String)
	assert.True(t, ok)
	assert.Equal(t, input, str.Raw)
	assert.Equal(t, "That's enough.", str.Value)
}

func TestChoose(t *testing.T) {
	x, err := ParseExpr("a ? b : c")
	assert.NoError(t, err)

	ident := func(name string, start int) *ast.Ident {
		span := ast.Span{Start: start, End: start + len(name)}
		return &ast.Ident{Span: span, Name: name, NameSpan: span}
	}
	want := &ast.Choose{
		Span: ast.Span{Start: 0, End: 9},
		Cond: ident("a", 0),
		Lhs:  ident("b", 4),
		Rhs:  ident("c", 8),
	}
	if diff := cmp.Diff(want, x); diff != "" {
		t.Errorf("choose mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatPrecedence(t *testing.T) {
	x, err := ParseExpr("1 + 2 - 3 * 4 / 5")
	assert.NoError(t, err)
	assert.Equal(t, "((((1 + 2) - 3) * 4) / 5)", x.String())

	outer, ok := x.(*ast.Infix)
	assert.True(t, ok)
	assert.Equal(t, token.SLASH, outer.Op)
	assert.Equal(t, ast.Span{Start: 0, End: 17}, outer.Span)
}

func TestParseExprTrailingInput(t *testing.T) {
	_, err := ParseExpr("a b")
	assert.Error(t, err)
	assert.Equal(t, "expected end of file, found `b`", ErrorList(err)[0].Message)

	_, err = ParseExpr("a + 1\n\n")
	assert.NoError(t, err)
}

func TestIfStatement(t *testing.T) {
	program := mustParse(t, "if a\n call f()\nendif")
	assert.Len(t, program.Stmts, 1)

	stmt := program.Stmts[0]
	assert.Equal(t, ast.Span{Start: 0, End: 20}, stmt.Span)
	ifStmt, ok := stmt.Kind.(*ast.IfStmt)
	assert.True(t, ok)
	assert.Equal(t, "a", ifStmt.Cond.String())
	assert.Nil(t, ifStmt.Else)

	assert.Len(t, ifStmt.Then, 1)
	inner := ifStmt.Then[0]
	assert.Equal(t, ast.Span{Start: 6, End: 15}, inner.Span)
	call, ok := inner.Kind.(*ast.CallStmt)
	assert.True(t, ok)
	assert.Equal(t, "f", call.Name.Name)
	assert.Empty(t, call.Args)

	// statements are numbered as they complete
	assert.Equal(t, ast.NodeID(1), inner.ID)
	assert.Equal(t, ast.NodeID(2), stmt.ID)
}

func TestElseIfChain(t *testing.T) {
	for n := 0; n <= 5; n++ {
		t.Run(fmt.Sprintf("depth %d", n), func(t *testing.T) {
			var src strings.Builder
			src.WriteString("if c0\n")
			for i := 1; i <= n; i++ {
				fmt.Fprintf(&src, "elseif c%d\n  let x = %d\n", i, i)
			}
			src.WriteString("else\n  let x = 0\nendif\n")

			program := mustParse(t, src.String())
			assert.Len(t, program.Stmts, 1)
			ifStmt := program.Stmts[0].Kind.(*ast.IfStmt)

			depth := 0
			for {
				assert.Equal(t, fmt.Sprintf("c%d", depth), ifStmt.Cond.String())
				elseIf, ok := ifStmt.Else.(*ast.ElseIf)
				if !ok {
					break
				}
				depth++
				ifStmt = elseIf.If
			}
			assert.Equal(t, n, depth)
			final, ok := ifStmt.Else.(*ast.Else)
			assert.True(t, ok)
			assert.Len(t, final.Body, 1)
			assert.Equal(t, "let x = 0", final.Body[0].String())
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"call s:Foo(1, 'x')", "call s:Foo(1, 'x')"},
		{"call F(1, 2,)", "call F(1, 2)"},
		{"execute 'normal' . x", "execute ('normal' . x)"},
		{"execute 'a' 'b'", "execute 'a' 'b'"},
		{"return", "return"},
		{"return a + 1", "return (a + 1)"},
		{"set nocompatible", "set nocompatible"},
		{"set ts=4", "set ts=4"},
		{"set ft=vim", "set ft=vim"},
		{"break", "break"},
		{"continue", "continue"},
		{"finish", "finish"},
		{"let s ..= 'x'", "let s ..= 'x'"},
		{"let i += 1", "let i += 1"},
		{"let &l:sw = @a . $HOME", "let &l:sw = (@a . $HOME)"},
		{"let d['k'][0:1] = x", "let d['k'][0 : 1] = x"},
		{"let y = x[:]", "let y = x[:]"},
		{"let y = x[1:]", "let y = x[1 :]"},
		{"let y = x[:2]", "let y = x[: 2]"},
		{"let y = d['f'](1)", "let y = d['f'](1)"},
		{"let y = f()[0]", "let y = f()[0]"},
		{"let d = {'a': 1, 'b': [2],}", "let d = {'a': 1, 'b': [2]}"},
		{"let d = {}", "let d = {}"},
		{"let x = -a + !b", "let x = ((-a) + (!b))"},
		{"let x = (a + b) * c", "let x = (((a + b)) * c)"},
		{"let x = a ? b : c ? d : e", "let x = (a ? b : (c ? d : e))"},
		{"let x = a =~# '^x' || b !=? 'y'", "let x = (((a =~# '^x') || b) !=? 'y')"},
		{"let a = [1,\n  \\ 2]", "let a = [1, 2]"},
		{"let a = 1 | let b = 2", "let a = 1\nlet b = 2"},
		{"let a = 1\n\nlet b = 2", "let a = 1\n\nlet b = 2"},
		{"while i < 10\n let i += 1\nendwhile", "while (i < 10)\n  let i += 1\nendwhile"},
		{"for [k, v] in items(d)\nendfor", "for [k, v] in items(d)\nendfor"},
		{"for x in range(3)\n call add(l, x)\nendfor", "for x in range(3)\n  call add(l, x)\nendfor"},
		{
			"function! s:F(a, ...) abort\n return a:a\nendfunction",
			"function! s:F(a, ...) abort\n  return a:a\nendfunction",
		},
		{
			"function F() dict range closure\nendfunction",
			"function F() range dict closure\nendfunction",
		},
		{
			"if a ==# b\n let x = 1\nelse\n let x = 2\nendif",
			"if (a ==# b)\n  let x = 1\nelse\n  let x = 2\nendif",
		},
		{"if a\nelseif b\nendif", "if a\nelseif b\nendif"},
		{
			"try\n call f()\ncatch /E123/\n call g()\ncatch\nfinally\n let x = 1\nendtry",
			"try\n  call f()\ncatch /E123/\n  call g()\ncatch\nfinally\n  let x = 1\nendtry",
		},
		{"try\nendtry", "try\nendtry"},
		{"\" a comment\nlet x = 1 \" trailing", "\nlet x = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := mustParse(t, tt.input)
			assert.Equal(t, tt.expected, program.String())
		})
	}
}

func TestFunctionStatement(t *testing.T) {
	program := mustParse(t, "function! s:Name(a, b) abort\n  return a:a + a:b\nendfunction\n")
	assert.Len(t, program.Stmts, 1)
	fn, ok := program.Stmts[0].Kind.(*ast.FunctionStmt)
	assert.True(t, ok)

	assert.Equal(t, "s:Name", fn.Name.Name)
	assert.Equal(t, ast.Span{Start: 10, End: 16}, fn.Name.NameSpan)
	assert.Equal(t, []string{"a", "b"}, fn.ParamNames())
	assert.True(t, fn.Overwrite)
	assert.True(t, fn.Abort)
	assert.False(t, fn.Dict)
	assert.Len(t, fn.Body, 1)
	_, ok = fn.Body[0].Kind.(*ast.ReturnStmt)
	assert.True(t, ok, "expected ReturnStmt, got %T", fn.Body[0].Kind)
}

func TestForListVariable(t *testing.T) {
	program := mustParse(t, "for [a, b] in pairs\nendfor")
	stmt := program.Stmts[0].Kind.(*ast.ForStmt)
	list, ok := stmt.Var.(*ast.ListVar)
	assert.True(t, ok)
	assert.Len(t, list.Idents(), 2)
	assert.Equal(t, ast.Span{Start: 5, End: 6}, list.Names[0].NameSpan)
	assert.Equal(t, "pairs", stmt.Range.String())
}

func TestStringDecoding(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`'plain'`, "plain"},
		{`''`, ""},
		{`'it''s'`, "it's"},
		{`'a\nb'`, `a\nb`},
		{"'one\n  \\ two'", "one two"},
		{"'one\r\n\\two'", "onetwo"},
		{`"a\tb"`, "a\tb"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"\x41é"`, "Aé"},
		{`"\<CR>"`, "<CR>"},
		{`"\q"`, "q"},
		{`"\xZZ"`, "xZZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			// a double quote opening a line is a comment
			program := mustParse(t, "let x = "+tt.input)
			assert.Len(t, program.Stmts, 1)
			str, ok := program.Stmts[0].Kind.(*ast.LetStmt).Value.(*ast.String)
			assert.True(t, ok)
			assert.Equal(t, tt.input, str.Raw)
			assert.Equal(t, tt.expected, str.Value)
		})
	}
}

func TestFindToken(t *testing.T) {
	p := New(lexer.New("let l:var = 15\ncall F(l:var)"))
	p.Parse()
	assert.Empty(t, p.Errors())

	tok, ok := p.FindToken(token.Position{Line: 1, Character: 9})
	assert.True(t, ok)
	assert.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "l:var", p.Text(tok))

	// a cursor just past a name still finds it
	tok, ok = p.FindToken(token.Position{Line: 1, Character: 12})
	assert.True(t, ok)
	assert.Equal(t, "l:var", p.Text(tok))

	tok, ok = p.FindToken(token.Position{Line: 0, Character: 0})
	assert.True(t, ok)
	assert.Equal(t, token.LET, tok.Type)

	_, ok = p.FindToken(token.Position{Line: 7, Character: 0})
	assert.False(t, ok)
}

func TestResolveLocation(t *testing.T) {
	p := New(lexer.New("let a = 1\ncall F()"))
	program := p.Parse()
	assert.Len(t, program.Stmts, 2)

	assert.Equal(t, token.Range{
		Start: token.Position{Line: 1, Character: 0},
		End:   token.Position{Line: 1, Character: 8},
	}, p.ResolveLocation(program.Stmts[1].Span))
	assert.Equal(t, "0:4-0:5", p.ResolveLocation(ast.Span{Start: 4, End: 5}).String())
}

func TestSpansNest(t *testing.T) {
	src := `function! F(a, ...) abort
  let l:d = {'k': [a:a, a:0 ? 1 : -2]}
  for [k, v] in items(l:d)
    if k ==# 'x' | call g(v[1:], v[:2]) | endif
  endfor
  try
    execute 'echo' d['k'](1)
  catch /E1/
    return 0
  finally
    set ts=4
  endtry
endfunction
while 1
  break
endwhile
`
	program := mustParse(t, src)

	var check func(n ast.Node)
	check = func(n ast.Node) {
		parent := ast.SpanOf(n)
		assert.LessOrEqual(t, parent.Start, parent.End)
		for _, child := range ast.Children(n) {
			assert.True(t, parent.Contains(ast.SpanOf(child)),
				"%T %v does not contain %T %v", n, parent, child, ast.SpanOf(child))
			check(child)
		}
	}
	check(program)
}

func TestNodeIDs(t *testing.T) {
	program := mustParse(t, "if a\n let b = 1\n while c\n  break\n endwhile\nendif\nlet d = 2\n")

	seen := map[ast.NodeID]bool{}
	var check func(s *ast.Stmt)
	check = func(s *ast.Stmt) {
		assert.False(t, seen[s.ID], "duplicate id %d", s.ID)
		seen[s.ID] = true
		for _, child := range ast.Children(s) {
			if cs, ok := child.(*ast.Stmt); ok {
				assert.True(t, cs.ID < s.ID, "child %d not after parent %d", cs.ID, s.ID)
				check(cs)
			}
		}
	}
	for i, s := range program.Stmts {
		if i > 0 {
			assert.True(t, program.Stmts[i-1].ID < s.ID)
		}
		check(s)
	}
	assert.Len(t, seen, 5)
	for id := ast.NodeID(1); id <= 5; id++ {
		assert.True(t, seen[id])
	}
}

func TestIndependentParsers(t *testing.T) {
	// each parse starts numbering again
	a := mustParse(t, "let a = 1\nlet b = 2")
	b := mustParse(t, "let c = 3")
	assert.Equal(t, ast.NodeID(2), a.Stmts[1].ID)
	assert.Equal(t, ast.NodeID(1), b.Stmts[0].ID)
}

func TestEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\" only a comment"} {
		program := mustParse(t, input)
		assert.Empty(t, program.Stmts)
	}
}

func TestFindTokenPrefersIdentifier(t *testing.T) {
	p := New(lexer.New("for [k, v] in l\nendfor"))
	p.Parse()
	assert.Empty(t, p.Errors())

	tok, ok := p.FindToken(token.Position{Line: 0, Character: 5})
	assert.True(t, ok)
	assert.Equal(t, "k", p.Text(tok))

	tok, ok = p.FindToken(token.Position{Line: 0, Character: 4})
	assert.True(t, ok)
	assert.Equal(t, token.LBRACKET, tok.Type)
}
