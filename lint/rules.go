package lint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/format"
	"github.com/vimlsp/vimscript/internal/token"
)

// Rule names.
const (
	RuleSyntax             = "syntax"
	RuleMissingAbort       = "missing-abort"
	RuleImplicitScope      = "implicit-scope"
	RuleCaseSensitivity    = "case-sensitivity"
	RuleSelfCompare        = "self-compare"
	RuleEmptyBlock         = "empty-block"
	RuleDuplicateFunction  = "duplicate-function"
	RuleTrailingWhitespace = "trailing-whitespace"
	RuleLineTooLong        = "line-too-long"
)

type rule struct {
	name  string
	doc   string
	check func(*checker)
}

var rules = []rule{
	{RuleSyntax, "the file does not parse", checkSyntax},
	{RuleMissingAbort, "function without the abort modifier", checkMissingAbort},
	{RuleImplicitScope, "script-level variable without a scope prefix", checkImplicitScope},
	{RuleCaseSensitivity, "comparison that depends on 'ignorecase'", checkCaseSensitivity},
	{RuleSelfCompare, "expression compared with itself", checkSelfCompare},
	{RuleEmptyBlock, "if, while or for block without statements", checkEmptyBlock},
	{RuleDuplicateFunction, "function defined twice without function!", checkDuplicateFunction},
	{RuleTrailingWhitespace, "whitespace at the end of a line", checkTrailingWhitespace},
	{RuleLineTooLong, "line longer than the configured maximum", checkLineTooLong},
}

// Rules returns the names and descriptions of all rules.
func Rules() map[string]string {
	out := make(map[string]string, len(rules))
	for _, r := range rules {
		out[r.name] = r.doc
	}
	return out
}

func checkSyntax(c *checker) {
	for _, e := range c.errors {
		issue := c.addRange(e.Position, LevelError, e.Message)
		issue.Code = string(e.Code)
		issue.Hint = e.Hint
	}
}

// eachStmt calls f for every statement in stmts and their blocks.
func eachStmt(stmts []*ast.Stmt, f func(*ast.Stmt)) {
	for _, s := range stmts {
		ast.Inspect(s, func(n ast.Node) bool {
			if stmt, ok := n.(*ast.Stmt); ok {
				f(stmt)
				return true
			}
			return false
		})
	}
}

func checkMissingAbort(c *checker) {
	eachStmt(c.program.Stmts, func(s *ast.Stmt) {
		if fn, ok := s.Kind.(*ast.FunctionStmt); ok && !fn.Abort {
			c.add(fn.Name.NameSpan, LevelWarning,
				fmt.Sprintf("function `%s` has no `abort` modifier", fn.Name.Name)).Hint =
				"without abort the function keeps running after an error"
		}
	})
}

var scopePrefixes = []string{"g:", "s:", "b:", "w:", "t:", "l:", "a:", "v:"}

// hasScope reports whether name is scoped, or names an option, environment
// variable or register.
func hasScope(name string) bool {
	if strings.ContainsAny(name[:1], "&$@") {
		return true
	}
	for _, prefix := range scopePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	// autoload variables
	return strings.Contains(name, "#")
}

// checkImplicitScope reports assignments outside of functions to names
// without a scope, which silently become global variables.
func checkImplicitScope(c *checker) {
	var visit func(stmts []*ast.Stmt)
	report := func(id *ast.Ident) {
		if id.Name == "" || hasScope(id.Name) {
			return
		}
		c.add(id.NameSpan, LevelWarning,
			fmt.Sprintf("`%s` has no scope prefix and is global", id.Name)).Hint =
			fmt.Sprintf("use `s:%s` for a script-local or `g:%s` for a global variable", id.Name, id.Name)
	}
	visit = func(stmts []*ast.Stmt) {
		for _, s := range stmts {
			switch k := s.Kind.(type) {
			case *ast.FunctionStmt:
				// names inside functions are local
			case *ast.LetStmt:
				if id, ok := k.Var.(*ast.Ident); ok {
					report(id)
				}
			case *ast.ForStmt:
				for _, id := range k.Var.Idents() {
					report(id)
				}
				visit(k.Body)
			case *ast.IfStmt:
				for ifStmt := k; ifStmt != nil; {
					visit(ifStmt.Then)
					switch e := ifStmt.Else.(type) {
					case *ast.ElseIf:
						ifStmt = e.If
						continue
					case *ast.Else:
						visit(e.Body)
					}
					ifStmt = nil
				}
			case *ast.WhileStmt:
				visit(k.Body)
			case *ast.TryStmt:
				visit(k.Body)
				for _, clause := range k.Catches {
					visit(clause.Body)
				}
				visit(k.Finally)
			}
		}
	}
	visit(c.program.Stmts)
}

// ignoreCaseOperators follow the 'ignorecase' option when comparing
// strings.
var ignoreCaseOperators = map[token.Type]string{
	token.EQ:        "==",
	token.NOT_EQ:    "!=",
	token.MATCH:     "=~",
	token.NOT_MATCH: "!~",
}

func isComparison(t token.Type) bool {
	switch t {
	case token.EQ, token.EQ_CASE, token.EQ_ICASE,
		token.NOT_EQ, token.NOT_EQ_CASE, token.NOT_EQ_ICASE,
		token.MATCH, token.MATCH_CASE, token.MATCH_ICASE,
		token.NOT_MATCH, token.NOT_MATCH_CASE, token.NOT_MATCH_ICASE,
		token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS:
		return true
	}
	return false
}

func eachInfix(program *ast.Program, f func(*ast.Infix)) {
	ast.Inspect(program, func(n ast.Node) bool {
		if x, ok := n.(*ast.Infix); ok {
			f(x)
		}
		return true
	})
}

func checkCaseSensitivity(c *checker) {
	eachInfix(c.program, func(x *ast.Infix) {
		op, ok := ignoreCaseOperators[x.Op]
		if !ok {
			return
		}
		// numbers compare the same either way
		_, leftNumber := x.Left.(*ast.Number)
		_, rightNumber := x.Right.(*ast.Number)
		if leftNumber || rightNumber {
			return
		}
		c.add(ast.SpanOf(x), LevelWarning,
			fmt.Sprintf("`%s` depends on the 'ignorecase' option", op)).Hint =
			fmt.Sprintf("use `%s#` to match case or `%s?` to ignore case", op, op)
	})
}

func checkSelfCompare(c *checker) {
	eachInfix(c.program, func(x *ast.Infix) {
		if !isComparison(x.Op) {
			return
		}
		left := format.Expr(x.Left)
		if left == format.Expr(x.Right) {
			c.add(ast.SpanOf(x), LevelWarning, fmt.Sprintf("comparing `%s` to itself", left))
		}
	})
}

// isEmpty reports whether a block holds nothing but blank lines and
// comments.
func isEmpty(stmts []*ast.Stmt) bool {
	for _, s := range stmts {
		if _, ok := s.Kind.(*ast.EmptyStmt); !ok {
			return false
		}
	}
	return true
}

func checkEmptyBlock(c *checker) {
	eachStmt(c.program.Stmts, func(s *ast.Stmt) {
		switch k := s.Kind.(type) {
		case *ast.IfStmt:
			for ifStmt := k; ifStmt != nil; {
				if isEmpty(ifStmt.Then) {
					c.add(s.Span, LevelWarning, "empty if block")
				}
				switch e := ifStmt.Else.(type) {
				case *ast.ElseIf:
					ifStmt = e.If
					continue
				case *ast.Else:
					if isEmpty(e.Body) {
						c.add(s.Span, LevelWarning, "empty else block")
					}
				}
				ifStmt = nil
			}
		case *ast.WhileStmt:
			if isEmpty(k.Body) {
				c.add(s.Span, LevelWarning, "empty while block")
			}
		case *ast.ForStmt:
			if isEmpty(k.Body) {
				c.add(s.Span, LevelWarning, "empty for block")
			}
		}
	})
}

func checkDuplicateFunction(c *checker) {
	defined := map[string]*ast.Ident{}
	eachStmt(c.program.Stmts, func(s *ast.Stmt) {
		fn, ok := s.Kind.(*ast.FunctionStmt)
		if !ok {
			return
		}
		prev, seen := defined[fn.Name.Name]
		if !seen {
			defined[fn.Name.Name] = fn.Name
			return
		}
		if fn.Overwrite {
			return
		}
		line := c.lines.Position(prev.NameSpan.Start).Line + 1
		c.add(fn.Name.NameSpan, LevelError,
			fmt.Sprintf("function `%s` is already defined on line %d", fn.Name.Name, line)).Hint =
			"use `function!` to redefine it"
	})
}

func checkTrailingWhitespace(c *checker) {
	for n := 0; n < c.lines.LineCount(); n++ {
		line := c.lines.Line(n)
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) {
			continue
		}
		start := utf8.RuneCountInString(trimmed)
		c.addRange(token.Range{
			Start: token.Position{Line: n, Character: start},
			End:   token.Position{Line: n, Character: utf8.RuneCountInString(line)},
		}, LevelWarning, "trailing whitespace")
	}
}

func checkLineTooLong(c *checker) {
	limit := c.linter.maxLineLength
	if limit <= 0 {
		return
	}
	for n := 0; n < c.lines.LineCount(); n++ {
		length := utf8.RuneCountInString(c.lines.Line(n))
		if length <= limit {
			continue
		}
		c.addRange(token.Range{
			Start: token.Position{Line: n, Character: limit},
			End:   token.Position{Line: n, Character: length},
		}, LevelWarning, fmt.Sprintf("line exceeds %d characters (%d)", limit, length))
	}
}
