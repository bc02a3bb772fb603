package ast

import (
	"strings"

	"github.com/vimlsp/vimscript/internal/token"
)

// LetStmt assigns to a variable, option, register or subscript:
// "let l:var += 15".
type LetStmt struct {
	Var   Expr
	Op    token.Type
	Value Expr
}

func (*LetStmt) stmtKind() {}

func (s *LetStmt) String() string {
	return "let " + s.Var.String() + " " + string(s.Op) + " " + s.Value.String()
}

// CallStmt calls a function and discards its result: "call f(1, 2)".
type CallStmt struct {
	Name *Ident
	Args []Expr
}

func (*CallStmt) stmtKind() {}

func (s *CallStmt) String() string {
	return "call " + s.Name.String() + "(" + exprsString(s.Args) + ")"
}

// ExecuteStmt evaluates its arguments and runs the result as a command.
type ExecuteStmt struct {
	Args []Expr
}

func (*ExecuteStmt) stmtKind() {}

func (s *ExecuteStmt) String() string {
	parts := []string{"execute"}
	for _, arg := range s.Args {
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}

// ReturnStmt returns from a function. Value is nil for a bare return.
type ReturnStmt struct {
	Value Expr
}

func (*ReturnStmt) stmtKind() {}

func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// ElseCond is the tail of an if statement: nil, an *Else block or an
// *ElseIf continuing the chain.
type ElseCond interface {
	elseCond()
	String() string
}

// Else is a trailing else block.
type Else struct {
	Body []*Stmt
}

func (*Else) elseCond() {}

func (e *Else) String() string { return "else\n" + blockString(e.Body) }

// ElseIf continues an if statement with another condition.
type ElseIf struct {
	If *IfStmt
}

func (*ElseIf) elseCond() {}

func (e *ElseIf) String() string { return "else" + e.If.String() }

// IfStmt is a conditional. Chains of elseif are nested through Else.
type IfStmt struct {
	Cond Expr
	Then []*Stmt
	Else ElseCond
}

func (*IfStmt) stmtKind() {}

func (s *IfStmt) String() string {
	out := "if " + s.Cond.String() + "\n" + blockString(s.Then)
	if s.Else != nil {
		// an ElseIf renders its own endif
		if elseIf, ok := s.Else.(*ElseIf); ok {
			return out + elseIf.String()
		}
		out += s.Else.String()
	}
	return out + "endif"
}

// WhileStmt loops while Cond is true.
type WhileStmt struct {
	Cond Expr
	Body []*Stmt
}

func (*WhileStmt) stmtKind() {}

func (s *WhileStmt) String() string {
	return "while " + s.Cond.String() + "\n" + blockString(s.Body) + "endwhile"
}

// FunctionStmt defines a function. Overwrite is set for "function!". A
// variadic parameter is represented by an Ident named "...".
type FunctionStmt struct {
	Name      *Ident
	Params    []*Ident
	Body      []*Stmt
	Overwrite bool
	Abort     bool
	Range     bool
	Dict      bool
	Closure   bool
}

func (*FunctionStmt) stmtKind() {}

// ParamNames returns the parameter names in order.
func (s *FunctionStmt) ParamNames() []string {
	names := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		names = append(names, p.Name)
	}
	return names
}

// Header returns the first line of the definition, e.g.
// "function! s:Name(a, b) abort".
func (s *FunctionStmt) Header() string {
	var out strings.Builder
	out.WriteString("function")
	if s.Overwrite {
		out.WriteString("!")
	}
	out.WriteString(" ")
	out.WriteString(s.Name.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(s.ParamNames(), ", "))
	out.WriteString(")")
	for _, mod := range []struct {
		set  bool
		name string
	}{{s.Range, "range"}, {s.Abort, "abort"}, {s.Dict, "dict"}, {s.Closure, "closure"}} {
		if mod.set {
			out.WriteString(" ")
			out.WriteString(mod.name)
		}
	}
	return out.String()
}

func (s *FunctionStmt) String() string {
	return s.Header() + "\n" + blockString(s.Body) + "endfunction"
}

// LoopVariable is the target of a for loop: a *SingleVar or a *ListVar.
type LoopVariable interface {
	Idents() []*Ident
	String() string
}

// SingleVar binds each item to one name: "for x in list".
type SingleVar struct {
	Name *Ident
}

func (v *SingleVar) Idents() []*Ident { return []*Ident{v.Name} }

func (v *SingleVar) String() string { return v.Name.Name }

// ListVar destructures each item: "for [k, v] in items(d)".
type ListVar struct {
	Names []*Ident
}

func (v *ListVar) Idents() []*Ident { return v.Names }

func (v *ListVar) String() string {
	names := make([]string, 0, len(v.Names))
	for _, n := range v.Names {
		names = append(names, n.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// ForStmt iterates over a list.
type ForStmt struct {
	Var   LoopVariable
	Range Expr
	Body  []*Stmt
}

func (*ForStmt) stmtKind() {}

func (s *ForStmt) String() string {
	return "for " + s.Var.String() + " in " + s.Range.String() + "\n" + blockString(s.Body) + "endfor"
}

// CatchClause is one catch block of a try statement. Pattern is the raw
// source text after the catch keyword and is empty for a bare catch.
type CatchClause struct {
	Pattern string
	Body    []*Stmt
}

// TryStmt runs Body, handing exceptions to Catches and always running
// Finally when HasFinally is set.
type TryStmt struct {
	Body       []*Stmt
	Catches    []*CatchClause
	Finally    []*Stmt
	HasFinally bool
}

func (*TryStmt) stmtKind() {}

func (s *TryStmt) String() string {
	out := "try\n" + blockString(s.Body)
	for _, c := range s.Catches {
		out += strings.TrimRight("catch "+c.Pattern, " ") + "\n" + blockString(c.Body)
	}
	if s.HasFinally {
		out += "finally\n" + blockString(s.Finally)
	}
	return out + "endtry"
}

// SetStmt sets an editor option. Value is empty when no "=value" is given.
type SetStmt struct {
	Option string
	Value  string
}

func (*SetStmt) stmtKind() {}

func (s *SetStmt) String() string {
	if s.Value == "" {
		return "set " + s.Option
	}
	return "set " + s.Option + "=" + s.Value
}

// BreakStmt leaves the innermost loop.
type BreakStmt struct{}

func (*BreakStmt) stmtKind() {}

func (*BreakStmt) String() string { return "break" }

// ContinueStmt starts the next iteration of the innermost loop.
type ContinueStmt struct{}

func (*ContinueStmt) stmtKind() {}

func (*ContinueStmt) String() string { return "continue" }

// FinishStmt stops sourcing the current script.
type FinishStmt struct{}

func (*FinishStmt) stmtKind() {}

func (*FinishStmt) String() string { return "finish" }

// EmptyStmt is a blank line.
type EmptyStmt struct{}

func (*EmptyStmt) stmtKind() {}

func (*EmptyStmt) String() string { return "" }
