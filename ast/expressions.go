package ast

import "github.com/vimlsp/vimscript/internal/token"

// Ident is an expression node that refers to a variable, option, register
// or function by name. NameSpan covers exactly the name token and is the
// range replaced when renaming.
type Ident struct {
	Span     Span
	Name     string
	NameSpan Span
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() int { return x.Span.Start }
func (x *Ident) End() int { return x.Span.End }

func (x *Ident) String() string { return x.Name }

// Infix is a binary operator expression. All operators share one precedence
// level and associate to the left.
type Infix struct {
	Span  Span
	Left  Expr
	Op    token.Type
	Right Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() int { return x.Span.Start }
func (x *Infix) End() int { return x.Span.End }

func (x *Infix) String() string {
	return "(" + x.Left.String() + " " + string(x.Op) + " " + x.Right.String() + ")"
}

// Unary is a prefix operator expression: -x or !x.
type Unary struct {
	Span Span
	Op   token.Type
	X    Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() int { return x.Span.Start }
func (x *Unary) End() int { return x.Span.End }

func (x *Unary) String() string { return "(" + string(x.Op) + x.X.String() + ")" }

// Paren is a parenthesized expression.
type Paren struct {
	Span Span
	X    Expr
}

func (x *Paren) exprNode() {}

func (x *Paren) Pos() int { return x.Span.Start }
func (x *Paren) End() int { return x.Span.End }

func (x *Paren) String() string { return "(" + x.X.String() + ")" }

// Call is a function call expression.
type Call struct {
	Span   Span
	Callee Expr
	Args   []Expr
}

func (x *Call) exprNode() {}

func (x *Call) Pos() int { return x.Span.Start }
func (x *Call) End() int { return x.Span.End }

func (x *Call) String() string { return x.Callee.String() + "(" + exprsString(x.Args) + ")" }

// SubscriptIndex is either an *Index or a *Sublist.
type SubscriptIndex interface {
	subscriptIndex()
	String() string
}

// Index selects a single element: a[i].
type Index struct {
	X Expr
}

func (*Index) subscriptIndex() {}

func (x *Index) String() string { return x.X.String() }

// Sublist selects a range of elements: a[from:to]. Either bound may be nil.
type Sublist struct {
	Left  Expr
	Right Expr
}

func (*Sublist) subscriptIndex() {}

func (x *Sublist) String() string {
	out := ""
	if x.Left != nil {
		out += x.Left.String() + " "
	}
	out += ":"
	if x.Right != nil {
		out += " " + x.Right.String()
	}
	return out
}

// ArraySubscript indexes or slices a list, string or dictionary.
type ArraySubscript struct {
	Span  Span
	Base  Expr
	Index SubscriptIndex
}

func (x *ArraySubscript) exprNode() {}

func (x *ArraySubscript) Pos() int { return x.Span.Start }
func (x *ArraySubscript) End() int { return x.Span.End }

func (x *ArraySubscript) String() string {
	return x.Base.String() + "[" + x.Index.String() + "]"
}

// Choose is the ternary expression cond ? lhs : rhs.
type Choose struct {
	Span Span
	Cond Expr
	Lhs  Expr
	Rhs  Expr
}

func (x *Choose) exprNode() {}

func (x *Choose) Pos() int { return x.Span.Start }
func (x *Choose) End() int { return x.Span.End }

func (x *Choose) String() string {
	return "(" + x.Cond.String() + " ? " + x.Lhs.String() + " : " + x.Rhs.String() + ")"
}
