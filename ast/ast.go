// Package ast defines the abstract syntax tree representation of Vimscript
// code.
//
// Every node carries the byte span of the source it was parsed from.
// Statements are wrapped in a Stmt that additionally holds a NodeID, which
// is unique within one parse.
package ast

import "strings"

// Span is a half-open [Start, End) byte range in the source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes in the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// NodeID identifies a statement within one parse.
type NodeID int

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the byte offset of the first character of the node.
	Pos() int

	// End returns the byte offset immediately after the node.
	End() int

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// StmtKind is the kind-specific payload of a statement. The set of kinds is
// closed; see the *Stmt types in statements.go.
type StmtKind interface {
	stmtKind()
	String() string
}

// Program is the root node of a parsed file.
type Program struct {
	Stmts []*Stmt
}

func (p *Program) Pos() int {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return 0
}

func (p *Program) End() int {
	if n := len(p.Stmts); n > 0 {
		return p.Stmts[n-1].End()
	}
	return 0
}

func (p *Program) String() string {
	lines := make([]string, 0, len(p.Stmts))
	for _, s := range p.Stmts {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}

// Stmt is one statement: its identifier, the span from its first token to
// its terminator, and its payload.
type Stmt struct {
	ID   NodeID
	Span Span
	Kind StmtKind
}

func (s *Stmt) Pos() int { return s.Span.Start }
func (s *Stmt) End() int { return s.Span.End }

func (s *Stmt) String() string {
	if s.Kind == nil {
		return ""
	}
	return s.Kind.String()
}

// SpanOf returns the span of any node.
func SpanOf(n Node) Span {
	return Span{Start: n.Pos(), End: n.End()}
}

func exprsString(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

func blockString(stmts []*Stmt) string {
	var out strings.Builder
	for _, s := range stmts {
		for _, line := range strings.Split(s.String(), "\n") {
			out.WriteString("  ")
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return out.String()
}
