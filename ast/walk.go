package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Children returns the direct children of node in source order. The
// payload of a statement contributes its expressions, names and nested
// statements.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		switch n := n.(type) {
		case nil:
		case *Stmt:
			if n != nil {
				out = append(out, n)
			}
		case *Ident:
			if n != nil {
				out = append(out, n)
			}
		default:
			out = append(out, n)
		}
	}
	addExprs := func(exprs []Expr) {
		for _, e := range exprs {
			add(e)
		}
	}
	addStmts := func(stmts []*Stmt) {
		for _, s := range stmts {
			add(s)
		}
	}

	switch n := node.(type) {
	case *Program:
		addStmts(n.Stmts)
	case *Stmt:
		switch k := n.Kind.(type) {
		case *LetStmt:
			add(k.Var)
			add(k.Value)
		case *CallStmt:
			add(k.Name)
			addExprs(k.Args)
		case *ExecuteStmt:
			addExprs(k.Args)
		case *ReturnStmt:
			if k.Value != nil {
				add(k.Value)
			}
		case *IfStmt:
			for ifStmt := k; ifStmt != nil; {
				add(ifStmt.Cond)
				addStmts(ifStmt.Then)
				switch e := ifStmt.Else.(type) {
				case *Else:
					addStmts(e.Body)
					ifStmt = nil
				case *ElseIf:
					ifStmt = e.If
				default:
					ifStmt = nil
				}
			}
		case *WhileStmt:
			add(k.Cond)
			addStmts(k.Body)
		case *FunctionStmt:
			add(k.Name)
			for _, p := range k.Params {
				add(p)
			}
			addStmts(k.Body)
		case *ForStmt:
			for _, id := range k.Var.Idents() {
				add(id)
			}
			add(k.Range)
			addStmts(k.Body)
		case *TryStmt:
			addStmts(k.Body)
			for _, c := range k.Catches {
				addStmts(c.Body)
			}
			addStmts(k.Finally)
		}

	case *Infix:
		add(n.Left)
		add(n.Right)
	case *Unary:
		add(n.X)
	case *Paren:
		add(n.X)
	case *Call:
		add(n.Callee)
		addExprs(n.Args)
	case *ArraySubscript:
		add(n.Base)
		switch idx := n.Index.(type) {
		case *Index:
			add(idx.X)
		case *Sublist:
			if idx.Left != nil {
				add(idx.Left)
			}
			if idx.Right != nil {
				add(idx.Right)
			}
		}
	case *Array:
		addExprs(n.Elements)
	case *Dictionary:
		for _, entry := range n.Entries {
			add(entry.Key)
			add(entry.Value)
		}
	case *Choose:
		add(n.Cond)
		add(n.Lhs)
		add(n.Rhs)
	}
	return out
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
