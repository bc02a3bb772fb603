package format

import (
	"sort"
	"strings"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/token"
)

// printer writes statements line by line. When it is given the source it
// also places the source comments: a comment alone on its line is printed
// where its (otherwise empty) line was, any other comment trails the line
// it was found on.
type printer struct {
	out  strings.Builder
	unit string

	src      string
	tokens   []token.Token
	comments []lexer.Comment
	next     int

	// lineComment holds the end offsets of comments that fill a line of
	// their own. Such a line parses as an empty statement starting at the
	// comment's end.
	lineComment map[int]bool
}

// newPrinter returns a printer placing the comments of l, which may be nil.
func newPrinter(cfg config, l *lexer.Lexer) *printer {
	p := &printer{unit: cfg.unit()}
	if l != nil && len(l.Comments()) > 0 {
		p.src = l.Input()
		p.tokens = l.Tokens()
		p.comments = l.Comments()
		p.lineComment = map[int]bool{}
	}
	return p
}

func (p *printer) String() string {
	return p.out.String()
}

func (p *printer) indent(depth int) {
	for i := 0; i < depth; i++ {
		p.out.WriteString(p.unit)
	}
}

func (p *printer) commentText(c lexer.Comment) string {
	return strings.TrimRight(p.src[c.Start:c.End], " \t\r")
}

// line writes one line of output followed by the comments found before
// bound that trail a line of code.
func (p *printer) line(depth int, text string, bound int) {
	p.indent(depth)
	p.out.WriteString(text)
	for p.next < len(p.comments) {
		c := p.comments[p.next]
		if c.Start >= bound || p.lineComment[c.End] {
			break
		}
		p.out.WriteString(" ")
		p.out.WriteString(p.commentText(c))
		p.next++
	}
	p.out.WriteString("\n")
}

// flushComments writes every remaining comment before bound on a line of
// its own.
func (p *printer) flushComments(bound, depth int) bool {
	wrote := false
	for p.next < len(p.comments) && p.comments[p.next].Start < bound {
		p.indent(depth)
		p.out.WriteString(p.commentText(p.comments[p.next]))
		p.out.WriteString("\n")
		p.next++
		wrote = true
	}
	return wrote
}

func (p *printer) hasCommentBefore(bound int) bool {
	return p.next < len(p.comments) && p.comments[p.next].Start < bound
}

// lineEnd returns the offset of the terminator ending the logical line
// that contains offset from. Without source it returns from.
func (p *printer) lineEnd(from int) (start, end int) {
	if p.tokens == nil {
		return from, from
	}
	i := sort.Search(len(p.tokens), func(i int) bool {
		return p.tokens[i].Start >= from
	})
	for ; i < len(p.tokens); i++ {
		if tok := p.tokens[i]; tok.Type.IsTerminator() {
			return tok.Start, tok.End
		}
	}
	return len(p.src), len(p.src)
}

func (p *printer) markLineComments(stmts []*ast.Stmt) {
	if p.lineComment == nil {
		return
	}
	for _, s := range stmts {
		ast.Inspect(s, func(n ast.Node) bool {
			inner, ok := n.(*ast.Stmt)
			if !ok {
				return false
			}
			if _, empty := inner.Kind.(*ast.EmptyStmt); empty {
				p.lineComment[inner.Span.Start] = true
			}
			return true
		})
	}
}

// stmts writes a statement list. Runs of blank lines collapse into one and
// blank lines at the start or end of the list are dropped.
func (p *printer) stmts(stmts []*ast.Stmt, depth int) {
	if depth == 0 {
		p.markLineComments(stmts)
	}
	wrote, blank := false, false
	for _, s := range stmts {
		if _, ok := s.Kind.(*ast.EmptyStmt); ok {
			if !p.hasCommentBefore(s.Span.End) {
				blank = true
				continue
			}
		}
		if blank && wrote {
			p.out.WriteString("\n")
		}
		blank = false
		wrote = true
		p.stmt(s, depth)
	}
}

// body writes the statements of a block and returns the offset after the
// last of them, or from when the block is empty.
func (p *printer) body(stmts []*ast.Stmt, depth, from int) int {
	p.stmts(stmts, depth+1)
	if n := len(stmts); n > 0 {
		return stmts[n-1].Span.End
	}
	return from
}

// keywordLine writes a line consisting of a block keyword, such as else or
// endif, located after offset from. It returns the offset after the line.
func (p *printer) keywordLine(depth int, text string, from int) int {
	start, end := p.lineEnd(from)
	p.line(depth, text, start)
	return end
}

func (p *printer) stmt(s *ast.Stmt, depth int) {
	switch k := s.Kind.(type) {
	case *ast.EmptyStmt:
		p.flushComments(s.Span.End, depth)
	case *ast.IfStmt:
		p.ifStmt(k, depth, s.Span.Start, "if ")
	case *ast.WhileStmt:
		pos := p.keywordLine(depth, "while "+Expr(k.Cond), s.Span.Start)
		pos = p.body(k.Body, depth, pos)
		p.keywordLine(depth, "endwhile", pos)
	case *ast.ForStmt:
		pos := p.keywordLine(depth, "for "+k.Var.String()+" in "+Expr(k.Range), s.Span.Start)
		pos = p.body(k.Body, depth, pos)
		p.keywordLine(depth, "endfor", pos)
	case *ast.FunctionStmt:
		pos := p.keywordLine(depth, k.Header(), s.Span.Start)
		pos = p.body(k.Body, depth, pos)
		p.keywordLine(depth, "endfunction", pos)
	case *ast.TryStmt:
		pos := p.keywordLine(depth, "try", s.Span.Start)
		pos = p.body(k.Body, depth, pos)
		for _, c := range k.Catches {
			text := "catch"
			if c.Pattern != "" {
				text += " " + c.Pattern
			}
			pos = p.keywordLine(depth, text, pos)
			pos = p.body(c.Body, depth, pos)
		}
		if k.HasFinally {
			pos = p.keywordLine(depth, "finally", pos)
			pos = p.body(k.Finally, depth, pos)
		}
		p.keywordLine(depth, "endtry", pos)
	default:
		start, _ := p.lineEnd(s.Span.Start)
		p.line(depth, simpleStmt(s.Kind), max(start, s.Span.End))
	}
}

// ifStmt writes an if statement and its elseif chain; keyword is "if " or
// "elseif ".
func (p *printer) ifStmt(s *ast.IfStmt, depth, from int, keyword string) {
	pos := p.keywordLine(depth, keyword+Expr(s.Cond), from)
	pos = p.body(s.Then, depth, pos)
	switch e := s.Else.(type) {
	case *ast.ElseIf:
		p.ifStmt(e.If, depth, pos, "elseif ")
		return
	case *ast.Else:
		pos = p.keywordLine(depth, "else", pos)
		pos = p.body(e.Body, depth, pos)
	}
	p.keywordLine(depth, "endif", pos)
}

func simpleStmt(kind ast.StmtKind) string {
	switch k := kind.(type) {
	case *ast.LetStmt:
		return "let " + Expr(k.Var) + " " + string(k.Op) + " " + Expr(k.Value)
	case *ast.CallStmt:
		return "call " + k.Name.Name + "(" + exprList(k.Args) + ")"
	case *ast.ExecuteStmt:
		parts := []string{"execute"}
		for _, arg := range k.Args {
			parts = append(parts, Expr(arg))
		}
		return strings.Join(parts, " ")
	case *ast.ReturnStmt:
		if k.Value == nil {
			return "return"
		}
		return "return " + Expr(k.Value)
	}
	// set, break, continue and finish render canonically already
	return kind.String()
}

func exprList(exprs []ast.Expr) string {
	var b strings.Builder
	for i, x := range exprs {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(&b, x)
	}
	return b.String()
}

func writeExpr(b *strings.Builder, x ast.Expr) {
	switch x := x.(type) {
	case *ast.Ident:
		b.WriteString(x.Name)
	case *ast.Number:
		b.WriteString(x.Literal)
	case *ast.String:
		b.WriteString(x.Raw)
	case *ast.Infix:
		writeExpr(b, x.Left)
		b.WriteString(" ")
		b.WriteString(string(x.Op))
		b.WriteString(" ")
		writeExpr(b, x.Right)
	case *ast.Unary:
		b.WriteString(string(x.Op))
		writeExpr(b, x.X)
	case *ast.Paren:
		b.WriteString("(")
		writeExpr(b, x.X)
		b.WriteString(")")
	case *ast.Call:
		writeExpr(b, x.Callee)
		b.WriteString("(")
		b.WriteString(exprList(x.Args))
		b.WriteString(")")
	case *ast.ArraySubscript:
		writeExpr(b, x.Base)
		b.WriteString("[")
		switch idx := x.Index.(type) {
		case *ast.Index:
			writeExpr(b, idx.X)
		case *ast.Sublist:
			// a space keeps "a[x :]" from lexing x: as a scoped name
			if idx.Left != nil {
				writeExpr(b, idx.Left)
				b.WriteString(" ")
			}
			b.WriteString(":")
			if idx.Right != nil {
				b.WriteString(" ")
				writeExpr(b, idx.Right)
			}
		}
		b.WriteString("]")
	case *ast.Array:
		b.WriteString("[")
		b.WriteString(exprList(x.Elements))
		b.WriteString("]")
	case *ast.Dictionary:
		b.WriteString("{")
		for i, entry := range x.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(entry.Key.Raw)
			b.WriteString(": ")
			writeExpr(b, entry.Value)
		}
		b.WriteString("}")
	case *ast.Choose:
		writeExpr(b, x.Cond)
		b.WriteString(" ? ")
		writeExpr(b, x.Lhs)
		b.WriteString(" : ")
		writeExpr(b, x.Rhs)
	}
}
