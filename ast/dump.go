package ast

import "encoding/json"

// Dump converts a node into a tree of maps and slices shaped for JSON
// output. Statements carry their id and span; expressions are keyed by
// their kind, e.g. {"infix": {"left": ..., "operator": "+", "right": ...}}.
func Dump(node Node) any {
	switch n := node.(type) {
	case *Program:
		return dumpStmts(n.Stmts)
	case *Stmt:
		return dumpStmt(n)
	case Expr:
		return dumpExpr(n)
	}
	return nil
}

// DumpJSON returns the indented JSON form of Dump(node).
func DumpJSON(node Node) ([]byte, error) {
	return json.MarshalIndent(Dump(node), "", "  ")
}

type object = map[string]any

func dumpStmts(stmts []*Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, dumpStmt(s))
	}
	return out
}

func dumpExprs(exprs []Expr) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, dumpExpr(e))
	}
	return out
}

func dumpIdents(idents []*Ident) []any {
	out := make([]any, 0, len(idents))
	for _, id := range idents {
		out = append(out, id.Name)
	}
	return out
}

func dumpStmt(s *Stmt) any {
	out := object{
		"id":   int(s.ID),
		"span": []int{s.Span.Start, s.Span.End},
	}
	switch k := s.Kind.(type) {
	case *LetStmt:
		out["let"] = object{"var": dumpExpr(k.Var), "operator": string(k.Op), "value": dumpExpr(k.Value)}
	case *CallStmt:
		out["call"] = object{"name": k.Name.Name, "arguments": dumpExprs(k.Args)}
	case *ExecuteStmt:
		out["execute"] = object{"arguments": dumpExprs(k.Args)}
	case *ReturnStmt:
		var value any
		if k.Value != nil {
			value = dumpExpr(k.Value)
		}
		out["return"] = object{"value": value}
	case *IfStmt:
		out["if"] = dumpIf(k)
	case *WhileStmt:
		out["while"] = object{"condition": dumpExpr(k.Cond), "body": dumpStmts(k.Body)}
	case *FunctionStmt:
		out["function"] = object{
			"name":      k.Name.Name,
			"params":    dumpIdents(k.Params),
			"body":      dumpStmts(k.Body),
			"overwrite": k.Overwrite,
			"abort":     k.Abort,
		}
	case *ForStmt:
		var loopVar any
		switch v := k.Var.(type) {
		case *SingleVar:
			loopVar = v.Name.Name
		case *ListVar:
			loopVar = dumpIdents(v.Names)
		}
		out["for"] = object{"var": loopVar, "range": dumpExpr(k.Range), "body": dumpStmts(k.Body)}
	case *TryStmt:
		catches := make([]any, 0, len(k.Catches))
		for _, c := range k.Catches {
			catches = append(catches, object{"pattern": c.Pattern, "body": dumpStmts(c.Body)})
		}
		var finally any
		if k.HasFinally {
			finally = dumpStmts(k.Finally)
		}
		out["try"] = object{"body": dumpStmts(k.Body), "catch": catches, "finally": finally}
	case *SetStmt:
		out["set"] = object{"option": k.Option, "value": k.Value}
	case *BreakStmt:
		out["break"] = object{}
	case *ContinueStmt:
		out["continue"] = object{}
	case *FinishStmt:
		out["finish"] = object{}
	case *EmptyStmt:
		out["empty"] = object{}
	}
	return out
}

func dumpIf(s *IfStmt) object {
	var elseCond any
	switch e := s.Else.(type) {
	case *Else:
		elseCond = object{"else": dumpStmts(e.Body)}
	case *ElseIf:
		elseCond = object{"elseif": dumpIf(e.If)}
	}
	return object{"condition": dumpExpr(s.Cond), "then": dumpStmts(s.Then), "else": elseCond}
}

func dumpExpr(e Expr) any {
	switch x := e.(type) {
	case *Number:
		return object{"number": x.Value}
	case *String:
		return object{"stringLiteral": x.Value}
	case *Ident:
		return object{"identifier": x.Name}
	case *Infix:
		return object{"infix": object{"left": dumpExpr(x.Left), "operator": string(x.Op), "right": dumpExpr(x.Right)}}
	case *Unary:
		return object{"unary": object{"operator": string(x.Op), "expr": dumpExpr(x.X)}}
	case *Paren:
		return object{"paren": dumpExpr(x.X)}
	case *Call:
		return object{"function": object{"callee": dumpExpr(x.Callee), "arguments": dumpExprs(x.Args)}}
	case *ArraySubscript:
		var idx any
		switch i := x.Index.(type) {
		case *Index:
			idx = object{"index": dumpExpr(i.X)}
		case *Sublist:
			var left, right any
			if i.Left != nil {
				left = dumpExpr(i.Left)
			}
			if i.Right != nil {
				right = dumpExpr(i.Right)
			}
			idx = object{"sublist": object{"left": left, "right": right}}
		}
		return object{"arraySubscript": object{"base": dumpExpr(x.Base), "idx": idx}}
	case *Array:
		return object{"array": dumpExprs(x.Elements)}
	case *Dictionary:
		entries := make([]any, 0, len(x.Entries))
		for _, entry := range x.Entries {
			entries = append(entries, object{"key": entry.Key.Value, "value": dumpExpr(entry.Value)})
		}
		return object{"dictionary": entries}
	case *Choose:
		return object{"choose": object{"cond": dumpExpr(x.Cond), "lhs": dumpExpr(x.Lhs), "rhs": dumpExpr(x.Rhs)}}
	}
	return nil
}
