package lsp

import (
	"fmt"
	"sort"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/rs/zerolog/log"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/token"
	"github.com/vimlsp/vimscript/parser"
)

// DiagnosticSource is the source reported with every diagnostic.
const DiagnosticSource = "vimscript"

// Document is one parsed version of an open text document. It is not
// modified after parsing; a change produces a new Document.
type Document struct {
	item    protocol.TextDocumentItem
	program *ast.Program
	parser  *parser.Parser
	lines   *token.LineIndex
}

func parseDocument(item protocol.TextDocumentItem, options []parser.Option) *Document {
	l := lexer.New(item.Text)
	p := parser.New(l, append([]parser.Option{parser.WithFilename(string(item.URI))}, options...)...)
	doc := &Document{
		item:    item,
		program: p.Parse(),
		parser:  p,
		lines:   l.Lines(),
	}
	log.Debug().
		Str("uri", string(item.URI)).
		Int32("version", item.Version).
		Int("statements", len(doc.program.Stmts)).
		Int("errors", len(p.Errors())).
		Msg("parsed document")
	return doc
}

// URI returns the document's URI.
func (d *Document) URI() protocol.DocumentURI { return d.item.URI }

// Version returns the version the document was parsed at.
func (d *Document) Version() int32 { return d.item.Version }

// Text returns the document's full text.
func (d *Document) Text() string { return d.item.Text }

// Program returns the parsed statements. Statements that failed to parse
// are missing.
func (d *Document) Program() *ast.Program { return d.program }

// Errors returns the parse errors in source order.
func (d *Document) Errors() []*parser.ParseError { return d.parser.Errors() }

func toProtocolPosition(pos token.Position) protocol.Position {
	return protocol.Position{Line: uint32(pos.Line), Character: uint32(pos.Character)}
}

func toProtocolRange(r token.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func fromProtocolPosition(pos protocol.Position) token.Position {
	return token.Position{Line: int(pos.Line), Character: int(pos.Character)}
}

func (d *Document) spanRange(span ast.Span) protocol.Range {
	return toProtocolRange(d.parser.ResolveLocation(span))
}

// Diagnostics converts the parse errors. The result is never nil, so that
// publishing it clears diagnostics of an earlier version.
func (d *Document) Diagnostics() []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	for _, e := range d.parser.Errors() {
		message := e.Message
		if e.Hint != "" {
			message += " (" + e.Hint + ")"
		}
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(e.Position),
			Severity: protocol.SeverityError,
			Code:     string(e.Code),
			Source:   DiagnosticSource,
			Message:  message,
		})
	}
	return out
}

// PublishParams returns the notification parameters publishing the
// document's diagnostics.
func (d *Document) PublishParams() *protocol.PublishDiagnosticsParams {
	return &protocol.PublishDiagnosticsParams{
		URI:         d.item.URI,
		Version:     d.item.Version,
		Diagnostics: d.Diagnostics(),
	}
}

// occurrence is an identifier together with whether it binds the name.
type occurrence struct {
	ident *ast.Ident
	write bool
}

// nameAt returns the identifier name under the cursor.
func (d *Document) nameAt(pos protocol.Position) (string, error) {
	tok, ok := d.parser.FindToken(fromProtocolPosition(pos))
	if !ok || tok.Type != token.IDENT {
		return "", fmt.Errorf("%w: %d:%d", ErrNotIdentifier, pos.Line, pos.Character)
	}
	return d.parser.Text(tok), nil
}

// occurrences returns every identifier named name, in source order.
func (d *Document) occurrences(name string) []occurrence {
	writes := map[*ast.Ident]bool{}
	var out []occurrence
	ast.Inspect(d.program, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Stmt:
			switch k := n.Kind.(type) {
			case *ast.LetStmt:
				if id, ok := k.Var.(*ast.Ident); ok {
					writes[id] = true
				}
			case *ast.ForStmt:
				for _, id := range k.Var.Idents() {
					writes[id] = true
				}
			case *ast.FunctionStmt:
				writes[k.Name] = true
				for _, id := range k.Params {
					writes[id] = true
				}
			}
		case *ast.Ident:
			if n.Name == name {
				out = append(out, occurrence{ident: n, write: writes[n]})
			}
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ident.NameSpan.Start < out[j].ident.NameSpan.Start
	})
	return out
}

// Highlight returns every occurrence of the identifier under the cursor.
// Binding sites are marked as writes, all other uses as reads.
func (d *Document) Highlight(pos protocol.Position) ([]protocol.DocumentHighlight, error) {
	name, err := d.nameAt(pos)
	if err != nil {
		return nil, err
	}
	var out []protocol.DocumentHighlight
	for _, occ := range d.occurrences(name) {
		kind := protocol.Read
		if occ.write {
			kind = protocol.Write
		}
		out = append(out, protocol.DocumentHighlight{
			Range: d.spanRange(occ.ident.NameSpan),
			Kind:  kind,
		})
	}
	return out, nil
}

// validName reports whether name lexes as exactly one identifier.
func validName(name string) bool {
	tokens := lexer.Lex(name)
	return len(tokens) == 1 &&
		tokens[0].Type == token.IDENT &&
		tokens[0].Start == 0 &&
		tokens[0].End == len(name)
}

// Rename returns the edits replacing every occurrence of the identifier
// under the cursor with newName. Occurrences match by exact name.
func (d *Document) Rename(pos protocol.Position, newName string) ([]protocol.TextEdit, error) {
	if !validName(newName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}
	name, err := d.nameAt(pos)
	if err != nil {
		return nil, err
	}
	var edits []protocol.TextEdit
	for _, occ := range d.occurrences(name) {
		edits = append(edits, protocol.TextEdit{
			Range:   d.spanRange(occ.ident.NameSpan),
			NewText: newName,
		})
	}
	log.Debug().
		Str("uri", string(d.item.URI)).
		Str("from", name).
		Str("to", newName).
		Int("edits", len(edits)).
		Msg("rename")
	return edits, nil
}

// Completion kinds of the protocol.
const (
	completionFunction = 3
	completionVariable = 6
	completionKeyword  = 14
)

// Completion returns the keywords followed by the functions and the
// variables assigned in the document. The items do not depend on the
// cursor position; the client filters them by prefix.
func (d *Document) Completion() []protocol.CompletionItem {
	var items []protocol.CompletionItem
	keywords := token.Keywords()
	sort.Strings(keywords)
	for _, keyword := range keywords {
		items = append(items, protocol.CompletionItem{
			Label:  keyword,
			Kind:   completionKeyword,
			Detail: "keyword",
		})
	}

	functions, variables := map[string]bool{}, map[string]bool{}
	for n := range ast.Preorder(d.program) {
		stmt, ok := n.(*ast.Stmt)
		if !ok {
			continue
		}
		switch k := stmt.Kind.(type) {
		case *ast.FunctionStmt:
			functions[k.Name.Name] = true
		case *ast.LetStmt:
			if id, ok := k.Var.(*ast.Ident); ok {
				variables[id.Name] = true
			}
		case *ast.ForStmt:
			for _, id := range k.Var.Idents() {
				variables[id.Name] = true
			}
		}
	}
	for _, name := range sortedKeys(functions) {
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       completionFunction,
			Detail:     "function",
			InsertText: name + "(",
		})
	}
	for _, name := range sortedKeys(variables) {
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   completionVariable,
			Detail: "variable",
		})
	}
	return items
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
