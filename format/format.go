// Package format re-renders parsed Vimscript in a canonical layout: one
// statement per line, blocks indented one level, single spaces around
// binary operators and at most one blank line between statements.
//
// Formatting a program that contains parse errors is refused, since the
// tree would be missing the statements that failed to parse.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/parser"
)

// ErrHasParseErrors is returned by Source when the input does not parse
// cleanly.
var ErrHasParseErrors = errors.New("source has parse errors")

// DefaultIndent is the number of spaces per block level.
const DefaultIndent = 2

// Option is a configuration function for the formatter.
type Option func(*config)

type config struct {
	indent int
	tabs   bool
}

// WithIndent sets the number of spaces per block level.
func WithIndent(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.indent = n
		}
	}
}

// WithTabs indents with one tab per block level instead of spaces.
func WithTabs(tabs bool) Option {
	return func(c *config) {
		c.tabs = tabs
	}
}

func newConfig(options []Option) config {
	c := config{indent: DefaultIndent}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

func (c config) unit() string {
	if c.tabs {
		return "\t"
	}
	return strings.Repeat(" ", c.indent)
}

// Source parses src and returns it formatted, keeping its comments. When
// src has parse errors the returned error wraps ErrHasParseErrors and the
// parse errors themselves.
func Source(src string, options ...Option) (string, error) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.Parse()
	if err := p.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrHasParseErrors, err)
	}
	pr := newPrinter(newConfig(options), l)
	pr.stmts(program.Stmts, 0)
	pr.flushComments(len(src)+1, 0)
	return pr.String(), nil
}

// Format renders a program that was parsed without errors. Comments are
// not part of the tree and are not emitted; use Source to keep them.
func Format(program *ast.Program, options ...Option) string {
	pr := newPrinter(newConfig(options), nil)
	pr.stmts(program.Stmts, 0)
	return pr.String()
}

// Expr renders a single expression in canonical form.
func Expr(x ast.Expr) string {
	var b strings.Builder
	writeExpr(&b, x)
	return b.String()
}
