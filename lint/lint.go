// Package lint checks Vimscript files for syntax errors and common
// mistakes. Each check is a named rule that can be disabled.
package lint

import (
	"sort"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/report"
	"github.com/vimlsp/vimscript/internal/token"
	"github.com/vimlsp/vimscript/parser"
)

// Level is the severity of an issue.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// DefaultMaxLineLength is the default limit of the line-too-long rule.
const DefaultMaxLineLength = 120

// Issue is one problem found in a file. Lines and columns are one-based,
// columns count characters.
type Issue struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Rule      string `json:"rule"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	Level     Level  `json:"level"`
	Hint      string `json:"hint,omitempty"`
}

// Result holds the issues found in one file, ordered by position.
type Result struct {
	File     string  `json:"file"`
	Issues   []Issue `json:"issues"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`

	lines *token.LineIndex
}

// Diagnostics converts the issues for display with report.Formatter.
func (r *Result) Diagnostics() []*report.Diagnostic {
	out := make([]*report.Diagnostic, 0, len(r.Issues))
	for _, issue := range r.Issues {
		code := issue.Code
		if code == "" {
			code = issue.Rule
		}
		endColumn := issue.EndColumn
		if issue.EndLine != issue.Line {
			endColumn = 0
		}
		d := &report.Diagnostic{
			Code:      code,
			Kind:      string(issue.Level),
			Message:   issue.Message,
			Filename:  r.File,
			Line:      issue.Line,
			Column:    issue.Column,
			EndColumn: endColumn,
			Hint:      issue.Hint,
		}
		if r.lines != nil {
			d.SourceLines = []report.SourceLine{
				{Number: issue.Line, Text: r.lines.Line(issue.Line - 1), IsMain: true},
			}
		}
		out = append(out, d)
	}
	return out
}

// Option is a configuration function for a Linter.
type Option func(*Linter)

// WithMaxLineLength sets the limit of the line-too-long rule.
func WithMaxLineLength(n int) Option {
	return func(l *Linter) {
		l.maxLineLength = n
	}
}

// WithDisabled turns off the named rules.
func WithDisabled(rules ...string) Option {
	return func(l *Linter) {
		for _, name := range rules {
			l.disabled[name] = true
		}
	}
}

// WithParserOptions passes options to the parser, e.g. a maximum depth.
func WithParserOptions(options ...parser.Option) Option {
	return func(l *Linter) {
		l.parserOptions = append(l.parserOptions, options...)
	}
}

// Linter runs the enabled rules over files. It holds no per-file state and
// may be used concurrently.
type Linter struct {
	maxLineLength int
	disabled      map[string]bool
	parserOptions []parser.Option
}

// New returns a Linter with all rules enabled.
func New(options ...Option) *Linter {
	l := &Linter{
		maxLineLength: DefaultMaxLineLength,
		disabled:      map[string]bool{},
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Enabled reports whether the named rule runs.
func (l *Linter) Enabled(rule string) bool {
	return !l.disabled[rule]
}

// Lint parses src and runs the enabled rules over it.
func (l *Linter) Lint(filename, src string) *Result {
	lx := lexer.New(src)
	options := append([]parser.Option{parser.WithFilename(filename)}, l.parserOptions...)
	p := parser.New(lx, options...)
	program := p.Parse()

	c := &checker{
		linter:  l,
		src:     src,
		lines:   lx.Lines(),
		program: program,
		errors:  p.Errors(),
	}
	for _, r := range rules {
		if l.Enabled(r.name) {
			c.rule = r.name
			r.check(c)
		}
	}

	sort.SliceStable(c.issues, func(i, j int) bool {
		a, b := c.issues[i], c.issues[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	result := &Result{File: filename, Issues: c.issues, lines: lx.Lines()}
	if result.Issues == nil {
		result.Issues = []Issue{}
	}
	for _, issue := range result.Issues {
		if issue.Level == LevelError {
			result.Errors++
		} else {
			result.Warnings++
		}
	}
	return result
}

// checker is the state shared by the rules while linting one file.
type checker struct {
	linter  *Linter
	src     string
	lines   *token.LineIndex
	program *ast.Program
	errors  []*parser.ParseError
	rule    string
	issues  []Issue
}

func (c *checker) addRange(r token.Range, level Level, msg string) *Issue {
	c.issues = append(c.issues, Issue{
		Line:      r.Start.Line + 1,
		Column:    r.Start.Character + 1,
		EndLine:   r.End.Line + 1,
		EndColumn: r.End.Character + 1,
		Rule:      c.rule,
		Message:   msg,
		Level:     level,
	})
	return &c.issues[len(c.issues)-1]
}

func (c *checker) add(span ast.Span, level Level, msg string) *Issue {
	return c.addRange(c.lines.Range(span.Start, span.End), level, msg)
}
