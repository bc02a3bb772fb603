package parser

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/report"
	"github.com/vimlsp/vimscript/internal/token"
)

// ErrorCode identifies the category of a parse error.
type ErrorCode string

const (
	ErrUnexpectedToken    ErrorCode = "E1001"
	ErrInvalidToken       ErrorCode = "E1002"
	ErrMissingExpression  ErrorCode = "E1003"
	ErrUnterminatedBlock  ErrorCode = "E1004"
	ErrMaxDepth           ErrorCode = "E1005"
	ErrExpectedIdentifier ErrorCode = "E1006"
)

var codeDescriptions = map[ErrorCode]string{
	ErrUnexpectedToken:    "unexpected token",
	ErrInvalidToken:       "invalid token",
	ErrMissingExpression:  "missing expression",
	ErrUnterminatedBlock:  "unterminated block",
	ErrMaxDepth:           "maximum nesting depth exceeded",
	ErrExpectedIdentifier: "expected identifier",
}

// Description returns a short description of the code.
func (c ErrorCode) Description() string {
	return codeDescriptions[c]
}

// ParseError is a recoverable syntax error. Errors are not attached to AST
// nodes; the parser collects them in source order.
type ParseError struct {
	Code     ErrorCode
	Message  string
	Position token.Range
	Span     ast.Span
	File     string
	Hint     string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// ToFormatted converts the error into a report.Diagnostic showing the
// offending line of source.
func (e *ParseError) ToFormatted(source string) *report.Diagnostic {
	lines := token.NewLineIndex(source)
	start, end := e.Position.Start, e.Position.End
	endColumn := end.Character + 1
	if end.Line != start.Line {
		endColumn = len([]rune(lines.Line(start.Line))) + 2
	}
	return &report.Diagnostic{
		Code:      string(e.Code),
		Kind:      "error",
		Message:   e.Message,
		Filename:  e.File,
		Line:      start.Line + 1,
		Column:    start.Character + 1,
		EndColumn: endColumn,
		SourceLines: []report.SourceLine{
			{Number: start.Line + 1, Text: lines.Line(start.Line), IsMain: true},
		},
		Hint: e.Hint,
	}
}

// tokenText describes a token found in the source for error messages:
// "new line", "end of file" or the backticked source text.
func tokenText(l *lexer.Lexer, tok token.Token) string {
	switch tok.Type {
	case token.NEWLINE, token.EOF:
		return tok.Type.Description()
	}
	return "`" + l.Text(tok) + "`"
}

func joinErrors(errs []*ParseError) error {
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	if result != nil {
		result.ErrorFormat = formatErrors
	}
	return result.ErrorOrNil()
}

// formatErrors shows the first error and how many follow it.
func formatErrors(errs []error) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	case 2:
		return fmt.Sprintf("%s (and 1 more error)", errs[0])
	}
	return fmt.Sprintf("%s (and %d more errors)", errs[0], len(errs)-1)
}

// ErrorList returns the parse errors carried by err, which is usually the
// error returned by Parse.
func ErrorList(err error) []*ParseError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]*ParseError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			var perr *ParseError
			if errors.As(e, &perr) {
				out = append(out, perr)
			}
		}
		return out
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		return []*ParseError{perr}
	}
	return nil
}
