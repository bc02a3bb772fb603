// Package report renders diagnostics for terminals: a header line, the
// location, the offending source line with carets under the reported range,
// and optional hints.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Diagnostic is an error or warning ready for display. Line and column
// numbers are one-based.
type Diagnostic struct {
	Code        string // "E1001", or a lint rule name
	Kind        string // "error", "warning"
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int // exclusive, for multi-character underlines
	SourceLines []SourceLine
	Hint        string
	Note        string
}

// SourceLine is a line of source code with its one-based number.
type SourceLine struct {
	Number int
	Text   string
	IsMain bool // the line the carets go under
}

// Location returns "file:line:column", omitting the parts that are unset.
func (d *Diagnostic) Location() string {
	switch {
	case d.Filename != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d:%d", d.Filename, d.Line, d.Column)
	case d.Filename != "":
		return d.Filename
	case d.Line > 0:
		return fmt.Sprintf("%d:%d", d.Line, d.Column)
	}
	return ""
}

// Formatter formats diagnostics, with or without ANSI colors.
type Formatter struct {
	UseColor bool
}

// NewFormatter creates a new diagnostic formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

type style []color.Attribute

var (
	colorError    = style{color.FgRed}
	colorWarning  = style{color.FgYellow}
	colorBold     = style{color.FgHiRed, color.Bold}
	colorCode     = style{color.FgHiBlack}
	colorLocation = style{color.FgCyan}
	colorPipe     = style{color.FgHiBlack}
	colorCaret    = style{color.FgHiRed}
	colorHint     = style{color.FgHiYellow}
	colorNote     = style{color.FgHiBlue}
)

func (f *Formatter) paint(b *strings.Builder, st style, s string) {
	if !f.UseColor {
		b.WriteString(s)
		return
	}
	// color.New honors the global NoColor switch; the formatter decides
	// for itself.
	c := color.New(st...)
	c.EnableColor()
	b.WriteString(c.Sprint(s))
}

// Format formats a single diagnostic.
func (f *Formatter) Format(d *Diagnostic) string {
	return f.FormatWithPrefix(d, "")
}

// FormatWithPrefix formats the diagnostic with an optional prefix like
// "1/5" shown in brackets when the diagnostic has no code.
func (f *Formatter) FormatWithPrefix(d *Diagnostic, prefix string) string {
	var b strings.Builder

	width := 2
	if d.Line >= 100 {
		width = len(fmt.Sprintf("%d", d.Line))
	}

	f.writeHeader(&b, d, prefix)
	f.writeLocation(&b, d, width)
	f.writeSource(&b, d, width)
	if d.Hint != "" {
		f.writeTrailer(&b, "hint: ", colorHint, d.Hint, width, true)
	}
	if d.Note != "" {
		f.writeTrailer(&b, "note: ", colorNote, d.Note, width, false)
	}
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder, d *Diagnostic, prefix string) {
	label := "error"
	headColor := colorBold
	if d.Kind != "" {
		label = d.Kind
	}
	if label == "warning" {
		headColor = colorWarning
	}
	f.paint(b, headColor, label)

	if d.Code != "" {
		f.paint(b, colorCode, "["+d.Code+"]")
	} else if prefix != "" {
		f.paint(b, colorCode, "["+prefix+"]")
	}
	f.paint(b, colorError, ": ")
	b.WriteString(d.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeLocation(b *strings.Builder, d *Diagnostic, width int) {
	loc := d.Location()
	if loc == "" {
		return
	}
	b.WriteString(strings.Repeat(" ", width))
	f.paint(b, colorLocation, "-->")
	b.WriteString(" ")
	f.paint(b, colorLocation, loc)
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, d *Diagnostic, width int) {
	if len(d.SourceLines) == 0 {
		return
	}
	padding := strings.Repeat(" ", width)
	b.WriteString(padding)
	f.paint(b, colorPipe, " |\n")

	for _, line := range d.SourceLines {
		f.paint(b, colorPipe, fmt.Sprintf("%*d", width, line.Number))
		f.paint(b, colorPipe, " | ")
		b.WriteString(line.Text)
		b.WriteString("\n")

		if !line.IsMain || d.Column <= 0 {
			continue
		}
		b.WriteString(padding)
		f.paint(b, colorPipe, " | ")
		b.WriteString(strings.Repeat(" ", d.Column-1))
		carets := 1
		if d.EndColumn > d.Column {
			carets = d.EndColumn - d.Column
		}
		f.paint(b, colorCaret, strings.Repeat("^", carets))
		b.WriteString("\n")
	}
}

func (f *Formatter) writeTrailer(b *strings.Builder, label string, c style, text string, width int, gap bool) {
	padding := strings.Repeat(" ", width)
	if gap {
		b.WriteString(padding)
		f.paint(b, colorPipe, " |\n")
	}
	b.WriteString(padding)
	f.paint(b, colorPipe, " = ")
	f.paint(b, c, label)
	b.WriteString(text)
	b.WriteString("\n")
}

// FormatMultiple formats several diagnostics, numbering them when there is
// more than one and ending with a summary line.
func (f *Formatter) FormatMultiple(ds []*Diagnostic) string {
	switch len(ds) {
	case 0:
		return ""
	case 1:
		return f.Format(ds[0])
	}

	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(d, fmt.Sprintf("%d/%d", i+1, len(ds))))
	}
	b.WriteString("\n")
	f.paint(&b, colorBold, fmt.Sprintf("found %d problems", len(ds)))
	b.WriteString("\n")
	return b.String()
}
