package lint

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deepnoodle-ai/wonton/tui"

	"github.com/vimlsp/vimscript/internal/report"
)

// Reporter writes lint results.
type Reporter interface {
	Report(w io.Writer, results []*Result) error
}

// NewReporter returns the reporter for an output format, "text" or "json".
func NewReporter(format string, useColor bool) (Reporter, error) {
	switch format {
	case "", "text":
		return &TextReporter{Color: useColor}, nil
	case "json":
		return &JSONReporter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (expected text or json)", format)
}

// Totals sums the error and warning counts of results.
func Totals(results []*Result) (errors, warnings int) {
	for _, r := range results {
		errors += r.Errors
		warnings += r.Warnings
	}
	return errors, warnings
}

var (
	warnStyle  = tui.NewStyle().WithFgRGB(tui.RGB{R: 255, G: 200, B: 80})
	errorStyle = tui.NewStyle().WithFgRGB(tui.RGB{R: 255, G: 100, B: 100})
	fileStyle  = tui.NewStyle().WithFgRGB(tui.RGB{R: 100, G: 200, B: 255})
	ruleStyle  = tui.NewStyle().WithFgRGB(tui.RGB{R: 180, G: 140, B: 220})
	okStyle    = tui.NewStyle().WithFgRGB(tui.RGB{R: 100, G: 220, B: 100})
)

// TextReporter prints one line per issue, or a source excerpt per issue
// when Verbose is set, followed by a summary.
type TextReporter struct {
	Color   bool
	Verbose bool
}

func (r *TextReporter) Report(w io.Writer, results []*Result) error {
	formatter := report.NewFormatter(r.Color)
	for _, result := range results {
		if len(result.Issues) == 0 {
			r.println(w, tui.Group(
				tui.Text("%s: ", result.File).Style(fileStyle),
				tui.Text("OK").Style(okStyle),
			), fmt.Sprintf("%s: OK", result.File))
			continue
		}
		if r.Verbose {
			fmt.Fprintln(w, formatter.FormatMultiple(result.Diagnostics()))
			continue
		}
		for _, issue := range result.Issues {
			levelStyle := warnStyle
			if issue.Level == LevelError {
				levelStyle = errorStyle
			}
			r.println(w, tui.Group(
				tui.Text("%s:%d:%d: ", result.File, issue.Line, issue.Column).Style(fileStyle),
				tui.Text("%s", issue.Level).Style(levelStyle),
				tui.Text(" [%s]", issue.Rule).Style(ruleStyle),
				tui.Text(" %s", issue.Message),
			), fmt.Sprintf("%s:%d:%d: %s [%s] %s",
				result.File, issue.Line, issue.Column, issue.Level, issue.Rule, issue.Message))
		}
	}

	errs, warnings := Totals(results)
	if errs+warnings == 0 {
		return nil
	}
	summary := fmt.Sprintf("%d error(s), %d warning(s)", errs, warnings)
	if len(results) > 1 {
		summary += fmt.Sprintf(" in %d files", len(results))
	}
	style := warnStyle
	if errs > 0 {
		style = errorStyle
	}
	fmt.Fprintln(w)
	r.println(w, tui.Text("%s", summary).Style(style), summary)
	return nil
}

// println writes view when color is on and plain otherwise.
func (r *TextReporter) println(w io.Writer, view tui.View, plain string) {
	if r.Color {
		fmt.Fprintln(w, tui.Sprint(view))
		return
	}
	fmt.Fprintln(w, plain)
}

// JSONReporter writes all results with their totals as one JSON document.
type JSONReporter struct{}

type jsonReport struct {
	Files    []*Result `json:"files"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
}

func (r *JSONReporter) Report(w io.Writer, results []*Result) error {
	out := jsonReport{Files: results}
	if out.Files == nil {
		out.Files = []*Result{}
	}
	out.Errors, out.Warnings = Totals(results)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
