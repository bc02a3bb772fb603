package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/vimlsp/vimscript/ast"
	"github.com/vimlsp/vimscript/internal/lexer"
	"github.com/vimlsp/vimscript/internal/report"
	"github.com/vimlsp/vimscript/parser"
)

func newASTCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of a Vimscript file as JSON",
		Long: `Print the syntax tree of a Vimscript file as JSON.

Statements that fail to parse are missing from the tree; their errors are
printed to stderr and the command fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			src := sources[0]

			p := parser.New(lexer.New(src.text), append(a.cfg.ParserOptions(), parser.WithFilename(src.path))...)
			program := p.Parse()
			output, err := a.marshal(ast.Dump(program))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return a.printParseErrors(cmd.ErrOrStderr(), src.text, p.Errors())
		},
	}
}

// marshal renders v as indented JSON, colored when color is on.
func (a *app) marshal(v any) ([]byte, error) {
	if a.useColor {
		return prettyjson.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// printParseErrors prints errs and returns errFailed if there are any.
func (a *app) printParseErrors(w io.Writer, src string, errs []*parser.ParseError) error {
	if len(errs) == 0 {
		return nil
	}
	formatter := report.NewFormatter(a.useColor)
	for _, e := range errs {
		fmt.Fprintln(w, formatter.Format(e.ToFormatted(src)))
	}
	return errFailed
}

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a Vimscript file",
		Long: `Print the tokens of a Vimscript file, one per line, with their
start and end positions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			l := lexer.New(sources[0].text)
			out := cmd.OutOrStdout()
			for _, tok := range l.Tokens() {
				fmt.Fprintf(out, "%-9s %-10s %q\n", l.TokenRange(tok), tok.Type, l.Text(tok))
			}
			return nil
		},
	}
}
