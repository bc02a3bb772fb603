package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/vimlsp/vimscript/format"
	"github.com/vimlsp/vimscript/internal/report"
	"github.com/vimlsp/vimscript/parser"
)

func newFmtCmd(a *app) *cobra.Command {
	var write, check bool
	cmd := &cobra.Command{
		Use:   "fmt [files or directories...]",
		Short: "Format Vimscript files",
		Long: `Format Vimscript files and print the result.

With --write the files are rewritten in place. With --check nothing is
written; the names of files that are not formatted are printed and the
command fails if there are any. Files with syntax errors are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && check {
				return errors.New("--write and --check cannot be combined")
			}
			return a.runFmt(cmd, args, write, check)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result to the source files")
	cmd.Flags().BoolVar(&check, "check", false, "only report files that are not formatted")
	return cmd
}

func (a *app) runFmt(cmd *cobra.Command, args []string, write, check bool) error {
	sources, err := readSources(cmd.InOrStdin(), args)
	var errs *multierror.Error
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	out, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	formatter := report.NewFormatter(a.useColor)
	unformatted := false

	for _, src := range sources {
		formatted, err := format.Source(src.text, a.cfg.FormatOptions()...)
		if err != nil {
			if errors.Is(err, format.ErrHasParseErrors) {
				for _, e := range parser.ErrorList(err) {
					e.File = src.path
					fmt.Fprintln(stderr, formatter.Format(e.ToFormatted(src.text)))
				}
			}
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", src.path, format.ErrHasParseErrors))
			continue
		}
		switch {
		case check:
			if formatted != src.text {
				fmt.Fprintln(out, src.path)
				unformatted = true
			}
		case write && !src.isStdin():
			if formatted == src.text {
				continue
			}
			if err := os.WriteFile(src.path, []byte(formatted), 0o644); err != nil {
				errs = multierror.Append(errs, err)
			}
		default:
			fmt.Fprint(out, formatted)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	if unformatted {
		return errFailed
	}
	return nil
}
