package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vimlsp/vimscript/lint"
)

type lintOptions struct {
	format  string
	verbose bool
	watch   bool
}

func newLintCmd(a *app) *cobra.Command {
	opts := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [files or directories...]",
		Short: "Check Vimscript files for syntax errors and common mistakes",
		Long: `Check Vimscript files for syntax errors and common mistakes.

Directories are searched for .vim files. Without arguments the source is
read from stdin. The command fails when any error is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return a.watchLint(cmd, args, opts)
			}
			return a.runLint(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "show the source line of every issue")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "lint again whenever a file is written")
	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (a *app) reporter(opts *lintOptions) (lint.Reporter, error) {
	reporter, err := lint.NewReporter(opts.format, a.useColor)
	if err != nil {
		return nil, err
	}
	if text, ok := reporter.(*lint.TextReporter); ok {
		text.Verbose = opts.verbose
	}
	return reporter, nil
}

func (a *app) runLint(cmd *cobra.Command, args []string, opts *lintOptions) error {
	reporter, err := a.reporter(opts)
	if err != nil {
		return err
	}
	sources, readErr := readSources(cmd.InOrStdin(), args)

	linter := lint.New(a.cfg.LintOptions()...)
	results := make([]*lint.Result, 0, len(sources))
	for _, src := range sources {
		results = append(results, linter.Lint(src.path, src.text))
	}
	if err := reporter.Report(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}
	if errs, _ := lint.Totals(results); errs > 0 {
		return errFailed
	}
	return nil
}

// watchLint lints the files once and then again each time one of them is
// written, until interrupted.
func (a *app) watchLint(cmd *cobra.Command, args []string, opts *lintOptions) error {
	if len(args) == 0 {
		return fmt.Errorf("--watch needs at least one file or directory")
	}
	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	reporter, err := a.reporter(opts)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them, so the
	// directories are watched rather than the files.
	watched := map[string]string{}
	dirs := map[string]bool{}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = path
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	linter := lint.New(a.cfg.LintOptions()...)
	out := cmd.OutOrStdout()
	for _, path := range paths {
		lintFile(out, linter, reporter, path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchLoop(ctx, watcher, func(path string) {
		if name, ok := watched[path]; ok {
			lintFile(out, linter, reporter, name)
		}
	})
}

// watchLoop calls changed with the absolute path of every file that is
// written or created until ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changed func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			log.Debug().Str("file", path).Str("op", ev.Op.String()).Msg("file changed")
			changed(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Str("call", "watch").Msg("watcher error")
		}
	}
}

func lintFile(w io.Writer, linter *lint.Linter, reporter lint.Reporter, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to read file")
		return
	}
	if err := reporter.Report(w, []*lint.Result{linter.Lint(path, string(data))}); err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to report")
	}
}
