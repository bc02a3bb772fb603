package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vimlsp/vimscript/internal/config"
)

// errFailed signals a failed check whose details were already printed.
var errFailed = errors.New("check failed")

type app struct {
	configFile string
	logLevel   string
	noColor    bool

	cfg      *config.Config
	useColor bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "vimscript",
		Short: "Vimscript parser, formatter and linter",
		Long: `vimscript parses Vimscript files and reports syntax errors, lints them
for common mistakes and formats them in a canonical layout.

Settings are read from .vimscript.yaml in the working directory or the home
directory and from VIMSCRIPT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./.vimscript.yaml or ~/.vimscript.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newLintCmd(a),
		newFmtCmd(a),
		newASTCmd(a),
		newTokensCmd(a),
		newRulesCmd(a),
	)
	return rootCmd
}

// setup loads the configuration and configures logging and color.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.noColor {
		cfg.Color = config.ColorNever
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.useColor = cfg.UseColor(isTerminal(cmd.OutOrStdout()))
	color.NoColor = !a.useColor

	stderr := cmd.ErrOrStderr()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     stderr,
		NoColor: !cfg.UseColor(isTerminal(stderr)),
	}).With().Timestamp().Logger().Level(cfg.LogLevel())
	if cfg.File != "" {
		log.Debug().Str("file", cfg.File).Msg("loaded config")
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
