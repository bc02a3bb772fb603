package main

import (
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vimlsp/vimscript/internal/table"
	"github.com/vimlsp/vimscript/lint"
)

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the lint rules and whether they are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			linter := lint.New(a.cfg.LintOptions()...)
			rules := lint.Rules()
			names := make([]string, 0, len(rules))
			for name := range rules {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewTable(cmd.OutOrStdout()).
				WithHeader([]string{"RULE", "ENABLED", "DESCRIPTION"}).
				WithHeaderAlignment([]table.Alignment{table.AlignLeft, table.AlignCenter, table.AlignLeft}).
				WithColumnAlignment([]table.Alignment{table.AlignLeft, table.AlignCenter, table.AlignLeft})
			for _, name := range names {
				enabled := color.GreenString("yes")
				if !linter.Enabled(name) {
					enabled = color.RedString("no")
				}
				t.Append([]string{name, enabled, rules[name]})
			}
			return t.Render()
		},
	}
}
