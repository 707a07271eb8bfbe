package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (a *app) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List registered selector kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Kind", "Label", "Filters", "Patterns"})

			for _, name := range a.registry.Names() {
				kind, err := a.registry.Resolve(name)
				if err != nil {
					continue
				}
				patterns := "no"
				if kind.MatchLocator != nil {
					patterns = "yes"
				}
				t.AppendRow(table.Row{name, kind.Describe(), strings.Join(kind.FilterKeys(), ", "), patterns})
			}
			t.Render()
			return nil
		},
	}
}
