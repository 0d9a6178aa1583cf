package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOverrideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "override <component>",
		Short: "Scaffold a Lua override from a component's current spec",
		Long: `Override writes <override-dir>/<component>.lua holding the component's
effective spec, ready for editing. An existing override is never replaced.
With --dry-run the scaffold is printed instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeComponents,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}
			result, err := m.ScaffoldOverride(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Written {
				fmt.Fprintln(out, titleStyle.Render("# "+result.Path))
				fmt.Fprint(out, result.Content)
				return nil
			}
			fmt.Fprintf(out, "%s Wrote %s\n", check(true), result.Path)
			fmt.Fprintf(out, "Edit it, then run %s.\n", keyStyle.Render("hearth generate "+result.Component))
			return nil
		},
	}
}
