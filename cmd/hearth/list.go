package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}
			components, err := m.ListComponents(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range components {
				line := fmt.Sprintf("%-12s", c.Name)
				if c.Description != "" {
					line += " " + subtitleStyle.Render(c.Description)
				}
				if c.Overridden {
					line += " " + warningStyle.Render("(overridden)")
				}
				if len(c.Missing) > 0 {
					line += " " + errorStyle.Render("(missing: "+strings.Join(c.Missing, ", ")+")")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
