package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/hearth/internal/service"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "preview <component>",
		Short:             "Print a component's generated files without writing them",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeComponents,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}
			result, err := m.Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPreview(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printPreview(w io.Writer, result *service.GenerateResult) {
	for i, a := range result.Artifacts() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if a.Skipped {
			fmt.Fprintln(w, subtitleStyle.Render("# "+a.Format+" file skipped on "+result.Platform))
			continue
		}
		header := a.Path
		if a.Format != "" {
			header += " (" + a.Format + ")"
		}
		fmt.Fprintln(w, titleStyle.Render("# "+header))
		fmt.Fprint(w, a.Content)
	}
}
