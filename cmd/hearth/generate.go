package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/hearth/internal/service"
)

func newGenerateCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "generate [component...]",
		Short: "Write shell fragments and config files",
		Long: `Generate writes <component>.sh for each named component and everything
it depends on, in dependency order. With --all, or with no names, every
registered component is generated together with the shell.sh entrypoint.`,
		Example: `  hearth generate --all
  hearth generate go tmux
  hearth generate --all --dry-run`,
		ValidArgsFunction: a.completeComponents,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}

			var result *service.GenerateResult
			if all || len(args) == 0 {
				result, err = m.GenerateAll(cmd.Context())
			} else {
				result, err = m.GenerateComponents(cmd.Context(), args...)
			}
			if err != nil {
				return err
			}
			printGenerateResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "generate every component and the entrypoint")
	return cmd
}

func printGenerateResult(w io.Writer, result *service.GenerateResult) {
	if result.DryRun {
		fmt.Fprintln(w, warningStyle.Render("Dry run: nothing was written"))
		fmt.Fprintln(w)
	}

	written, skipped := 0, 0
	for _, a := range result.Artifacts() {
		switch {
		case a.Skipped:
			skipped++
			fmt.Fprintf(w, "  %s %s %s file %s\n", subtitleStyle.Render("-"), a.Component, a.Format, subtitleStyle.Render("(not for "+result.Platform+")"))
		case result.DryRun:
			fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("would write"), a.Path)
		default:
			written++
			fmt.Fprintf(w, "  %s %s\n", check(a.Written), a.Path)
		}
		if a.SymlinkTarget != "" && !a.Skipped {
			fmt.Fprintf(w, "      %s %s\n", subtitleStyle.Render("links to"), a.SymlinkTarget)
		}
	}

	fmt.Fprintln(w)
	if result.DryRun {
		fmt.Fprintf(w, "%d components planned for %s\n", len(result.Order), result.Shell)
		return
	}
	fmt.Fprintf(w, "%s Generated %d components (%d files", check(true), len(result.Order), written)
	if skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", skipped)
	}
	fmt.Fprintln(w, ")")
	if result.Entrypoint != nil {
		fmt.Fprintf(w, "Run %s to source %s from your shell.\n", keyStyle.Render("hearth inject"), result.Entrypoint.Path)
	}
}

// completeComponents offers registered component names.
func (a *app) completeComponents(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	m, err := a.load(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return m.Components(), cobra.ShellCompDirectiveNoFileComp
}
