package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
)

func newInjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inject",
		Short: "Source the entrypoint from your shell startup file",
		Long: `Inject appends a marked block to your rc file that sources the hearth
entrypoint. Running it again leaves the file untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}
			result, err := m.Inject()
			if err != nil {
				return err
			}
			printInjectResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newEjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eject",
		Short: "Remove hearth's block from your shell startup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}
			result, err := m.Eject()
			if err != nil {
				return err
			}
			printInjectResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func printInjectResult(w io.Writer, r *shell.InjectResult) {
	switch r.Action {
	case shell.ActionInjected:
		fmt.Fprintf(w, "%s Added hearth block to %s\n", check(true), r.RCFile)
		fmt.Fprintln(w, subtitleStyle.Render("Open a new shell or source the file to activate it."))
	case shell.ActionEjected:
		fmt.Fprintf(w, "%s Removed hearth block from %s\n", check(true), r.RCFile)
	case shell.ActionAlreadyInjected:
		fmt.Fprintf(w, "%s is already set up\n", r.RCFile)
	case shell.ActionNotInjected:
		fmt.Fprintf(w, "%s has no hearth block\n", r.RCFile)
	case shell.ActionWouldInject:
		fmt.Fprintf(w, "%s would append to %s:\n", warningStyle.Render("Dry run:"), r.RCFile)
		fmt.Fprint(w, r.InjectionBlock)
	case shell.ActionWouldEject:
		fmt.Fprintf(w, "%s would remove from %s:\n", warningStyle.Render("Dry run:"), r.RCFile)
		fmt.Fprint(w, r.RemovedBlock)
	}
	if r.BackupPath != "" {
		fmt.Fprintf(w, "Backup: %s\n", r.BackupPath)
	}
}
