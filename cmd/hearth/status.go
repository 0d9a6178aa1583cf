package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/hearth/internal/drift"
	"github.com/ZebulonRouseFrantzich/hearth/internal/service"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		showDiff bool
		asJSON   bool
		checkFlg bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show integration state and drift",
		Long: `Status reports the detected shell and platform, the output directory,
whether the rc file sources the entrypoint, and how the generated files on
disk compare with what the current specs would produce.

With --check the exit code is 1 when any drift is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(cmd)
			if err != nil {
				return err
			}
			status, err := m.GetStatus(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(status); err != nil {
					return err
				}
			} else {
				printStatus(out, status, showDiff)
			}

			if checkFlg && (drift.HasDrift(status.Drift) || status.DriftError != "") {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show line diffs for modified files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	cmd.Flags().BoolVar(&checkFlg, "check", false, "exit 1 when drift is detected")
	return cmd
}

func printStatus(w io.Writer, s *service.Status, showDiff bool) {
	field := func(key, value string) {
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(fmt.Sprintf("%-12s", key+":")), value)
	}

	fmt.Fprintln(w, titleStyle.Render("hearth status"))
	fmt.Fprintln(w)
	field("Shell", s.Shell)
	field("Platform", s.Platform)
	field("Output dir", fmt.Sprintf("%s %s", s.OutputDir, check(s.OutputDirExists)))
	if s.RCFile != "" {
		field("RC file", fmt.Sprintf("%s %s", s.RCFile, check(s.Injected)))
	} else {
		field("RC file", subtitleStyle.Render("(unsupported shell)"))
	}
	field("Components", strings.Join(s.Components, ", "))
	if len(s.Overridden) > 0 {
		field("Overridden", strings.Join(s.Overridden, ", "))
	}
	if len(s.GeneratedFiles) > 0 {
		field("Generated", strings.Join(s.GeneratedFiles, ", "))
	} else {
		field("Generated", subtitleStyle.Render("(none)"))
	}
	fmt.Fprintln(w)

	if s.DriftError != "" {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Drift check failed:"), s.DriftError)
		return
	}
	fmt.Fprint(w, drift.FormatDriftReport(s.Drift, showDiff))

	if drift.HasDrift(s.Drift) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "To fix drifts:")
		fmt.Fprintf(w, "  %s   Regenerate from the current specs\n", keyStyle.Render("hearth generate --all"))
	}
}
