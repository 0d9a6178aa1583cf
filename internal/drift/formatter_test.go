package drift

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatDriftReport(t *testing.T) {
	t.Run("No drift", func(t *testing.T) {
		report := FormatDriftReport([]DriftResult{
			{Component: "git", Path: "/out/git.sh", DriftType: DriftOK},
			{Component: "go", Path: "/out/go.sh", DriftType: DriftOK},
		}, false)

		for _, want := range []string{"DRIFT REPORT", "[OK] ✓", "2 files match their specs", "SUMMARY: No drifts detected ✓"} {
			if !strings.Contains(report, want) {
				t.Errorf("report missing %q:\n%s", want, report)
			}
		}
	})

	t.Run("Mixed drift", func(t *testing.T) {
		results := []DriftResult{
			{Component: "git", Path: "/out/git.sh", DriftType: DriftOK},
			{Component: "go", Path: "/out/go.sh", DriftType: DriftMissing},
			{Component: "tmux", Path: "/out/tmux.sh", DriftType: DriftModified, Diff: "-a\n+b\n"},
			{Component: "git", Path: "/gen/git/.gitconfig", DriftType: DriftModified, Recorded: true},
			{Component: "old", Path: "/out/old.sh", DriftType: DriftOrphaned},
		}

		report := FormatDriftReport(results, true)
		for _, want := range []string{
			"[MISSING]\n  go\n    Path:      /out/go.sh\n",
			"→ The file was edited after it was generated",
			"→ The component spec changed since the last generate",
			"    -a\n    +b\n",
			"[ORPHANED]\n  old\n",
			"SUMMARY: 4 drifts detected\n  2 modified, 1 missing, 1 orphaned\n",
		} {
			if !strings.Contains(report, want) {
				t.Errorf("report missing %q:\n%s", want, report)
			}
		}
		if strings.Contains(report, "  git\n    Path:      /out/git.sh") {
			t.Error("OK entries should not be listed in detail")
		}

		if strings.Contains(FormatDriftReport(results, false), "    -a\n") {
			t.Error("diff shown without showDiff")
		}
	})
}

func TestDriftType(t *testing.T) {
	tests := []struct {
		d        DriftType
		str, txt string
	}{
		{DriftOK, "OK", "ok"},
		{DriftMissing, "MISSING", "missing"},
		{DriftModified, "MODIFIED", "modified"},
		{DriftOrphaned, "ORPHANED", "orphaned"},
		{DriftType(42), "UNKNOWN", "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		data, err := json.Marshal(tt.d)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `"`+tt.txt+`"` {
			t.Errorf("json = %s, want %q", data, tt.txt)
		}
	}
}
