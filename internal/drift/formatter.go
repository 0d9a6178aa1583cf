package drift

import (
	"fmt"
	"strings"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

// FormatDriftReport formats drift results for user display. Diffs are
// included when showDiff is set.
func FormatDriftReport(results []DriftResult, showDiff bool) string {
	var sb strings.Builder
	sb.Grow(1024 + len(results)*256)

	sb.WriteString("\n" + rule)
	sb.WriteString("DRIFT REPORT\n")
	sb.WriteString(rule + "\n")

	counts := make(map[DriftType]int)
	for _, r := range results {
		counts[r.DriftType]++
	}

	// Detailed view skips OK entries
	for _, r := range results {
		if r.DriftType == DriftOK {
			continue
		}
		sb.WriteString(formatDriftEntry(r, showDiff))
		sb.WriteString("\n")
	}

	okCount := counts[DriftOK]
	if okCount > 0 {
		sb.WriteString(fmt.Sprintf("[OK] ✓\n  %d files match their specs\n\n", okCount))
	}

	sb.WriteString(rule)

	totalDrifts := len(results) - okCount
	if totalDrifts == 0 {
		sb.WriteString("SUMMARY: No drifts detected ✓\n")
	} else {
		sb.WriteString(fmt.Sprintf("SUMMARY: %d drifts detected\n", totalDrifts))

		var parts []string
		if counts[DriftModified] > 0 {
			parts = append(parts, fmt.Sprintf("%d modified", counts[DriftModified]))
		}
		if counts[DriftMissing] > 0 {
			parts = append(parts, fmt.Sprintf("%d missing", counts[DriftMissing]))
		}
		if counts[DriftOrphaned] > 0 {
			parts = append(parts, fmt.Sprintf("%d orphaned", counts[DriftOrphaned]))
		}
		sb.WriteString("  " + strings.Join(parts, ", ") + "\n")
	}

	sb.WriteString(rule)
	return sb.String()
}

// formatDriftEntry formats a single drift entry
func formatDriftEntry(r DriftResult, showDiff bool) string {
	var sb strings.Builder
	sb.Grow(512)

	label := r.Component
	if label == "" {
		label = string(r.Kind)
	}

	switch r.DriftType {
	case DriftMissing:
		sb.WriteString("[MISSING]\n")
		sb.WriteString(fmt.Sprintf("  %s\n", label))
		sb.WriteString(fmt.Sprintf("    Path:      %s\n", r.Path))
		sb.WriteString("    \n")
		sb.WriteString("    → Not generated yet; run 'hearth generate'\n")

	case DriftModified:
		sb.WriteString("[MODIFIED]\n")
		sb.WriteString(fmt.Sprintf("  %s\n", label))
		sb.WriteString(fmt.Sprintf("    Path:      %s\n", r.Path))
		sb.WriteString("    \n")
		if r.Recorded {
			sb.WriteString("    → The component spec changed since the last generate\n")
		} else {
			sb.WriteString("    → The file was edited after it was generated\n")
		}
		if showDiff && r.Diff != "" {
			sb.WriteString("    \n")
			for _, line := range splitLines(r.Diff) {
				sb.WriteString("    " + line + "\n")
			}
		}

	case DriftOrphaned:
		sb.WriteString("[ORPHANED]\n")
		sb.WriteString(fmt.Sprintf("  %s\n", label))
		sb.WriteString(fmt.Sprintf("    Path:      %s\n", r.Path))
		sb.WriteString("    \n")
		sb.WriteString("    → No registered component generates this file\n")
	}

	return sb.String()
}
