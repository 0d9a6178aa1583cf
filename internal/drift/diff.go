package drift

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff returns a line-oriented diff turning from into to. Removed lines
// are prefixed "-", added lines "+" and unchanged lines " ". Returns "" when
// the texts are equal.
func LineDiff(from, to string) string {
	if from == to {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}

// splitLines splits text into lines without terminators. A final line
// lacking a newline is kept.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
