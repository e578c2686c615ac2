package components

import (
	"fmt"
	"strings"

	"pmprep/internal/ui/theme"
)

// ScoreBar renders a labeled 0..10 bar, e.g. "structure      ████████░░  8".
func ScoreBar(label string, score int) string {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	// Pad before styling so the ANSI escapes do not skew the column width.
	padded := fmt.Sprintf("%-16s", label)
	filled := theme.ScoreStyle(score).Render(strings.Repeat("█", score))
	empty := theme.Muted.Render(strings.Repeat("░", 10-score))
	return theme.Muted.Render(padded) + filled + empty + "  " +
		theme.ScoreStyle(score).Render(fmt.Sprintf("%d", score))
}
