package domain

import (
	"math"
	"strings"
)

// Dimensions are the five scored axes of an answer, each an integer 0-10.
type Dimensions struct {
	Structure      int
	Metrics        int
	Prioritization int
	UserEmpathy    int
	Communication  int
}

// Mean is the canonical overall score: the simple average of the five
// dimensions rounded to the nearest integer.
func (d Dimensions) Mean() int {
	sum := d.Structure + d.Metrics + d.Prioritization + d.UserEmpathy + d.Communication
	return int(math.Round(float64(sum) / 5))
}

// LegacyWeighted is the historical overall formula, retained only for
// rendering scores that were stored under it. Prioritization carries the
// largest weight, communication the smallest. Rounded to one decimal.
func (d Dimensions) LegacyWeighted() float64 {
	weighted := 0.2*float64(d.Structure) +
		0.2*float64(d.Metrics) +
		0.25*float64(d.Prioritization) +
		0.2*float64(d.UserEmpathy) +
		0.15*float64(d.Communication)
	return math.Round(weighted*10) / 10
}

// Score is the evaluation of one submitted answer. Overall is server-provided
// when available, otherwise computed from the dimensions.
type Score struct {
	Dimensions   Dimensions
	Overall      int
	Feedback     string
	SampleAnswer string
}

// SplitFeedback separates feedback that carries SUMMARY:/DETAILED: markers.
// Feedback without markers is returned whole as the summary.
func SplitFeedback(feedback string) (summary, detailed string) {
	const (
		summaryMarker  = "SUMMARY:"
		detailedMarker = "DETAILED:"
	)
	rest := feedback
	if idx := strings.Index(rest, detailedMarker); idx >= 0 {
		detailed = strings.TrimSpace(rest[idx+len(detailedMarker):])
		rest = rest[:idx]
	}
	summary = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), summaryMarker))
	summary = strings.TrimSpace(summary)
	return summary, detailed
}
