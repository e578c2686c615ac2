package domain

import "testing"

func TestMean(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		dims Dimensions
		want int
	}{
		{"all max", Dimensions{10, 10, 10, 10, 10}, 10},
		{"all zero", Dimensions{0, 0, 0, 0, 0}, 0},
		{"mixed rounds up", Dimensions{Structure: 8, Metrics: 7, Prioritization: 9, UserEmpathy: 6, Communication: 8}, 8},
		{"rounds down from point four", Dimensions{Structure: 7, Metrics: 7, Prioritization: 8, UserEmpathy: 8, Communication: 7}, 7},
		{"rounds down", Dimensions{Structure: 5, Metrics: 5, Prioritization: 6, UserEmpathy: 5, Communication: 5}, 5},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.dims.Mean(); got != tc.want {
				t.Fatalf("Mean(%+v) = %d, want %d", tc.dims, got, tc.want)
			}
		})
	}
}

func TestLegacyWeighted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		dims Dimensions
		want float64
	}{
		{"all max", Dimensions{10, 10, 10, 10, 10}, 10},
		{"all zero", Dimensions{0, 0, 0, 0, 0}, 0},
		{"prioritization dominates", Dimensions{Structure: 8, Metrics: 7, Prioritization: 9, UserEmpathy: 6, Communication: 8}, 7.7},
		{"single dimension", Dimensions{Prioritization: 10}, 2.5},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.dims.LegacyWeighted(); got != tc.want {
				t.Fatalf("LegacyWeighted(%+v) = %v, want %v", tc.dims, got, tc.want)
			}
		})
	}
}

func TestSplitFeedback(t *testing.T) {
	t.Parallel()

	summary, detailed := SplitFeedback("SUMMARY: good framing. DETAILED: expand on metrics next time.")
	if summary != "good framing." {
		t.Fatalf("summary = %q", summary)
	}
	if detailed != "expand on metrics next time." {
		t.Fatalf("detailed = %q", detailed)
	}

	summary, detailed = SplitFeedback("plain feedback without markers")
	if summary != "plain feedback without markers" || detailed != "" {
		t.Fatalf("unmarked feedback split = %q / %q", summary, detailed)
	}
}
