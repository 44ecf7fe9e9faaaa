package reports

import (
	"math"
	"sort"
)

// toMinutes converts seconds to whole minutes by truncation. Every report
// uses this so minute figures never disagree across reports.
func toMinutes(seconds int) int {
	return seconds / 60
}

// percent computes 100*part/whole rounded to one decimal place. A zero
// denominator yields 0, never NaN.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(1000*float64(part)/float64(whole)) / 10
}

// mean returns the arithmetic mean, 0 for an empty input.
func mean(sum int64, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// percentile returns the p-th percentile (0..1) of values using linear
// interpolation between closest ranks. values need not be sorted.
func percentile(values []int, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[hi]-sorted[lo])
}

// mode returns the most frequent key; ties break to the lexicographically
// smaller key so the result is deterministic. Empty input yields "".
func mode(counts map[string]int) string {
	best := ""
	bestCount := -1
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best = k
			bestCount = n
		}
	}
	return best
}
