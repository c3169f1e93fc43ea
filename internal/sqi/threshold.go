package sqi

import "sort"

// Step is one row of a threshold table: values at or above Threshold score
// Score, unless a higher step matches first.
type Step struct {
	Threshold float64
	Score     float64
}

// SortSteps orders steps by descending threshold, keeping the input order
// of equal thresholds.
func SortSteps(steps []Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Threshold > steps[j].Threshold
	})
}

// LookupThreshold scans steps (sorted by descending threshold) and returns
// the score of the first step whose threshold is <= value. Values below the
// lowest threshold get the last step's score. It reports false only when
// steps is empty.
func LookupThreshold(value float64, steps []Step) (float64, bool) {
	if len(steps) == 0 {
		return 0, false
	}
	for _, s := range steps {
		if value >= s.Threshold {
			return s.Score, true
		}
	}
	return steps[len(steps)-1].Score, true
}
