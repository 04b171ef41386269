package bsa

import "math"

// Tolerances for the cutoff comparison. A statistic sitting numerically
// on its cutoff counts as passing.
const (
	labelRelTol = 1e-5
	labelAbsTol = 1e-8
)

func meetsCutoff(value, cutoff float64) bool {
	if value > cutoff {
		return true
	}
	return math.Abs(value-cutoff) <= labelAbsTol+labelRelTol*math.Abs(cutoff)
}

// Label sets the three significance flags on every record from the
// cutoff set. Cutoffs apply uniformly across the whole line.
func Label(variants []Variant, cutoffs CutoffSet) {
	for i := range variants {
		variants[i].GS05p = 0
		variants[i].RSG05p = 0
		variants[i].RSGYhat01p = 0
		if meetsCutoff(variants[i].GS, cutoffs.GS) {
			variants[i].GS05p = 1
		}
		if meetsCutoff(variants[i].RSG, cutoffs.RSG) {
			variants[i].RSG05p = 1
		}
		if meetsCutoff(variants[i].RSGYhat, cutoffs.RSGYhat) {
			variants[i].RSGYhat01p = 1
		}
	}
}
