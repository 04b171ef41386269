package bsa

import "math"

// deltaSnpArray quantifies allelic divergence between the bulks at each
// site. A bulk with zero total depth yields a non-finite ratio on
// purpose; DropNA removes those rows before smoothing.
func deltaSnpArray(wtRef, wtAlt, muRef, muAlt []float64) []float64 {
	ratio := make([]float64, len(wtRef))
	for i := range wtRef {
		ratio[i] = wtRef[i]/(wtRef[i]+wtAlt[i]) - muRef[i]/(muRef[i]+muAlt[i])
	}
	return ratio
}

// gStatisticArray computes the log-likelihood-ratio statistic for
// independence of allele counts between the bulks, from a 2x2
// contingency of bulk x allele. Guards: a zero grand total gives 0, a
// term with observed/expected <= 0 contributes 0, and any expected
// count of exactly 0 forces the whole statistic to 0. The last guard
// overrides the remaining terms; it is kept as-is for parity with the
// established analysis.
func gStatisticArray(wtRef, wtAlt, muRef, muAlt []float64) []float64 {
	gStat := make([]float64, len(wtRef))
	for i := range wtRef {
		total := wtRef[i] + wtAlt[i] + muRef[i] + muAlt[i]
		if total == 0 {
			gStat[i] = 0
			continue
		}

		e1 := (wtRef[i] + muRef[i]) * (wtRef[i] + wtAlt[i]) / total
		e2 := (wtRef[i] + muRef[i]) * (muRef[i] + muAlt[i]) / total
		e3 := (wtAlt[i] + muAlt[i]) * (wtRef[i] + wtAlt[i]) / total
		e4 := (wtAlt[i] + muAlt[i]) * (muRef[i] + muAlt[i]) / total

		if e1*e2*e3*e4 == 0 {
			gStat[i] = 0
			continue
		}

		g := 0.0
		g += llrTerm(wtRef[i], e1)
		g += llrTerm(muRef[i], e2)
		g += llrTerm(wtAlt[i], e3)
		g += llrTerm(muAlt[i], e4)
		gStat[i] = g
	}
	return gStat
}

func llrTerm(observed, expected float64) float64 {
	if observed/expected > 0 {
		return 2 * observed * math.Log(observed/expected)
	}
	return 0
}

// ComputeFeatures is the elementwise transform from the four read-depth
// arrays to ratio, G-statistic and ratio-scaled G. Pure; the only
// failure mode is mismatched array lengths.
func ComputeFeatures(wtRef, wtAlt, muRef, muAlt []float64) (ratio, gStat, rsG []float64, err error) {
	n := len(wtRef)
	if len(wtAlt) != n || len(muRef) != n || len(muAlt) != n {
		return nil, nil, nil, invalidInputf("depth array lengths differ: %d, %d, %d, %d",
			len(wtRef), len(wtAlt), len(muRef), len(muAlt))
	}

	ratio = deltaSnpArray(wtRef, wtAlt, muRef, muAlt)
	gStat = gStatisticArray(wtRef, wtAlt, muRef, muAlt)
	rsG = make([]float64, n)
	for i := range rsG {
		rsG[i] = ratio[i] * gStat[i]
	}
	return ratio, gStat, rsG, nil
}

// AddFeatures computes the feature columns for a record slice in place.
func AddFeatures(variants []Variant) error {
	wtRef := make([]float64, len(variants))
	wtAlt := make([]float64, len(variants))
	muRef := make([]float64, len(variants))
	muAlt := make([]float64, len(variants))
	for i, v := range variants {
		wtRef[i] = float64(v.WtRef)
		wtAlt[i] = float64(v.WtAlt)
		muRef[i] = float64(v.MuRef)
		muAlt[i] = float64(v.MuAlt)
	}

	ratio, gStat, rsG, err := ComputeFeatures(wtRef, wtAlt, muRef, muAlt)
	if err != nil {
		return err
	}
	for i := range variants {
		variants[i].Ratio = ratio[i]
		variants[i].GS = gStat[i]
		variants[i].RSG = rsG[i]
	}
	return nil
}
