package bsa

import (
	"errors"
	"math"
	"testing"
)

func TestComputeFeaturesLengthMismatch(t *testing.T) {
	_, _, _, err := ComputeFeatures([]float64{1, 2}, []float64{1}, []float64{1, 2}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for mismatched array lengths")
	}
	var invErr *InvalidInputError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidInputError, got %T: %v", err, err)
	}
}

func TestComputeFeaturesFourVariants(t *testing.T) {
	// Positions 100..400 on one chromosome, depths chosen so every row
	// stays finite.
	wtRef := []float64{10, 10, 15, 20}
	wtAlt := []float64{10, 10, 5, 0}
	muRef := []float64{5, 10, 10, 0}
	muAlt := []float64{15, 10, 10, 20}

	ratio, gStat, rsG, err := ComputeFeatures(wtRef, wtAlt, muRef, muAlt)
	if err != nil {
		t.Fatal(err)
	}
	if len(ratio) != 4 || len(gStat) != 4 || len(rsG) != 4 {
		t.Fatalf("expected 4 values per output, got %d, %d, %d", len(ratio), len(gStat), len(rsG))
	}

	for i := range ratio {
		if !isFinite(ratio[i]) {
			t.Errorf("row %d: ratio %v not finite", i, ratio[i])
		}
		if !isFinite(gStat[i]) || gStat[i] < 0 {
			t.Errorf("row %d: G %v not finite and non-negative", i, gStat[i])
		}
		if ratio[i] < -1 || ratio[i] > 1 {
			t.Errorf("row %d: ratio %v outside [-1,1]", i, ratio[i])
		}
		if rsG[i] != ratio[i]*gStat[i] {
			t.Errorf("row %d: RS_G %v != ratio*G %v", i, rsG[i], ratio[i]*gStat[i])
		}
	}

	// Row 1 has identical depth profiles in both bulks: no divergence.
	if ratio[1] != 0 {
		t.Errorf("balanced row: ratio = %v, want 0", ratio[1])
	}
	if gStat[1] != 0 {
		t.Errorf("balanced row: G = %v, want 0", gStat[1])
	}
}

func TestGStatisticZeroExpectedGuard(t *testing.T) {
	// Both bulks carry zero alt reads, so both alt-column expected
	// counts are 0; the guard forces the whole statistic to 0 even
	// though the ref terms are well defined.
	gStat := gStatisticArray([]float64{20}, []float64{0}, []float64{20}, []float64{0})
	if gStat[0] != 0 {
		t.Fatalf("zero expected count must force G to 0, got %v", gStat[0])
	}
}

func TestComputeFeaturesAllZeroDepths(t *testing.T) {
	ratio, gStat, rsG, err := ComputeFeatures([]float64{0}, []float64{0}, []float64{0}, []float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(ratio[0]) {
		t.Errorf("ratio of all-zero depths = %v, want NaN", ratio[0])
	}
	if gStat[0] != 0 {
		t.Errorf("G of all-zero depths = %v, want 0", gStat[0])
	}
	if !math.IsNaN(rsG[0]) {
		t.Errorf("RS_G of all-zero depths = %v, want NaN", rsG[0])
	}
}

func TestComputeFeaturesSingleBulkZeroTotal(t *testing.T) {
	// A zero wt total is not guarded: the ratio goes non-finite and an
	// external drop stage removes the row.
	ratio, gStat, _, err := ComputeFeatures([]float64{0}, []float64{0}, []float64{10}, []float64{10})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(ratio[0]) {
		t.Errorf("ratio with zero wt total = %v, want NaN", ratio[0])
	}
	if !isFinite(gStat[0]) {
		t.Errorf("G with zero wt total = %v, want finite", gStat[0])
	}
}

func TestGStatisticNonNegative(t *testing.T) {
	wtRef := []float64{1, 3, 7, 50, 100, 2, 9, 31}
	wtAlt := []float64{9, 7, 3, 50, 1, 40, 9, 2}
	muRef := []float64{5, 5, 1, 25, 50, 13, 9, 17}
	muAlt := []float64{5, 5, 9, 75, 51, 8, 9, 23}
	gStat := gStatisticArray(wtRef, wtAlt, muRef, muAlt)
	for i, g := range gStat {
		if g < 0 || !isFinite(g) {
			t.Errorf("row %d: G = %v, want finite and >= 0", i, g)
		}
	}
}

func TestAddFeatures(t *testing.T) {
	variants := []Variant{
		{Chrom: "1", Pos: 100, WtRef: 10, WtAlt: 10, MuRef: 5, MuAlt: 15},
		{Chrom: "1", Pos: 200, WtRef: 15, WtAlt: 5, MuRef: 10, MuAlt: 10},
	}
	if err := AddFeatures(variants); err != nil {
		t.Fatal(err)
	}
	if variants[0].Ratio != 0.5-0.25 {
		t.Errorf("ratio = %v, want 0.25", variants[0].Ratio)
	}
	if variants[0].RSG != variants[0].Ratio*variants[0].GS {
		t.Errorf("RS_G = %v, want ratio*G", variants[0].RSG)
	}
}
