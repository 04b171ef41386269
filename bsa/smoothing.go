package bsa

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Smoother fits per-chromosome LOWESS curves to the ratio, G-statistic
// and ratio-scaled G series against position. Chromosome ends are
// mirrored EdgeBound rows outward before fitting and the mirrored fits
// discarded afterwards, so the boundary bias of the local fit lands on
// reflected data instead of the genuine first and last rows.
type Smoother struct {
	Span      float64
	EdgeBound int
	Log       *slog.Logger
}

// SmoothFacet fits the three series of one chromosome facet in place.
// The facet must be sorted ascending by position.
func (s Smoother) SmoothFacet(chrom string, facet []Variant) error {
	n := len(facet)
	if n == 0 {
		return nil
	}

	for i := 1; i < n; i++ {
		if facet[i].Pos < facet[i-1].Pos {
			return &SmoothingError{Chrom: chrom, FacetSize: n,
				Err: invalidInputf("facet not sorted by position at row %d", i)}
		}
	}
	for i, v := range facet {
		if !isFinite(v.Ratio) || !isFinite(v.GS) || !isFinite(v.RSG) {
			return &SmoothingError{Chrom: chrom, FacetSize: n,
				Err: invalidInputf("non-finite feature at row %d (pos %d)", i, v.Pos)}
		}
	}

	// Mirror window, clamped for facets shorter than the configured bound.
	m := s.EdgeBound
	if m > n-1 {
		m = n - 1
	}

	deltas := make([]float64, n)
	deltas[0] = float64(facet[0].Pos)
	for i := 1; i < n; i++ {
		deltas[i] = float64(facet[i].Pos - facet[i-1].Pos)
	}

	padded := make([]float64, 0, n+2*m)
	for j := 0; j < m; j++ {
		padded = append(padded, deltas[m-j])
	}
	padded = append(padded, deltas...)
	for j := 0; j < m; j++ {
		padded = append(padded, deltas[n-2-j])
	}

	// The pseudo axis starts at 0 and accumulates the padded deltas,
	// giving a monotonic abscissa across the mirrored region.
	steps := make([]float64, len(padded))
	copy(steps[1:], padded[1:])
	pseudoPos := make([]float64, len(padded))
	floats.CumSum(pseudoPos, steps)

	mirror := func(value func(Variant) float64) []float64 {
		series := make([]float64, 0, n+2*m)
		for j := 0; j < m; j++ {
			series = append(series, value(facet[m-j]))
		}
		for i := 0; i < n; i++ {
			series = append(series, value(facet[i]))
		}
		for j := 0; j < m; j++ {
			series = append(series, value(facet[n-2-j]))
		}
		return series
	}

	fits := make([][]float64, 3)
	for i, value := range []func(Variant) float64{
		func(v Variant) float64 { return v.Ratio },
		func(v Variant) float64 { return v.GS },
		func(v Variant) float64 { return v.RSG },
	} {
		fitted, err := lowess(mirror(value), pseudoPos, s.Span)
		if err != nil {
			return &SmoothingError{Chrom: chrom, FacetSize: n, Err: err}
		}
		fits[i] = fitted[m : m+n]
	}

	for i := range facet {
		facet[i].RatioYhat = fits[0][i]
		facet[i].GSYhat = fits[1][i]
		facet[i].RSGYhat = fits[2][i]
	}
	return nil
}

// SmoothChromosomes fits every facet independently and reassembles the
// table in lexical chromosome order. Intra-chromosome order is kept.
func (s Smoother) SmoothChromosomes(facets map[string][]Variant) ([]Variant, error) {
	var smoothed []Variant
	for _, chrom := range SortedChroms(facets) {
		facet := facets[chrom]
		if s.Log != nil {
			s.Log.Info("BSA", "PROGRAM", "LOESS", "CHROMOSOME", chrom, "VARIANTS", len(facet), "STATUS", "STARTED")
		}
		if err := s.SmoothFacet(chrom, facet); err != nil {
			return nil, err
		}
		smoothed = append(smoothed, facet...)
	}
	return smoothed, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
