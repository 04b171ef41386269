package bsa

import (
	"errors"
	"math"
	"testing"
)

// makeFacet builds a sorted single-chromosome facet with deterministic,
// smoothly varying features.
func makeFacet(n int) []Variant {
	facet := make([]Variant, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		facet[i] = Variant{
			Chrom: "1",
			Pos:   100 + i*250,
			Ratio: 0.4 + 0.3*math.Sin(x/7),
			GS:    5 + 2*math.Cos(x/11) + 0.05*x,
		}
		facet[i].RSG = facet[i].Ratio * facet[i].GS
	}
	return facet
}

func TestSmoothFacetPreservesLength(t *testing.T) {
	for _, n := range []int{50, 100} {
		facet := makeFacet(n)
		s := Smoother{Span: 0.3, EdgeBound: 15}
		if err := s.SmoothFacet("1", facet); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(facet) != n {
			t.Fatalf("n=%d: smoothed facet has %d rows", n, len(facet))
		}
		for i, v := range facet {
			if !isFinite(v.RatioYhat) || !isFinite(v.GSYhat) || !isFinite(v.RSGYhat) {
				t.Fatalf("n=%d row %d: non-finite fit", n, i)
			}
		}
	}
}

func TestSmoothFacetBoundaryDamped(t *testing.T) {
	facet := makeFacet(50)
	s := Smoother{Span: 0.3, EdgeBound: 15}
	if err := s.SmoothFacet("1", facet); err != nil {
		t.Fatal(err)
	}
	// The fitted curve must not jump at the boundary: the first fitted
	// value stays close to its neighbour relative to the series spread.
	spread := 0.0
	for _, v := range facet {
		spread = math.Max(spread, math.Abs(v.GS))
	}
	if d := math.Abs(facet[0].GSYhat - facet[1].GSYhat); d > 0.25*spread {
		t.Errorf("boundary discontinuity: |yhat[0]-yhat[1]| = %v with spread %v", d, spread)
	}
}

func TestSmoothFacetDeterministic(t *testing.T) {
	a := makeFacet(60)
	b := makeFacet(60)
	s := Smoother{Span: 0.3, EdgeBound: 15}
	if err := s.SmoothFacet("1", a); err != nil {
		t.Fatal(err)
	}
	if err := s.SmoothFacet("1", b); err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].RatioYhat != b[i].RatioYhat || a[i].GSYhat != b[i].GSYhat || a[i].RSGYhat != b[i].RSGYhat {
			t.Fatalf("row %d: identical inputs gave different fits", i)
		}
	}
}

func TestSmoothFacetShorterThanMirrorWindow(t *testing.T) {
	// Facets shorter than 2*EdgeBound clamp the mirror window instead
	// of indexing out of range.
	for _, n := range []int{1, 2, 5, 20, 29} {
		facet := makeFacet(n)
		s := Smoother{Span: 0.5, EdgeBound: 15}
		if err := s.SmoothFacet("1", facet); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(facet) != n {
			t.Fatalf("n=%d: got %d rows back", n, len(facet))
		}
	}
}

func TestSmoothFacetUnsorted(t *testing.T) {
	facet := makeFacet(30)
	facet[10].Pos, facet[11].Pos = facet[11].Pos, facet[10].Pos
	s := Smoother{Span: 0.3, EdgeBound: 15}
	err := s.SmoothFacet("1", facet)
	var smErr *SmoothingError
	if !errors.As(err, &smErr) {
		t.Fatalf("expected SmoothingError for unsorted facet, got %v", err)
	}
	if smErr.Chrom != "1" || smErr.FacetSize != 30 {
		t.Errorf("error carries chrom %q size %d, want %q %d", smErr.Chrom, smErr.FacetSize, "1", 30)
	}
}

func TestSmoothFacetNonFinite(t *testing.T) {
	facet := makeFacet(30)
	facet[7].Ratio = math.NaN()
	facet[7].RSG = math.NaN()
	s := Smoother{Span: 0.3, EdgeBound: 15}
	err := s.SmoothFacet("1", facet)
	var smErr *SmoothingError
	if !errors.As(err, &smErr) {
		t.Fatalf("expected SmoothingError for non-finite input, got %v", err)
	}
}

func TestSmoothChromosomesKeepsIntraChromOrder(t *testing.T) {
	variants := append(makeFacet(40), func() []Variant {
		other := makeFacet(35)
		for i := range other {
			other[i].Chrom = "2"
		}
		return other
	}()...)

	s := Smoother{Span: 0.3, EdgeBound: 15}
	smoothed, err := s.SmoothChromosomes(ChromFacets(variants))
	if err != nil {
		t.Fatal(err)
	}
	if len(smoothed) != len(variants) {
		t.Fatalf("got %d rows, want %d", len(smoothed), len(variants))
	}

	lastPos := map[string]int{}
	for _, v := range smoothed {
		if prev, ok := lastPos[v.Chrom]; ok && v.Pos < prev {
			t.Fatalf("chrom %s: positions out of order after smoothing", v.Chrom)
		}
		lastPos[v.Chrom] = v.Pos
	}
}

func TestLowessConstantSeries(t *testing.T) {
	n := 40
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i * 10)
		y[i] = 3.5
	}
	fitted, err := lowess(y, x, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range fitted {
		if math.Abs(f-3.5) > 1e-9 {
			t.Fatalf("index %d: constant series fitted to %v", i, f)
		}
	}
}

func TestLowessRejectsBadSpan(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 2, 3}
	if _, err := lowess(y, x, 0); err == nil {
		t.Error("span 0 accepted")
	}
	if _, err := lowess(y, x, 1.5); err == nil {
		t.Error("span > 1 accepted")
	}
}

func TestLowessUnsortedAbscissa(t *testing.T) {
	if _, err := lowess([]float64{1, 2, 3}, []float64{3, 1, 2}, 0.5); err == nil {
		t.Error("unsorted abscissa accepted")
	}
}
