package bsa

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Variant is one polymorphic site carried through the whole pipeline.
// The loader fills the first block; each stage appends to the rest in
// place. Once written out the records are treated as read-only.
type Variant struct {
	Chrom  string
	Pos    int
	Ref    string
	Alt    string
	GTPred string
	WtRef  int
	WtAlt  int
	MuRef  int
	MuAlt  int

	Ratio float64
	GS    float64
	RSG   float64

	RatioYhat float64
	GSYhat    float64
	RSGYhat   float64

	GS05p      int
	RSG05p     int
	RSGYhat01p int
}

// LikelyCandidate reports whether any significance flag is set.
func (v Variant) LikelyCandidate() bool {
	return v.GS05p == 1 || v.RSG05p == 1 || v.RSGYhat01p == 1
}

var requiredColumns = []string{"chrom", "pos", "ref", "alt", "mu:wt_GTpred", "wt_ref", "wt_alt", "mu_ref", "mu_alt"}

// ReadVariantTable loads a tab-separated variant table into records.
// Column presence is validated once here; everything downstream works
// on the typed slice.
func ReadVariantTable(tsvFile string) ([]Variant, error) {
	file, err := os.Open(tsvFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	df := dataframe.ReadCSV(file, dataframe.WithDelimiter('\t'), dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, invalidInputf("reading %s: %v", tsvFile, df.Err)
	}

	names := make(map[string]bool, len(df.Names()))
	for _, n := range df.Names() {
		names[n] = true
	}
	for _, col := range requiredColumns {
		if !names[col] {
			return nil, invalidInputf("required column %s not found in %s", col, tsvFile)
		}
	}

	chroms := df.Col("chrom").Records()
	positions := df.Col("pos").Records()
	refs := df.Col("ref").Records()
	alts := df.Col("alt").Records()
	gts := df.Col("mu:wt_GTpred").Records()
	wtRefs := df.Col("wt_ref").Records()
	wtAlts := df.Col("wt_alt").Records()
	muRefs := df.Col("mu_ref").Records()
	muAlts := df.Col("mu_alt").Records()

	variants := make([]Variant, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		pos, posErr := strconv.Atoi(positions[i])
		if posErr != nil || pos < 0 {
			return nil, invalidInputf("row %d: bad position %q", i+1, positions[i])
		}
		depths := [4]int{}
		for j, cell := range []string{wtRefs[i], wtAlts[i], muRefs[i], muAlts[i]} {
			d, dErr := strconv.Atoi(cell)
			if dErr != nil || d < 0 {
				return nil, invalidInputf("row %d: bad read depth %q in column %s", i+1, cell, requiredColumns[5+j])
			}
			depths[j] = d
		}
		variants = append(variants, Variant{
			Chrom:  chroms[i],
			Pos:    pos,
			Ref:    refs[i],
			Alt:    alts[i],
			GTPred: gts[i],
			WtRef:  depths[0],
			WtAlt:  depths[1],
			MuRef:  depths[2],
			MuAlt:  depths[3],
		})
	}
	return variants, nil
}

// ReadSnpMask loads a background SNP table (chrom, pos, ref, alt;
// header names case-insensitive) into a lookup set for MaskKnownSnps.
func ReadSnpMask(tsvFile string) (map[SnpMaskKey]bool, error) {
	file, err := os.Open(tsvFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	df := dataframe.ReadCSV(file, dataframe.WithDelimiter('\t'), dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, invalidInputf("reading snpmask %s: %v", tsvFile, df.Err)
	}

	cols := make(map[string]string, len(df.Names()))
	for _, n := range df.Names() {
		cols[strings.ToLower(n)] = n
	}
	for _, want := range []string{"chrom", "pos", "ref", "alt"} {
		if _, ok := cols[want]; !ok {
			return nil, invalidInputf("snpmask %s is missing column %s", tsvFile, want)
		}
	}

	chroms := df.Col(cols["chrom"]).Records()
	positions := df.Col(cols["pos"]).Records()
	refs := df.Col(cols["ref"]).Records()
	alts := df.Col(cols["alt"]).Records()

	mask := make(map[SnpMaskKey]bool, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		pos, posErr := strconv.Atoi(positions[i])
		if posErr != nil {
			return nil, invalidInputf("snpmask row %d: bad position %q", i+1, positions[i])
		}
		mask[SnpMaskKey{Chrom: chroms[i], Pos: pos, Ref: refs[i], Alt: alts[i]}] = true
	}
	return mask, nil
}

// ChromFacets splits records by chromosome and sorts each facet
// ascending by position. Smoothing assumes this ordering.
func ChromFacets(variants []Variant) map[string][]Variant {
	facets := make(map[string][]Variant)
	for _, v := range variants {
		facets[v.Chrom] = append(facets[v.Chrom], v)
	}
	for _, facet := range facets {
		sort.Slice(facet, func(i, j int) bool {
			return facet[i].Pos < facet[j].Pos
		})
	}
	return facets
}

// SortedChroms returns facet keys in lexical order, the order used for
// exports and plot pages.
func SortedChroms(facets map[string][]Variant) []string {
	chroms := make([]string, 0, len(facets))
	for chrom := range facets {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}
