package bsa

// Record filters applied between loading and feature computation.
// These mirror the cleaning steps of the established analysis: the
// engine itself assumes a pre-filtered table.

// DropIndels removes insertion/deletion records, keeping single-base
// ref and alt alleles only.
func DropIndels(variants []Variant) []Variant {
	kept := variants[:0]
	for _, v := range variants {
		if len(v.Ref) <= 1 && len(v.Alt) <= 1 {
			kept = append(kept, v)
		}
	}
	return kept
}

// FilterGenotypes keeps records whose mu:wt genotype call matches the
// segregation pattern. 0/1:0/1 is retained for both patterns because
// the caller occasionally leaks heterozygous calls; the negative
// ratios those rows produce are cut after feature computation instead.
func FilterGenotypes(segregationType string, variants []Variant) ([]Variant, error) {
	var segFilter []string
	switch segregationType {
	case "R":
		segFilter = []string{"1/1:0/1", "0/1:0/0", "0/1:0/1"}
	case "D":
		segFilter = []string{"0/1:0/0", "1/1:0/0", "0/1:0/1"}
	default:
		return nil, invalidInputf("segregation type %q is not R or D", segregationType)
	}

	allowed := make(map[string]bool, len(segFilter))
	for _, gt := range segFilter {
		allowed[gt] = true
	}

	kept := variants[:0]
	for _, v := range variants {
		if allowed[v.GTPred] {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

// emsChanges are the canonical EMS-induced transitions.
var emsChanges = map[[2]string]bool{
	{"G", "A"}: true,
	{"C", "T"}: true,
	{"A", "G"}: true,
	{"T", "C"}: true,
}

// FilterEMS keeps mutations likely to arise through EMS exposure.
func FilterEMS(variants []Variant) []Variant {
	kept := variants[:0]
	for _, v := range variants {
		if emsChanges[[2]string{v.Ref, v.Alt}] {
			kept = append(kept, v)
		}
	}
	return kept
}

// SnpMaskKey identifies a background SNP for masking.
type SnpMaskKey struct {
	Chrom string
	Pos   int
	Ref   string
	Alt   string
}

// MaskKnownSnps removes records present in the background SNP set,
// typically divergence between the mutagenized line and the reference
// genome that carries no linkage information.
func MaskKnownSnps(mask map[SnpMaskKey]bool, variants []Variant) []Variant {
	kept := variants[:0]
	for _, v := range variants {
		if !mask[SnpMaskKey{Chrom: v.Chrom, Pos: v.Pos, Ref: v.Ref, Alt: v.Alt}] {
			kept = append(kept, v)
		}
	}
	return kept
}

// DropNA removes rows whose ratio is non-finite, the documented outcome
// of a zero single-bulk total. Runs after feature computation and
// before smoothing.
func DropNA(variants []Variant) []Variant {
	kept := variants[:0]
	for _, v := range variants {
		if isFinite(v.Ratio) {
			kept = append(kept, v)
		}
	}
	return kept
}

// DropNegativeRatios removes rows with a negative delta-SNP ratio,
// which arise almost exclusively from leaky 0/1:0/1 genotype calls.
func DropNegativeRatios(variants []Variant) []Variant {
	kept := variants[:0]
	for _, v := range variants {
		if v.Ratio >= 0 {
			kept = append(kept, v)
		}
	}
	return kept
}
