package bsa

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
)

var tableHeader = []string{
	"chrom", "pos", "ref", "alt", "mu:wt_GTpred",
	"wt_ref", "wt_alt", "mu_ref", "mu_alt",
	"ratio", "G_S", "RS_G",
	"ratio_yhat", "GS_yhat", "RS_G_yhat",
	"G_S_05p", "RS_G_05p", "RS_G_yhat_01p",
}

// WriteVariantTable writes the augmented table as TSV.
func WriteVariantTable(variants []Variant, outputFile string) error {
	file, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = '\t'
	defer writer.Flush()

	if hErr := writer.Write(tableHeader); hErr != nil {
		return hErr
	}

	for _, v := range variants {
		record := []string{
			v.Chrom, strconv.Itoa(v.Pos), v.Ref, v.Alt, v.GTPred,
			strconv.Itoa(v.WtRef), strconv.Itoa(v.WtAlt), strconv.Itoa(v.MuRef), strconv.Itoa(v.MuAlt),
			strconv.FormatFloat(v.Ratio, 'f', 6, 64),
			strconv.FormatFloat(v.GS, 'f', 6, 64),
			strconv.FormatFloat(v.RSG, 'f', 6, 64),
			strconv.FormatFloat(v.RatioYhat, 'f', 6, 64),
			strconv.FormatFloat(v.GSYhat, 'f', 6, 64),
			strconv.FormatFloat(v.RSGYhat, 'f', 6, 64),
			strconv.Itoa(v.GS05p), strconv.Itoa(v.RSG05p), strconv.Itoa(v.RSGYhat01p),
		}
		if wErr := writer.Write(record); wErr != nil {
			return wErr
		}
	}

	return writer.Error()
}

// LikelyCandidates returns the flagged records sorted for review:
// smoothed ratio-scaled G first, then raw G, then raw ratio-scaled G,
// all descending.
func LikelyCandidates(variants []Variant) []Variant {
	var candidates []Variant
	for _, v := range variants {
		if v.LikelyCandidate() {
			candidates = append(candidates, v)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.RSGYhat01p != b.RSGYhat01p {
			return a.RSGYhat01p > b.RSGYhat01p
		}
		if a.GS05p != b.GS05p {
			return a.GS05p > b.GS05p
		}
		return a.RSG05p > b.RSG05p
	})
	return candidates
}

// WriteLikelyCandidates writes the sorted candidate subset as TSV.
func WriteLikelyCandidates(variants []Variant, outputFile string) error {
	return WriteVariantTable(LikelyCandidates(variants), outputFile)
}
