package bsa

import (
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Reference holds chromosome lengths read from the reference genome,
// used to sanity-check variant coordinates before analysis and to
// order chromosomes by their declaration in the FASTA.
type Reference struct {
	Lengths map[string]int
	Order   []string
}

// ReadReference scans a FASTA file and records each sequence length.
func ReadReference(fastaFile string) (*Reference, error) {
	file, err := os.Open(fastaFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := fasta.NewReader(file, linear.NewSeq("", nil, alphabet.DNA))
	sc := seqio.NewScanner(r)

	ref := &Reference{Lengths: make(map[string]int)}
	for sc.Next() {
		seq := sc.Seq().(*linear.Seq)
		ref.Lengths[seq.ID] = seq.Len()
		ref.Order = append(ref.Order, seq.ID)
	}
	if scErr := sc.Error(); scErr != nil {
		return nil, scErr
	}
	return ref, nil
}

// CheckBounds rejects records on chromosomes absent from the reference
// or with positions beyond the chromosome end.
func (r *Reference) CheckBounds(variants []Variant) error {
	for i, v := range variants {
		length, ok := r.Lengths[v.Chrom]
		if !ok {
			return invalidInputf("row %d: chromosome %s not in reference", i+1, v.Chrom)
		}
		if v.Pos > length {
			return invalidInputf("row %d: position %d beyond end of %s (%d bp)", i+1, v.Pos, v.Chrom, length)
		}
	}
	return nil
}
