package bsa

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePipelineTable(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("chrom\tpos\tref\talt\tmu:wt_GTpred\twt_ref\twt_alt\tmu_ref\tmu_alt\n")
	for i := 0; i < n; i++ {
		// Depths biased so the delta-SNP ratio stays non-negative and
		// every bulk total is positive.
		wtRef := 15 + i%10
		wtAlt := 5 + i%5
		muRef := 5 + i%5
		muAlt := 15 + i%10
		sb.WriteString(fmt.Sprintf("1\t%d\tG\tA\t1/1:0/1\t%d\t%d\t%d\t%d\n",
			1000+i*211, wtRef, wtAlt, muRef, muAlt))
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "line.tsv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunLineEndToEnd(t *testing.T) {
	table := writePipelineTable(t, 80)
	line := LineConfig{Name: "ems_line", TablePath: table, SegregationType: "R"}
	opts := DefaultOptions()
	opts.ShuffleIterations = 10
	opts.Seed = 42

	res, err := RunLine(line, opts, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Variants) != 80 {
		t.Fatalf("pipeline returned %d variants, want 80", len(res.Variants))
	}
	for _, c := range []float64{res.Cutoffs.GS, res.Cutoffs.RS, res.Cutoffs.RSG, res.Cutoffs.RSGYhat} {
		if !isFinite(c) {
			t.Fatalf("non-finite cutoff in %+v", res.Cutoffs)
		}
	}
	for i, v := range res.Variants {
		if !isFinite(v.RatioYhat) || !isFinite(v.GSYhat) || !isFinite(v.RSGYhat) {
			t.Fatalf("row %d: non-finite smoothed values", i)
		}
	}

	// Same seed, same table: the whole line is reproducible.
	again, err := RunLine(line, opts, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if res.Cutoffs != again.Cutoffs {
		t.Fatalf("cutoffs differ across identical runs: %+v vs %+v", res.Cutoffs, again.Cutoffs)
	}
}

func TestRunLineOutputs(t *testing.T) {
	table := writePipelineTable(t, 60)
	line := LineConfig{Name: "outline", TablePath: table, SegregationType: "R"}
	opts := DefaultOptions()
	opts.ShuffleIterations = 5
	opts.Seed = 7

	res, err := RunLine(line, opts, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	resultsDir := t.TempDir()
	if err := WriteLineOutputs(line, res, resultsDir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"outline_analysis.tsv", "outline_likely_candidates.tsv", "outline_plots.html"} {
		if _, statErr := os.Stat(filepath.Join(resultsDir, name)); statErr != nil {
			t.Errorf("missing output %s: %v", name, statErr)
		}
	}
}

func TestRunLineBadSegregation(t *testing.T) {
	table := writePipelineTable(t, 10)
	line := LineConfig{Name: "bad", TablePath: table, SegregationType: "Z"}
	if _, err := RunLine(line, DefaultOptions(), discardLogger()); err == nil {
		t.Fatal("invalid segregation type accepted")
	}
}

func TestRunLineMissingTable(t *testing.T) {
	line := LineConfig{Name: "missing", TablePath: filepath.Join(t.TempDir(), "nope.tsv"), SegregationType: "R"}
	if _, err := RunLine(line, DefaultOptions(), discardLogger()); err == nil {
		t.Fatal("missing table accepted")
	}
}
