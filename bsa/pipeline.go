package bsa

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// LineConfig describes one analysis line: a mutant/wild-type bulk pair
// with its variant table and filtering choices.
type LineConfig struct {
	Name            string
	TablePath       string
	SegregationType string
	FilterIndels    bool
	FilterEMS       bool
	SnpMaskPath     string
}

// Options are the run-scoped analysis parameters shared by all lines.
type Options struct {
	Span              float64
	EdgeBound         int
	ShuffleIterations int
	Workers           int
	Seed              uint64
	ReferencePath     string
	OutputDir         string
}

// DefaultOptions mirrors the defaults of the established analysis.
func DefaultOptions() Options {
	return Options{
		Span:              0.3,
		EdgeBound:         15,
		ShuffleIterations: 1000,
	}
}

// Result is the outcome of one analysed line: the labeled table plus
// the cutoffs that produced the labels.
type Result struct {
	Variants []Variant
	Cutoffs  CutoffSet
}

// RunLine executes the full pipeline for one line: load, filter,
// features, smooth, cutoffs, label. Any error aborts this line.
func RunLine(line LineConfig, opts Options, logger *slog.Logger) (Result, error) {
	logger.Info("BSA", "PROGRAM", "ANALYSIS", "LINE", line.Name, "STATUS", "STARTED")

	variants, err := ReadVariantTable(line.TablePath)
	if err != nil {
		return Result{}, fmt.Errorf("loading %s: %w", line.TablePath, err)
	}
	logger.Info("BSA", "PROGRAM", "LOAD", "LINE", line.Name, "VARIANTS", len(variants))

	if opts.ReferencePath != "" {
		ref, refErr := ReadReference(opts.ReferencePath)
		if refErr != nil {
			return Result{}, fmt.Errorf("loading reference %s: %w", opts.ReferencePath, refErr)
		}
		if boundsErr := ref.CheckBounds(variants); boundsErr != nil {
			return Result{}, boundsErr
		}
	}

	variants, err = FilterGenotypes(line.SegregationType, variants)
	if err != nil {
		return Result{}, err
	}
	if line.FilterIndels {
		variants = DropIndels(variants)
	}
	if line.FilterEMS {
		variants = FilterEMS(variants)
	}
	if line.SnpMaskPath != "" {
		mask, maskErr := ReadSnpMask(line.SnpMaskPath)
		if maskErr != nil {
			return Result{}, maskErr
		}
		variants = MaskKnownSnps(mask, variants)
	}
	logger.Info("BSA", "PROGRAM", "FILTER", "LINE", line.Name, "VARIANTS", len(variants))

	if err = AddFeatures(variants); err != nil {
		return Result{}, err
	}
	variants = DropNA(variants)
	variants = DropNegativeRatios(variants)
	logger.Info("BSA", "PROGRAM", "FEATURES", "LINE", line.Name, "VARIANTS", len(variants))
	if len(variants) == 0 {
		return Result{}, invalidInputf("no variants left after filtering for line %s", line.Name)
	}

	smoother := Smoother{Span: opts.Span, EdgeBound: opts.EdgeBound, Log: logger}
	smoothed, err := smoother.SmoothChromosomes(ChromFacets(variants))
	if err != nil {
		return Result{}, err
	}

	estimator := CutoffEstimator{
		Span:              opts.Span,
		ShuffleIterations: opts.ShuffleIterations,
		Workers:           opts.Workers,
		Seed:              opts.Seed,
		Log:               logger,
	}
	cutoffs, err := estimator.Estimate(smoothed)
	if err != nil {
		return Result{}, err
	}

	Label(smoothed, cutoffs)
	logger.Info("BSA", "PROGRAM", "ANALYSIS", "LINE", line.Name, "STATUS", "COMPLETED")
	return Result{Variants: smoothed, Cutoffs: cutoffs}, nil
}

// WriteLineOutputs saves the augmented table, the sorted candidate
// list and the chart page for one analysed line.
func WriteLineOutputs(line LineConfig, res Result, resultsDir string) error {
	prefix := filepath.Join(resultsDir, line.Name)
	if err := WriteVariantTable(res.Variants, prefix+"_analysis.tsv"); err != nil {
		return err
	}
	if err := WriteLikelyCandidates(res.Variants, prefix+"_likely_candidates.tsv"); err != nil {
		return err
	}
	return PlotCharts(res.Variants, res.Cutoffs, prefix+"_plots.html")
}

// CreateResultsDir makes a timestamped directory under the output
// directory for this run's files.
func CreateResultsDir(outputDir string) (string, error) {
	baseDir := filepath.Join(outputDir, "phytobsaResults")
	now := time.Now()
	resultsDir := filepath.Join(baseDir, fmt.Sprintf("%02d_%02d_%04d_%02d_%02d_%02d",
		now.Day(), now.Month(), now.Year(), now.Hour(), now.Minute(), now.Second()))
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return "", err
	}
	return resultsDir, nil
}

// Run analyses every configured line. A failing line is logged and
// skipped; the run fails only if every line fails.
func Run(lines []LineConfig, opts Options, logger *slog.Logger) error {
	resultsDir, err := CreateResultsDir(opts.OutputDir)
	if err != nil {
		return err
	}

	failed := 0
	for _, line := range lines {
		res, lineErr := RunLine(line, opts, logger)
		if lineErr == nil {
			lineErr = WriteLineOutputs(line, res, resultsDir)
		}
		if lineErr != nil {
			logger.Error("BSA", "PROGRAM", "ANALYSIS", "LINE", line.Name, "STATUS", fmt.Sprintf("FAILED: %v", lineErr))
			failed++
			continue
		}
	}
	if failed == len(lines) && len(lines) > 0 {
		return fmt.Errorf("all %d analysis lines failed", len(lines))
	}
	return nil
}
