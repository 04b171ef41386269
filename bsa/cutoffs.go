package bsa

import (
	"log/slog"
	"math"
	"runtime"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// CutoffSet holds the four run-scoped significance thresholds derived
// from the randomization null. Immutable once computed.
type CutoffSet struct {
	GS      float64
	RS      float64
	RSG     float64
	RSGYhat float64
}

// CutoffEstimator derives empirical cutoffs by repeatedly resampling
// the raw read depths with the position/genotype linkage destroyed.
// Positions, wt depth pairs and mu depth pairs are drawn as three
// independent subsets and recombined row-wise, so even the original
// wt/mu pairing is broken; the pooled statistics across all trials
// form the null distribution.
type CutoffEstimator struct {
	Span              float64
	ShuffleIterations int
	Workers           int    // <= 0 uses all CPU cores
	Seed              uint64 // 0 seeds from the clock; nonzero is reproducible
	Log               *slog.Logger
}

// subsampleFraction keeps the per-trial workload in check for large
// variant counts: the full table below 1000 variants, 5% above 20000,
// linear in between.
func subsampleFraction(n int) float64 {
	switch {
	case n > 20000:
		return 0.05
	case n < 1000:
		return 1.0
	default:
		return 1.0 + (float64(n)-1000)*(0.05-1.0)/(20000-1000)
	}
}

type trialResult struct {
	gStat  []float64
	ratio  []float64
	rsG    []float64
	rsGFit []float64
}

// Estimate runs the configured number of independent trials on a
// bounded worker pool and pools their statistics into four quantile
// cutoffs. Any failed trial aborts the whole estimate.
func (e CutoffEstimator) Estimate(variants []Variant) (CutoffSet, error) {
	n := len(variants)
	if n == 0 {
		return CutoffSet{}, invalidInputf("empirical cutoffs need at least one variant")
	}
	if e.ShuffleIterations <= 0 {
		return CutoffSet{}, invalidInputf("shuffle iterations must be positive, got %d", e.ShuffleIterations)
	}

	frac := subsampleFraction(n)
	sampleSize := int(math.Round(frac * float64(n)))
	if sampleSize < 1 {
		sampleSize = 1
	}

	if e.Log != nil {
		e.Log.Info("BSA", "PROGRAM", "BOOTSTRAP", "VARIANTS", n,
			"SUBSAMPLE_PERCENT", frac*100, "TRIALS", e.ShuffleIterations, "STATUS", "STARTED")
	}

	positions := make([]float64, n)
	wtRef := make([]float64, n)
	wtAlt := make([]float64, n)
	muRef := make([]float64, n)
	muAlt := make([]float64, n)
	for i, v := range variants {
		positions[i] = float64(v.Pos)
		wtRef[i] = float64(v.WtRef)
		wtAlt[i] = float64(v.WtAlt)
		muRef[i] = float64(v.MuRef)
		muAlt[i] = float64(v.MuAlt)
	}

	baseSeed := e.Seed
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]trialResult, e.ShuffleIterations)
	var g errgroup.Group
	g.SetLimit(workers)
	for t := 0; t < e.ShuffleIterations; t++ {
		t := t
		g.Go(func() error {
			rng := rand.New(rand.NewSource(baseSeed + uint64(t)))
			res, err := runTrial(rng, positions, wtRef, wtAlt, muRef, muAlt, sampleSize, e.Span)
			if err != nil {
				return &BootstrapTrialError{Trial: t, Err: err}
			}
			results[t] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CutoffSet{}, err
	}

	var pooledGS, pooledRatio, pooledRSG, pooledRSGFit []float64
	for _, res := range results {
		pooledGS = append(pooledGS, res.gStat...)
		pooledRatio = append(pooledRatio, res.ratio...)
		pooledRSG = append(pooledRSG, res.rsG...)
		pooledRSGFit = append(pooledRSGFit, res.rsGFit...)
	}

	cutoffs := CutoffSet{
		GS:      pooledQuantile(pooledGS, 0.95),
		RS:      pooledQuantile(pooledRatio, 0.95),
		RSG:     pooledQuantile(pooledRSG, 0.95),
		RSGYhat: pooledQuantile(pooledRSGFit, 0.9999),
	}

	if e.Log != nil {
		e.Log.Info("BSA", "PROGRAM", "BOOTSTRAP", "STATUS", "COMPLETED",
			"GS_CUTOFF", cutoffs.GS, "RS_CUTOFF", cutoffs.RS,
			"RSG_CUTOFF", cutoffs.RSG, "RSG_YHAT_CUTOFF", cutoffs.RSGYhat)
	}
	return cutoffs, nil
}

// runTrial draws the three independent subsets, recombines them into
// synthetic rows, computes the features and smooths ratio-scaled G
// against the resampled positions without edge mirroring.
func runTrial(rng *rand.Rand, positions, wtRef, wtAlt, muRef, muAlt []float64, sampleSize int, span float64) (trialResult, error) {
	n := len(positions)

	posIdx := rng.Perm(n)[:sampleSize]
	wtIdx := rng.Perm(n)[:sampleSize]
	muIdx := rng.Perm(n)[:sampleSize]

	smPos := make([]float64, sampleSize)
	smWtRef := make([]float64, sampleSize)
	smWtAlt := make([]float64, sampleSize)
	smMuRef := make([]float64, sampleSize)
	smMuAlt := make([]float64, sampleSize)
	for i := 0; i < sampleSize; i++ {
		smPos[i] = positions[posIdx[i]]
		smWtRef[i] = wtRef[wtIdx[i]]
		smWtAlt[i] = wtAlt[wtIdx[i]]
		smMuRef[i] = muRef[muIdx[i]]
		smMuAlt[i] = muAlt[muIdx[i]]
	}

	ratio, gStat, rsG, err := ComputeFeatures(smWtRef, smWtAlt, smMuRef, smMuAlt)
	if err != nil {
		return trialResult{}, err
	}

	// Rows with a zero single-bulk total give non-finite ratio and RS_G;
	// they are excluded from the fit, mirroring the drop-NA step the
	// real table goes through before smoothing.
	order := make([]int, 0, sampleSize)
	for i := 0; i < sampleSize; i++ {
		if isFinite(rsG[i]) {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool { return smPos[order[a]] < smPos[order[b]] })

	sortedPos := make([]float64, len(order))
	sortedRSG := make([]float64, len(order))
	for i, idx := range order {
		sortedPos[i] = smPos[idx]
		sortedRSG[i] = rsG[idx]
	}

	var rsGFit []float64
	if len(order) > 0 {
		rsGFit, err = lowess(sortedRSG, sortedPos, span)
		if err != nil {
			return trialResult{}, err
		}
	}

	finiteOnly := func(values []float64) []float64 {
		kept := values[:0]
		for _, v := range values {
			if isFinite(v) {
				kept = append(kept, v)
			}
		}
		return kept
	}

	return trialResult{
		gStat:  finiteOnly(gStat),
		ratio:  finiteOnly(ratio),
		rsG:    finiteOnly(rsG),
		rsGFit: rsGFit,
	}, nil
}

func pooledQuantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
