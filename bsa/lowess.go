package bsa

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// lowessIterations is the number of bisquare robustifying passes, the
// same default the reference statsmodels fit uses.
const lowessIterations = 3

// lowess fits a locally weighted linear regression of y against x with
// tricube neighbourhood weights over the nearest ceil(frac*n) points.
// x must be sorted ascending; ties are tolerated. The fitted values are
// returned aligned to the input order. Deterministic for fixed input.
func lowess(y, x []float64, frac float64) ([]float64, error) {
	n := len(x)
	if len(y) != n {
		return nil, invalidInputf("lowess arrays differ in length: %d vs %d", len(y), n)
	}
	if n == 0 {
		return nil, invalidInputf("lowess on empty series")
	}
	if frac <= 0 || frac > 1 {
		return nil, invalidInputf("lowess span %v out of (0,1]", frac)
	}
	for i := 1; i < n; i++ {
		if x[i] < x[i-1] {
			return nil, invalidInputf("lowess abscissa not sorted at index %d", i)
		}
	}

	k := int(math.Ceil(frac * float64(n)))
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	fitted := make([]float64, n)
	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1
	}

	for iter := 0; iter <= lowessIterations; iter++ {
		left, right := 0, k
		for i := 0; i < n; i++ {
			// Slide the k-nearest window along with the query point.
			for right < n && x[right]-x[i] < x[i]-x[left] {
				left++
				right++
			}
			fitted[i] = fitPoint(x, y, robust, left, right, i)
		}

		if iter == lowessIterations {
			break
		}
		residuals := make([]float64, n)
		for i := range residuals {
			residuals[i] = math.Abs(y[i] - fitted[i])
		}
		sort.Float64s(residuals)
		s := stat.Quantile(0.5, stat.Empirical, residuals, nil)
		if s == 0 {
			break
		}
		for i := range robust {
			r := math.Abs(y[i]-fitted[i]) / (6 * s)
			if r < 1 {
				robust[i] = (1 - r*r) * (1 - r*r)
			} else {
				robust[i] = 0
			}
		}
	}
	return fitted, nil
}

func fitPoint(x, y, robust []float64, left, right, i int) float64 {
	h := math.Max(x[i]-x[left], x[right-1]-x[i])

	var sumW, sumWX, sumWY, sumWXX, sumWXY float64
	for j := left; j < right; j++ {
		w := robust[j]
		if h > 0 {
			d := math.Abs(x[j]-x[i]) / h
			if d >= 1 {
				continue
			}
			t := 1 - d*d*d
			w *= t * t * t
		}
		sumW += w
		sumWX += w * x[j]
		sumWY += w * y[j]
		sumWXX += w * x[j] * x[j]
		sumWXY += w * x[j] * y[j]
	}
	if sumW == 0 {
		// Every neighbour sits on the tricube boundary; fall back to the
		// plain window mean.
		var sum float64
		for j := left; j < right; j++ {
			sum += y[j]
		}
		return sum / float64(right-left)
	}

	denom := sumW*sumWXX - sumWX*sumWX
	if math.Abs(denom) < 1e-12*sumW*sumWXX || denom == 0 {
		return sumWY / sumW
	}
	b := (sumW*sumWXY - sumWX*sumWY) / denom
	a := (sumWY - b*sumWX) / sumW
	return a + b*x[i]
}
