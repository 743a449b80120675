package ccd

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// finite filters NaN and Inf out of xs, appending to dst.
func finite(dst, xs []float64) []float64 {
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			dst = append(dst, v)
		}
	}
	return dst
}

// Mean returns the NaN-aware mean of xs, or NaN if no finite values.
func Mean(xs []float64) float64 {
	vals := finite(make([]float64, 0, len(xs)), xs)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// Median returns the NaN-aware median of xs, or NaN if no finite
// values. Even-length inputs average the two central values.
func Median(xs []float64) float64 {
	vals := finite(make([]float64, 0, len(xs)), xs)
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// Percentile returns the NaN-aware p-th percentile (0..100) of xs using
// the empirical quantile, or NaN if no finite values.
func Percentile(xs []float64, p float64) float64 {
	vals := finite(make([]float64, 0, len(xs)), xs)
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	return stat.Quantile(p/100, stat.Empirical, vals, nil)
}

// Boxcar returns a moving-average smooth of xs with an npix-wide
// window. The window is truncated at the edges and NaN samples are
// skipped; a window with no finite samples yields NaN. npix < 2
// returns a copy of the input.
func Boxcar(xs []float64, npix int) []float64 {
	out := make([]float64, len(xs))
	if npix < 2 {
		copy(out, xs)
		return out
	}
	half := npix / 2
	for i := range xs {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(xs) {
			hi = len(xs) - 1
		}
		sum, n := 0.0, 0
		for j := lo; j <= hi; j++ {
			if math.IsNaN(xs[j]) {
				continue
			}
			sum += xs[j]
			n++
		}
		if n == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}
