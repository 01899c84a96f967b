// Public domain.

// Package estimate builds a smooth reference-surface (or reference
// bathymetry) elevation curve from a scattered set of along-track
// elevations: quantize to a fixed grid, fill gaps, then smooth with a
// fast Gaussian approximation (spec §4.4).
package estimate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ATL24-utils/qtrees-go/internal/qerr"
)

// BinSize is the quantization grid spacing along track, in meters
// (spec §4.4, "1m quantized average").
const BinSize = 1.0

// BoxPasses is the number of box-filter passes used to approximate a
// Gaussian blur (spec §4.4; Kovesi's iterated-box-filter method).
const BoxPasses = 4

// Grid is a 1-D along-track grid of elevation values, possibly
// containing NaN where no input elevation fell into a bin.
type Grid struct {
	MinX    float64
	BinSize float64
	Values  []float64
}

// Index returns the bin index that x falls into.
func (g Grid) Index(x float64) int {
	return int(math.Floor((x - g.MinX) / g.BinSize))
}

// QuantizedAverage bins (x, z) pairs into fixed-width along-track cells
// and averages the z values in each cell, leaving NaN where a cell
// received no points (spec §4.4: "get_quantized_average"). The grid
// spans from floor(min x) to ceil(max x) over xs itself, inclusive.
func QuantizedAverage(xs, zs []float64, binSize float64) Grid {
	if len(xs) == 0 {
		return Grid{BinSize: binSize}
	}
	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}
	return QuantizedAverageRange(xs, zs, binSize, minX, maxX)
}

// QuantizedAverageRange is QuantizedAverage with the grid's along-track
// extent supplied explicitly rather than derived from xs. The original
// (utils.h:get_quantized_average) always spans the full photon stream's
// x-range, even when xs/zs here are a class-filtered subset of it, so
// that flat-extension and box-filtering at the edges see the same
// extent a later full-stream scatter-back will read from (spec §4.4).
func QuantizedAverageRange(xs, zs []float64, binSize, minX, maxX float64) Grid {
	qerr.Verify(len(xs) == len(zs), "one elevation per along-track position")
	if len(xs) == 0 {
		return Grid{BinSize: binSize}
	}

	minX = math.Floor(minX)
	maxX = math.Ceil(maxX) + 1

	n := int(math.Ceil((maxX - minX) / binSize))
	if n < 1 {
		n = 1
	}

	sums := make([]float64, n)
	counts := make([]int, n)
	for i := range xs {
		idx := int(math.Floor((xs[i] - minX) / binSize))
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		sums[idx] += zs[i]
		counts[idx]++
	}

	values := make([]float64, n)
	for i := range values {
		if counts[i] == 0 {
			values[i] = math.NaN()
		} else {
			values[i] = sums[i] / float64(counts[i])
		}
	}
	return Grid{MinX: minX, BinSize: binSize, Values: values}
}

// InterpolateNaNs fills NaN runs in place on a copy of values: runs at
// the start or end are flat-extended from the nearest known value, and
// interior runs are linearly interpolated between their bounding known
// values (spec §4.4: "get_nan_pairs" + "interpolate_nans"). A
// grid made entirely of NaNs is returned unchanged.
func InterpolateNaNs(values []float64) []float64 {
	out := append([]float64(nil), values...)
	n := len(out)

	firstKnown := -1
	for i := 0; i < n; i++ {
		if !math.IsNaN(out[i]) {
			firstKnown = i
			break
		}
	}
	if firstKnown == -1 {
		return out
	}
	lastKnown := n - 1
	for lastKnown >= 0 && math.IsNaN(out[lastKnown]) {
		lastKnown--
	}

	for i := 0; i < firstKnown; i++ {
		out[i] = out[firstKnown]
	}
	for i := n - 1; i > lastKnown; i-- {
		out[i] = out[lastKnown]
	}

	i := firstKnown
	for i < lastKnown {
		if !math.IsNaN(out[i+1]) {
			i++
			continue
		}
		j := i + 1
		for math.IsNaN(out[j]) {
			j++
		}
		span := j - i
		for k := i + 1; k < j; k++ {
			t := float64(k-i) / float64(span)
			out[k] = out[i] + t*(out[j]-out[i])
		}
		i = j
	}
	return out
}

// BoxFilter applies a single moving-average pass of the given odd
// width. Near the array boundaries the window is truncated to the
// in-range samples and the sum is divided by their count, so edge
// values are not pulled to zero (spec §4.4: "box_filter").
func BoxFilter(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	half := width / 2

	// prefix[i+1] is the sum of values[0:i+1]; gonum's CumSum is the
	// one-left-to-right-sweep prefix sum the reference recipe calls for.
	prefix := make([]float64, n+1)
	floats.CumSum(prefix[1:], values)

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		count := hi - lo + 1
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(count)
	}
	return out
}

// filterWidth returns the odd box-filter width that approximates a
// Gaussian of the given sigma over BoxPasses iterations (Kovesi's
// formula, spec §4.4): max(round(sqrt(12*sigma^2/n + 1)/2), 1)*2 + 1.
func filterWidth(sigma float64) int {
	n := float64(BoxPasses)
	w := math.Round(math.Sqrt(12*sigma*sigma/n+1) / 2)
	if w < 1 {
		w = 1
	}
	return int(w)*2 + 1
}

// GetElevationEstimates quantizes, gap-fills, and smooths a scattered
// elevation curve, returning the resulting grid (spec §4.4:
// "get_elevation_estimates"). sigma controls the smoothing scale
// (reconcile.go uses 100m for sea-surface passes and 60m for
// bathymetry passes, through GetElevationEstimatesRange). The grid
// spans xs's own range; callers scattering
// back onto a wider set of along-track positions should use
// GetElevationEstimatesRange instead.
func GetElevationEstimates(xs, zs []float64, sigma float64) Grid {
	grid := QuantizedAverage(xs, zs, BinSize)
	return smoothGrid(grid, sigma)
}

// GetElevationEstimatesRange is GetElevationEstimates with the grid's
// along-track extent supplied explicitly, so a class-filtered xs/zs
// still produces a grid spanning the full photon stream (spec §4.4;
// see QuantizedAverageRange).
func GetElevationEstimatesRange(xs, zs []float64, sigma, minX, maxX float64) Grid {
	grid := QuantizedAverageRange(xs, zs, BinSize, minX, maxX)
	return smoothGrid(grid, sigma)
}

func smoothGrid(grid Grid, sigma float64) Grid {
	if len(grid.Values) == 0 {
		return grid
	}
	grid.Values = InterpolateNaNs(grid.Values)

	width := filterWidth(sigma)
	for pass := 0; pass < BoxPasses; pass++ {
		grid.Values = BoxFilter(grid.Values, width)
	}
	return grid
}

// Scatter reads back one estimate per input x from the grid, clamping
// out-of-range positions to the nearest edge bin.
func Scatter(grid Grid, xs []float64) []float64 {
	out := make([]float64, len(xs))
	n := len(grid.Values)
	for i, x := range xs {
		if n == 0 {
			out[i] = math.NaN()
			continue
		}
		idx := grid.Index(x)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		out[i] = grid.Values[idx]
	}
	return out
}
