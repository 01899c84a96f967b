// Public domain.

// Package window partitions photons into fixed-width along-track bins
// and computes per-bin elevation quantile means (spec §4.1).
package window

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ATL24-utils/qtrees-go/internal/parallelfor"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

// Params controls the windowing and quantile-mean computation.
type Params struct {
	Size      float64 // along-track window width, meters (default 40)
	Quantiles int     // Q, default 32
}

// DefaultParams matches the reference model's training configuration.
var DefaultParams = Params{Size: 40.0, Quantiles: 32}

// Window holds the ordered quantile means for one along-track bin. An
// all-zero Quantiles slice is the "no signal" marker for an empty or
// sparse (fewer than Q in-range photons) bin (spec §3, "Window").
type Window struct {
	Quantiles []float64
}

// Indexes assigns each photon its window index: floor((x - min(x)) / W).
func Indexes(samples []sample.Sample, windowSize float64) []int {
	qerr.Verify(len(samples) > 0, "non-empty samples for windowing")

	minX := samples[0].X
	for _, s := range samples {
		if s.X < minX {
			minX = s.X
		}
	}

	indexes := make([]int, len(samples))
	parallelfor.Range(len(samples), func(i int) {
		indexes[i] = int(math.Floor((samples[i].X - minX) / windowSize))
	})
	return indexes
}

// Build computes the ordered windows covering every photon, given
// per-photon window indexes already assigned by Indexes.
func Build(samples []sample.Sample, indexes []int, p Params) []Window {
	qerr.Verify(len(samples) == len(indexes), "one window index per sample")

	maxIndex := 0
	for _, idx := range indexes {
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	n := maxIndex + 1

	elevations := make([][]float64, n)
	for i, idx := range indexes {
		elevations[idx] = append(elevations[idx], samples[i].Z)
	}

	windows := make([]Window, n)
	parallelfor.Range(n, func(i int) {
		windows[i] = buildOne(elevations[i], p.Quantiles)
	})
	return windows
}

// buildOne filters elevations to the valid photon elevation range and
// computes quantile means, or the all-zero sentinel if too few remain.
func buildOne(elevations []float64, q int) Window {
	kept := make([]float64, 0, len(elevations))
	for _, e := range elevations {
		if e > sample.MinPhotonElevation && e < sample.MaxPhotonElevation {
			kept = append(kept, e)
		}
	}
	return Window{Quantiles: quantileMeans(kept, q)}
}

// quantileMeans implements spec §4.1's deterministic quantile-means
// algorithm bit-exact: sort ascending, assign sorted position i to
// bucket floor(i / (n/Q)), average each bucket. Returns the zero vector
// if fewer than Q elevations survive the range filter.
func quantileMeans(elevations []float64, q int) []float64 {
	out := make([]float64, q)

	n := len(elevations)
	if n < q {
		return out
	}

	sorted := append([]float64(nil), elevations...)
	sort.Float64s(sorted)

	delta := float64(n) / float64(q)
	buckets := make([][]float64, q)
	for i, v := range sorted {
		idx := int(math.Floor(float64(i) / delta))
		qerr.Verify(idx < q, "quantile bucket index in range")
		buckets[idx] = append(buckets[idx], v)
	}
	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		out[i] = stat.Mean(b, nil)
	}
	return out
}
