// Public domain.

// Package feature assembles the fixed-width per-photon feature row fed
// to the classifier adapter (spec §4.2).
package feature

import (
	"fmt"
	"math"

	"github.com/ATL24-utils/qtrees-go/internal/parallelfor"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
	"github.com/ATL24-utils/qtrees-go/internal/window"
)

// Missing is the sentinel value filled in for off-the-end neighbor
// windows. It is passed to the classifier adapter as its missing-value
// marker (spec §3, §4.2).
var Missing = float32(math.MaxFloat32)

// Params controls feature-row width alongside window.Params.
type Params struct {
	Adjacent int // A, number of neighbor windows on each side (default 2)
}

// DefaultParams matches the reference model's training configuration.
var DefaultParams = Params{Adjacent: 2}

// Width returns F = 1 + Q + 2*A*Q.
func Width(wp window.Params, fp Params) int {
	return 1 + wp.Quantiles + 2*fp.Adjacent*wp.Quantiles
}

// String reports the adjacency parameter, for --verbose logging.
func (p Params) String() string {
	return fmt.Sprintf("adjacent windows: %d", p.Adjacent)
}

// Builder holds the precomputed windowing needed to assemble rows for
// every photon in a sample set (mirrors utils.h's `features` class).
type Builder struct {
	samples []sample.Sample
	indexes []int
	windows []window.Window
	wp      window.Params
	fp      Params
}

// NewBuilder windows samples and returns a Builder ready to emit rows.
func NewBuilder(samples []sample.Sample, wp window.Params, fp Params) *Builder {
	indexes := window.Indexes(samples, wp.Size)
	windows := window.Build(samples, indexes, wp)
	return &Builder{samples: samples, indexes: indexes, windows: windows, wp: wp, fp: fp}
}

// Width returns the fixed feature-row length this builder produces.
func (b *Builder) Width() int {
	return Width(b.wp, b.fp)
}

// Row assembles the feature row for photon n: self elevation, own-window
// quantiles, then for k=1..A right-neighbor-k then left-neighbor-k
// quantiles, each replaced by Q copies of Missing when off the ends.
func (b *Builder) Row(n int) []float32 {
	qerr.Verify(n < len(b.samples), "row index within sample range")

	row := make([]float32, 0, b.Width())
	row = append(row, float32(b.samples[n].Z))

	i := b.indexes[n]
	row = appendQuantiles(row, b.windows[i].Quantiles)

	nw := len(b.windows)
	for k := 1; k <= b.fp.Adjacent; k++ {
		right := i + k
		if right >= 0 && right < nw {
			row = appendQuantiles(row, b.windows[right].Quantiles)
		} else {
			row = appendMissing(row, b.wp.Quantiles)
		}

		// left must be checked with a signed comparison: i-k can go
		// negative, and an unsigned comparison would alias that into a
		// huge valid-looking index (spec §4.2).
		left := i - k
		if left >= 0 && left < nw {
			row = appendQuantiles(row, b.windows[left].Quantiles)
		} else {
			row = appendMissing(row, b.wp.Quantiles)
		}
	}

	qerr.Verify(len(row) == b.Width(), "feature row has expected width")
	return row
}

// Matrix builds the dense row-major feature matrix for every sample.
func (b *Builder) Matrix() []float32 {
	width := b.Width()
	out := make([]float32, len(b.samples)*width)
	parallelfor.Range(len(b.samples), func(i int) {
		copy(out[i*width:(i+1)*width], b.Row(i))
	})
	return out
}

func appendQuantiles(row []float32, q []float64) []float32 {
	for _, v := range q {
		row = append(row, float32(v))
	}
	return row
}

func appendMissing(row []float32, q int) []float32 {
	for i := 0; i < q; i++ {
		row = append(row, Missing)
	}
	return row
}
