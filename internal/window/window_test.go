// Public domain.

package window_test

import (
	"math"
	"testing"

	"github.com/ATL24-utils/qtrees-go/internal/sample"
	"github.com/ATL24-utils/qtrees-go/internal/window"
)

func photons(xz [][2]float64) []sample.Sample {
	out := make([]sample.Sample, len(xz))
	for i, p := range xz {
		out[i] = sample.New()
		out[i].X = p[0]
		out[i].Z = p[1]
	}
	return out
}

func TestIndexesStartAtZero(t *testing.T) {
	s := photons([][2]float64{{10, 0}, {50, 0}, {90, 0}})
	idx := window.Indexes(s, 40)
	want := []int{0, 1, 2}
	for i, w := range want {
		if idx[i] != w {
			t.Errorf("Indexes()[%d] = %d, want %d", i, idx[i], w)
		}
	}
}

func TestQuantileMeansTooFewIsZero(t *testing.T) {
	var xz [][2]float64
	for i := 0; i < 10; i++ {
		xz = append(xz, [2]float64{float64(i), float64(i)})
	}
	s := photons(xz)
	idx := window.Indexes(s, 1000)
	windows := window.Build(s, idx, window.Params{Size: 1000, Quantiles: 32})
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	for _, v := range windows[0].Quantiles {
		if v != 0 {
			t.Fatalf("sparse window quantile = %v, want all zero", windows[0].Quantiles)
		}
	}
}

func TestQuantileMeansMonotonic(t *testing.T) {
	q := 4
	var xz [][2]float64
	for i := 0; i < 40; i++ {
		xz = append(xz, [2]float64{0, float64(i)})
	}
	s := photons(xz)
	idx := window.Indexes(s, 1000)
	windows := window.Build(s, idx, window.Params{Size: 1000, Quantiles: q})
	got := windows[0].Quantiles
	if len(got) != q {
		t.Fatalf("len(quantiles) = %d, want %d", len(got), q)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("quantiles not nondecreasing: %v", got)
		}
	}
}

func TestQuantileMeansExcludesOutOfRange(t *testing.T) {
	var xz [][2]float64
	for i := 0; i < 40; i++ {
		xz = append(xz, [2]float64{0, float64(i)})
	}
	xz = append(xz, [2]float64{0, 1000}, [2]float64{0, -1000})
	s := photons(xz)
	idx := window.Indexes(s, 1000)
	windows := window.Build(s, idx, window.Params{Size: 1000, Quantiles: 4})
	last := windows[0].Quantiles[3]
	if last > sample.MaxPhotonElevation {
		t.Errorf("out-of-range elevation leaked into quantile mean: %v", last)
	}
}

func TestIndexesPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Indexes on empty input should panic via qerr.Verify")
		}
	}()
	window.Indexes(nil, 40)
}

func TestNoNaNInWindows(t *testing.T) {
	s := photons([][2]float64{{0, 1}, {0, 2}})
	idx := window.Indexes(s, 40)
	windows := window.Build(s, idx, window.DefaultParams)
	for _, w := range windows {
		for _, v := range w.Quantiles {
			if math.IsNaN(v) {
				t.Errorf("quantile mean is NaN")
			}
		}
	}
}
