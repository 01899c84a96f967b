// Public domain.

// Package blunder runs the final rule cascade that reassigns predicted
// classes based on physical plausibility: absolute elevation bounds, a
// relative-depth constraint against the nearest surface estimate, and
// proximity-to-estimate filters (spec §4.6).
package blunder

import (
	"sync/atomic"

	"github.com/ATL24-utils/qtrees-go/internal/parallelfor"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

// Params holds the blunder detector's configurable thresholds. Zero
// value Params is invalid; use DefaultParams.
type Params struct {
	SurfaceMin       float64 // default -20
	SurfaceMax       float64 // default +20
	BathyMin         float64 // default -100
	WaterColumnWidth float64 // default 100
	SurfaceRange     float64 // default 3
	BathyRange       float64 // default 3
}

// DefaultParams matches the reference thresholds (spec §4.6).
var DefaultParams = Params{
	SurfaceMin:       -20.0,
	SurfaceMax:       20.0,
	BathyMin:         -100.0,
	WaterColumnWidth: 100.0,
	SurfaceRange:     3.0,
	BathyRange:       3.0,
}

// Run applies the five checks in the exact order the reference
// implementation defines, each one a full pass over samples before the
// next begins (spec §4.6): surface elevation, bathymetry floor,
// relative depth, surface range, bathymetry range.
func Run(samples []sample.Sample, p Params) {
	surfaceElevationCheck(samples, p)
	bathyElevationCheck(samples, p)
	relativeDepthCheck(samples, p)
	surfaceRangeCheck(samples, p)
	bathyRangeCheck(samples, p)
}

// surfaceElevationCheck demotes surface predictions outside the
// absolute elevation bounds.
func surfaceElevationCheck(samples []sample.Sample, p Params) int64 {
	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.SeaSurface {
			return
		}
		if s.Z > p.SurfaceMax || s.Z < p.SurfaceMin {
			s.Prediction = sample.Unclassified
			atomic.AddInt64(&changed, 1)
		}
	})
	return changed
}

// bathyElevationCheck demotes bathymetry predictions below the floor.
func bathyElevationCheck(samples []sample.Sample, p Params) int64 {
	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.Bathymetry {
			return
		}
		if s.Z < p.BathyMin {
			s.Prediction = sample.Unclassified
			atomic.AddInt64(&changed, 1)
		}
	})
	return changed
}

// relativeDepthCheck demotes bathymetry predictions that are not
// strictly below the nearest in-range surface photon's reference
// elevation (spec §4.6, step 3). A bathymetry photon with no surface
// photon within WaterColumnWidth is left untouched.
func relativeDepthCheck(samples []sample.Sample, p Params) int64 {
	nearest := Nearest(samples, sample.SeaSurface)

	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.Bathymetry {
			return
		}
		j := nearest[i]
		if j < 0 {
			return
		}
		along := abs(s.X - samples[j].X)
		if along > p.WaterColumnWidth {
			return
		}
		if s.Z >= samples[j].SurfaceElevation {
			s.Prediction = sample.Unclassified
			atomic.AddInt64(&changed, 1)
		}
	})
	return changed
}

// surfaceRangeCheck demotes surface predictions too far from the
// estimated surface elevation.
func surfaceRangeCheck(samples []sample.Sample, p Params) int64 {
	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.SeaSurface {
			return
		}
		if abs(s.Z-s.SurfaceElevation) > p.SurfaceRange {
			s.Prediction = sample.Unclassified
			atomic.AddInt64(&changed, 1)
		}
	})
	return changed
}

// bathyRangeCheck demotes bathymetry predictions too far from the
// estimated bathymetric elevation.
func bathyRangeCheck(samples []sample.Sample, p Params) int64 {
	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.Bathymetry {
			return
		}
		if abs(s.Z-s.BathyElevation) > p.BathyRange {
			s.Prediction = sample.Unclassified
			atomic.AddInt64(&changed, 1)
		}
	})
	return changed
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
