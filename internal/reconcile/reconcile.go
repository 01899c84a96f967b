// Public domain.

// Package reconcile alternates reference-surface estimation with
// per-photon plausibility checks that demote outlier predictions to
// noise and re-estimate (spec §4.5).
package reconcile

import (
	"sync/atomic"

	"github.com/ATL24-utils/qtrees-go/internal/estimate"
	"github.com/ATL24-utils/qtrees-go/internal/parallelfor"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

const (
	surfaceSigma = 100.0
	bathySigma   = 60.0

	surfaceElevMin = -20.0
	surfaceElevMax = 20.0
	surfaceDelta   = 10.0

	bathyElevMin      = -80.0
	bathyElevMax      = 20.0
	bathyDelta        = 10.0
	bathyAboveSurface = 1.5

	passes = 2
)

// Run executes the full reconciliation loop in place: surface
// estimation and checking first, then bathymetry, each with exactly
// two check/re-estimate passes regardless of how many photons change
// (spec §4.5: "The loop does not early-exit on zero changes").
func Run(samples []sample.Sample) {
	assignEstimates(samples, sample.SeaSurface, surfaceSigma, setSurfaceElevation)
	for i := 0; i < passes; i++ {
		checkSurfaceEstimates(samples)
		assignEstimates(samples, sample.SeaSurface, surfaceSigma, setSurfaceElevation)
	}

	assignEstimates(samples, sample.Bathymetry, bathySigma, setBathyElevation)
	for i := 0; i < passes; i++ {
		checkBathyEstimates(samples)
		assignEstimates(samples, sample.Bathymetry, bathySigma, setBathyElevation)
	}
}

func setSurfaceElevation(s *sample.Sample, v float64) { s.SurfaceElevation = v }
func setBathyElevation(s *sample.Sample, v float64)   { s.BathyElevation = v }

// assignEstimates builds the smoothed reference curve from photons
// currently predicted as cls and scatters it back onto every photon
// (spec §4.4, §4.7: "A class with zero predicted photons ... skipped").
// The curve's along-track extent always spans every photon's x, not
// just the predicted subset's, so the edges of the predicted class's
// range are flat-extended and box-filtered against the same extent
// the scatter-back below reads from (spec §4.4).
func assignEstimates(samples []sample.Sample, cls int, sigma float64, set func(*sample.Sample, float64)) {
	allXs := make([]float64, len(samples))
	minX, maxX := samples[0].X, samples[0].X
	for i, s := range samples {
		allXs[i] = s.X
		if s.X < minX {
			minX = s.X
		}
		if s.X > maxX {
			maxX = s.X
		}
	}

	var xs, zs []float64
	for _, s := range samples {
		if s.Prediction == cls {
			xs = append(xs, s.X)
			zs = append(zs, s.Z)
		}
	}
	if len(xs) == 0 {
		return
	}

	grid := estimate.GetElevationEstimatesRange(xs, zs, sigma, minX, maxX)
	values := estimate.Scatter(grid, allXs)

	parallelfor.Range(len(samples), func(i int) {
		set(&samples[i], values[i])
	})
}

// checkSurfaceEstimates demotes sea-surface predictions that fall
// outside absolute bounds or too far from the estimated surface
// (spec §4.5). Returns the number of photons demoted.
func checkSurfaceEstimates(samples []sample.Sample) int64 {
	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.SeaSurface {
			return
		}
		if s.Z < surfaceElevMin || s.Z > surfaceElevMax || abs(s.Z-s.SurfaceElevation) > surfaceDelta {
			s.Prediction = sample.Unclassified
			atomic.AddInt64(&changed, 1)
		}
	})
	return changed
}

// checkBathyEstimates demotes bathymetry predictions that fall outside
// absolute bounds, are not sufficiently below the estimated surface,
// or are too far from the estimated bathymetry (spec §4.5). Returns
// the number of photons demoted.
func checkBathyEstimates(samples []sample.Sample) int64 {
	var changed int64
	parallelfor.Range(len(samples), func(i int) {
		s := &samples[i]
		if s.Prediction != sample.Bathymetry {
			return
		}
		outOfBounds := s.Z < bathyElevMin || s.Z > bathyElevMax
		notBelowSurface := s.Z+bathyAboveSurface >= s.SurfaceElevation
		farFromEstimate := abs(s.Z-s.BathyElevation) > bathyDelta
		if outOfBounds || notBelowSurface || farFromEstimate {
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
