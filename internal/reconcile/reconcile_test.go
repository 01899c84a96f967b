// Public domain.

package reconcile_test

import (
	"testing"

	"github.com/ATL24-utils/qtrees-go/internal/reconcile"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

func mk(x, z float64, cls int) sample.Sample {
	s := sample.New()
	s.X, s.Z, s.Prediction = x, z, cls
	return s
}

func TestRunSetsSurfaceElevationForPredictedClass(t *testing.T) {
	samples := make([]sample.Sample, 50)
	for i := range samples {
		samples[i] = mk(float64(i), 0, sample.SeaSurface)
	}
	reconcile.Run(samples)
	for i, s := range samples {
		if s.SurfaceElevation == sample.Sentinel {
			t.Fatalf("sample %d surface_elevation left at sentinel", i)
		}
	}
}

func TestRunLeavesSentinelForEmptyClass(t *testing.T) {
	samples := []sample.Sample{mk(0, 0, sample.Unclassified)}
	reconcile.Run(samples)
	if samples[0].SurfaceElevation != sample.Sentinel {
		t.Errorf("surface_elevation = %v, want untouched sentinel (no surface photons)", samples[0].SurfaceElevation)
	}
	if samples[0].BathyElevation != sample.Sentinel {
		t.Errorf("bathy_elevation = %v, want untouched sentinel (no bathymetry photons)", samples[0].BathyElevation)
	}
}

func TestRunDemotesOutOfBoundsSurface(t *testing.T) {
	samples := make([]sample.Sample, 50)
	for i := range samples {
		samples[i] = mk(float64(i), 0, sample.SeaSurface)
	}
	samples[10].Z = 1000 // outside [-20, 20]
	reconcile.Run(samples)
	if samples[10].Prediction != sample.Unclassified {
		t.Errorf("out-of-bounds surface photon not demoted, prediction = %d", samples[10].Prediction)
	}
}

func TestRunDemotesBathyAboveSurface(t *testing.T) {
	var samples []sample.Sample
	for i := 0; i < 50; i++ {
		samples = append(samples, mk(float64(i), 0, sample.SeaSurface))
	}
	for i := 0; i < 50; i++ {
		samples = append(samples, mk(float64(i), -10, sample.Bathymetry))
	}
	samples[60].Z = 5 // bathymetry photon above the surface
	reconcile.Run(samples)
	if samples[60].Prediction != sample.Unclassified {
		t.Errorf("bathymetry above surface not demoted, prediction = %d", samples[60].Prediction)
	}
}
