// Public domain.

package blunder_test

import (
	"testing"

	"github.com/ATL24-utils/qtrees-go/internal/blunder"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

func mk(x, z float64, cls int) sample.Sample {
	s := sample.New()
	s.X, s.Z, s.Prediction = x, z, cls
	return s
}

func TestNearestTieBreaksLeft(t *testing.T) {
	// spec §8(e): surface at x=0 and x=10, bathymetry at x=5: nearest is the left one.
	samples := []sample.Sample{
		mk(0, 0, sample.SeaSurface),
		mk(5, -5, sample.Bathymetry),
		mk(10, 0, sample.SeaSurface),
	}
	nearest := blunder.Nearest(samples, sample.SeaSurface)
	if nearest[1] != 0 {
		t.Errorf("nearest[1] = %d, want 0 (tie breaks left)", nearest[1])
	}
}

func TestNearestNoTargetClassIsMinusOne(t *testing.T) {
	samples := []sample.Sample{mk(0, 0, sample.Unclassified), mk(1, 0, sample.Bathymetry)}
	nearest := blunder.Nearest(samples, sample.SeaSurface)
	for i, n := range nearest {
		if n != -1 {
			t.Errorf("nearest[%d] = %d, want -1", i, n)
		}
	}
}

func TestNearestClampsAtEnds(t *testing.T) {
	samples := []sample.Sample{
		mk(0, 0, sample.Unclassified),
		mk(1, 0, sample.SeaSurface),
		mk(2, 0, sample.Unclassified),
		mk(3, 0, sample.SeaSurface),
		mk(4, 0, sample.Unclassified),
	}
	nearest := blunder.Nearest(samples, sample.SeaSurface)
	if nearest[0] != 1 {
		t.Errorf("nearest[0] = %d, want 1", nearest[0])
	}
	if nearest[4] != 3 {
		t.Errorf("nearest[4] = %d, want 3", nearest[4])
	}
}

func TestRelativeDepthRejection(t *testing.T) {
	// spec §8(d): surface at x=0,z=0; bathymetry at x=1,z=+5 (above surface) -> demoted.
	samples := []sample.Sample{
		mk(0, 0, sample.SeaSurface),
		mk(1, 5, sample.Bathymetry),
	}
	samples[0].SurfaceElevation = 0
	blunder.Run(samples, blunder.DefaultParams)
	if samples[1].Prediction != sample.Unclassified {
		t.Errorf("bathymetry above surface not demoted, prediction = %d", samples[1].Prediction)
	}
}

func TestSurfaceRangeDemotion(t *testing.T) {
	// spec §8(c): a single outlier among 100 surface photons gets demoted.
	samples := make([]sample.Sample, 100)
	for i := range samples {
		samples[i] = mk(float64(i), 0, sample.SeaSurface)
		samples[i].SurfaceElevation = 0
	}
	samples[50].Z = 100
	blunder.Run(samples, blunder.DefaultParams)
	if samples[50].Prediction != sample.Unclassified {
		t.Errorf("outlier at 50 not demoted, prediction = %d", samples[50].Prediction)
	}
	for i, s := range samples {
		if i == 50 {
			continue
		}
		if s.Prediction != sample.SeaSurface {
			t.Errorf("sample %d unexpectedly demoted", i)
		}
	}
}

func TestBathyFloorCheck(t *testing.T) {
	samples := []sample.Sample{mk(0, -200, sample.Bathymetry)}
	samples[0].BathyElevation = -200
	blunder.Run(samples, blunder.DefaultParams)
	if samples[0].Prediction != sample.Unclassified {
		t.Errorf("below-floor bathymetry not demoted")
	}
}

func TestIdempotence(t *testing.T) {
	samples := []sample.Sample{
		mk(0, 0, sample.SeaSurface),
		mk(1, -5, sample.Bathymetry),
	}
	samples[0].SurfaceElevation = 0
	samples[1].BathyElevation = -5
	blunder.Run(samples, blunder.DefaultParams)
	before := append([]sample.Sample(nil), samples...)
	blunder.Run(samples, blunder.DefaultParams)
	for i := range samples {
		if samples[i].Prediction != before[i].Prediction {
			t.Errorf("blunder detection is not idempotent at %d: %d -> %d", i, before[i].Prediction, samples[i].Prediction)
		}
	}
}
