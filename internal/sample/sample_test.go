// Public domain.

package sample_test

import (
	"strings"
	"testing"

	"github.com/ATL24-utils/qtrees-go/internal/dataframe"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

func TestRemapUnremapRoundTrip(t *testing.T) {
	cases := []struct {
		cls  int
		dense uint32
	}{
		{sample.Unclassified, 0},
		{sample.Bathymetry, 1},
		{sample.SeaSurface, 2},
	}
	for _, c := range cases {
		if got := sample.Remap(c.cls); got != c.dense {
			t.Errorf("Remap(%d) = %d, want %d", c.cls, got, c.dense)
		}
		if got := sample.Unremap(c.dense); got != c.cls {
			t.Errorf("Unremap(%d) = %d, want %d", c.dense, got, c.cls)
		}
	}
}

func TestRemapLegacyNoiseIsUnclassified(t *testing.T) {
	if got := sample.Remap(sample.LegacyNoise); got != 0 {
		t.Errorf("Remap(LegacyNoise) = %d, want 0", got)
	}
}

func TestFromFrameRequiresColumns(t *testing.T) {
	df, _ := dataframe.Read(strings.NewReader("a,b\n1,2\n"))
	if _, err := sample.FromFrame(df); err == nil {
		t.Error("expected InputFormat error for missing required columns")
	}
}

func TestFromFrameToFrameRoundTrip(t *testing.T) {
	in := "index_ph,x_atc,geoid_corr_h\n1,0,5\n2,1,6\n"
	df, err := dataframe.Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	samples, err := sample.FromFrame(df)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0].H5Index != 1 || samples[1].H5Index != 2 {
		t.Errorf("h5_index not preserved: %+v", samples)
	}
	samples[0].Prediction = sample.SeaSurface
	out := sample.ToFrame(df, samples)
	if !out.HasColumn("prediction") || !out.HasColumn("sea_surface_h") || !out.HasColumn("bathy_h") {
		t.Errorf("ToFrame missing appended columns: %v", out.Headers)
	}
}

func TestNewLeavesSentinels(t *testing.T) {
	s := sample.New()
	if s.SurfaceElevation != sample.Sentinel || s.BathyElevation != sample.Sentinel {
		t.Errorf("New() did not set sentinels: %+v", s)
	}
}

func TestVerifyOrderPreservedPanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on order mismatch")
		}
	}()
	samples := []sample.Sample{sample.New()}
	samples[0].H5Index = 1
	sample.VerifyOrderPreserved([]int64{2}, samples)
}
