// Public domain.

// Package sample defines the per-photon record and its conversion to and
// from tabular form (spec §3, "Sample").
package sample

import (
	"math"

	"github.com/ATL24-utils/qtrees-go/internal/dataframe"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
)

// Class codes, ASPRS-style. Sparse on purpose: the classifier sees dense
// indices 0/1/2 (see Remap/Unremap); these are the domain-facing codes.
const (
	Unclassified = 0
	LegacyNoise  = 1 // treated identically to Unclassified during scoring
	Bathymetry   = 40
	SeaSurface   = 41
)

const (
	// MinPhotonElevation and MaxPhotonElevation bound which elevations
	// contribute to a window's quantile means (spec §4.1).
	MinPhotonElevation = -80.0
	MaxPhotonElevation = 20.0
)

// Sentinel is the value left in SurfaceElevation/BathyElevation when a
// class has zero predicted photons (spec §3, "degenerate class-empty
// streams").
var Sentinel = math.MaxFloat64

// Sample is a single photon record, mutated in place through the
// pipeline's lifecycle: read, predicted, estimated, blunder-checked,
// written (spec §3, "Lifecycle").
type Sample struct {
	DatasetID        int
	H5Index          int64
	X                float64
	Z                float64
	Cls              int
	Prediction       int
	SurfaceElevation float64
	BathyElevation   float64
}

// New returns a Sample with the estimate sentinels pre-set, matching the
// original's habit of leaving unestimated fields at a recognizable
// "not yet computed" value rather than zero.
func New() Sample {
	return Sample{SurfaceElevation: Sentinel, BathyElevation: Sentinel}
}

// Remap maps a domain class code to the classifier's dense index space
// (spec §4.3: "0→0, 40→1, 41→2"). Anything other than 40/41, including
// the legacy code 1, remaps to 0.
func Remap(cls int) uint32 {
	switch cls {
	case Bathymetry:
		return 1
	case SeaSurface:
		return 2
	default:
		return 0
	}
}

// Unremap maps a dense classifier index back to a domain class code.
func Unremap(idx uint32) int {
	switch idx {
	case 1:
		return Bathymetry
	case 2:
		return SeaSurface
	default:
		return Unclassified
	}
}

// requiredColumns are the tabular columns every input frame must carry
// (spec §6).
var requiredColumns = [3]string{"index_ph", "x_atc", "geoid_corr_h"}

// FromFrame converts a dataframe into samples (spec §3, originally
// utils.h:convert_dataframe). The three required columns must be
// present; manual_label, prediction, sea_surface_h, and bathy_h are
// read when present and left at their zero/sentinel value otherwise.
func FromFrame(df *dataframe.Frame) ([]Sample, error) {
	for _, name := range requiredColumns {
		if !df.HasColumn(name) {
			return nil, qerr.New(qerr.InputFormat, "can't find '"+name+"' in dataframe")
		}
	}

	idxCol, _ := df.Column("index_ph")
	xCol, _ := df.Column("x_atc")
	zCol, _ := df.Column("geoid_corr_h")

	clsCol, hasCls := optionalColumn(df, "manual_label")
	predCol, hasPred := optionalColumn(df, "prediction")
	surfCol, hasSurf := optionalColumn(df, "sea_surface_h")
	bathyCol, hasBathy := optionalColumn(df, "bathy_h")

	n := df.Rows()
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		s := New()
		s.H5Index = int64(idxCol[i])
		s.X = xCol[i]
		s.Z = zCol[i]
		if hasCls {
			s.Cls = int(clsCol[i])
		}
		if hasPred {
			s.Prediction = int(predCol[i])
		}
		if hasSurf {
			s.SurfaceElevation = surfCol[i]
		}
		if hasBathy {
			s.BathyElevation = bathyCol[i]
		}
		out[i] = s
	}
	return out, nil
}

func optionalColumn(df *dataframe.Frame, name string) ([]float64, bool) {
	col, err := df.Column(name)
	if err != nil {
		return nil, false
	}
	return col, true
}

// ToFrame appends prediction/sea_surface_h/bathy_h to the original
// frame's columns, preserving every input column unchanged (spec §6,
// "the writer emits all input columns plus three appended columns").
func ToFrame(df *dataframe.Frame, samples []Sample) *dataframe.Frame {
	qerr.Verify(df.Rows() == len(samples), "dataframe row count matches sample count")

	p := make([]float64, len(samples))
	s := make([]float64, len(samples))
	b := make([]float64, len(samples))
	for i, sm := range samples {
		p[i] = float64(sm.Prediction)
		s[i] = sm.SurfaceElevation
		b[i] = sm.BathyElevation
	}

	out := &dataframe.Frame{
		Headers: append(append([]string{}, df.Headers...), "prediction", "sea_surface_h", "bathy_h"),
		Columns: append(append([][]float64{}, df.Columns...), p, s, b),
	}
	qerr.Verify(out.Valid(), "output dataframe valid")
	return out
}

// CountPredictions counts samples whose Prediction equals cls.
func CountPredictions(samples []Sample, cls int) int {
	n := 0
	for _, s := range samples {
		if s.Prediction == cls {
			n++
		}
	}
	return n
}

// H5Indexes extracts the opaque index column, used to check the
// order-preservation invariant (spec §5, §8.1) before and after a stage.
func H5Indexes(samples []Sample) []int64 {
	out := make([]int64, len(samples))
	for i, s := range samples {
		out[i] = s.H5Index
	}
	return out
}

// VerifyOrderPreserved checks that samples carry the same H5Index, in
// the same order, as the reference slice captured earlier in the
// pipeline. It panics with an Internal qerr on mismatch, matching spec
// §7's VERIFY-class invariant checks.
func VerifyOrderPreserved(reference []int64, samples []Sample) {
	qerr.Verify(len(reference) == len(samples), "sample count unchanged")
	for i, s := range samples {
		qerr.Verify(reference[i] == s.H5Index, "h5_index preserved at position")
	}
}
