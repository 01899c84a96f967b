// Public domain.

package sample_test

import (
	"testing"

	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

func TestReadTrainingFramesTagsDatasetID(t *testing.T) {
	a := []sample.Sample{sample.New(), sample.New()}
	b := []sample.Sample{sample.New()}
	out := sample.ReadTrainingFrames([][]sample.Sample{a, b})
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	if out[0].DatasetID != 0 || out[1].DatasetID != 0 || out[2].DatasetID != 1 {
		t.Errorf("dataset ids = %d,%d,%d, want 0,0,1", out[0].DatasetID, out[1].DatasetID, out[2].DatasetID)
	}
}

func TestBalancedIndexesRatioZeroReturnsAll(t *testing.T) {
	samples := make([]sample.Sample, 10)
	for i := range samples {
		samples[i] = sample.New()
		samples[i].Cls = sample.Unclassified
	}
	idx := sample.BalancedIndexes(samples, 1, 0)
	if len(idx) != len(samples) {
		t.Fatalf("len(idx) = %d, want %d", len(idx), len(samples))
	}
}

func TestBalancedIndexesCapsToMinimumClass(t *testing.T) {
	var samples []sample.Sample
	add := func(n, cls int) {
		for i := 0; i < n; i++ {
			s := sample.New()
			s.Cls = cls
			samples = append(samples, s)
		}
	}
	add(100, sample.Unclassified)
	add(100, sample.SeaSurface)
	add(5, sample.Bathymetry) // minimum class count

	idx := sample.BalancedIndexes(samples, 42, 1)
	counts := map[int]int{}
	for _, i := range idx {
		counts[samples[i].Cls]++
	}
	if counts[sample.Bathymetry] > 5 {
		t.Errorf("bathymetry count = %d, want <= 5", counts[sample.Bathymetry])
	}
	if counts[sample.Unclassified] > 5 {
		t.Errorf("noise count = %d, want <= 5 (ratio 1)", counts[sample.Unclassified])
	}
}

func TestClassWeightsFollowRelativeFrequency(t *testing.T) {
	labels := []uint32{0, 0, 1, 2}
	w := sample.ClassWeights(labels)
	if w[0] != w[1] {
		t.Errorf("same-class weights should match: %v vs %v", w[0], w[1])
	}
	if w[2] >= w[0] {
		t.Errorf("rarer class should get a smaller weight (weight = relative frequency): class0=%v class2=%v", w[0], w[2])
	}
}
