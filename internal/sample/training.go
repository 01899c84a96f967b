// Public domain.

package sample

import (
	xrand "golang.org/x/exp/rand"
)

// ReadTrainingFrames stitches together samples read from multiple
// per-dataset frames, tagging each sample with its source file's index
// as DatasetID (spec §6, originally utils.h:read_training_samples).
// Each frame must carry manual_label; frames are concatenated in the
// order given.
func ReadTrainingFrames(frames [][]Sample) []Sample {
	var out []Sample
	for id, fs := range frames {
		for i := range fs {
			fs[i].DatasetID = id
		}
		out = append(out, fs...)
	}
	return out
}

// BalancedIndexes implements spec §6's "Balanced sampling (training)":
// it shuffles sample indexes with the given seed, then — unless ratio is
// 0 — caps how many of each (dataset, class) pair survive so that, per
// dataset, bathymetry contributes at most m, and noise/surface each
// contribute at most m*ratio, where m is the smallest per-class count
// seen in that dataset.
func BalancedIndexes(samples []Sample, seed uint64, ratio uint) []int {
	n := len(samples)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := xrand.New(&xrand.PCGSource{})
	rng.Seed(seed)
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	if ratio == 0 {
		return order
	}

	type key struct{ dataset, cls int }
	counts := map[key]int{}
	for _, s := range samples {
		counts[key{s.DatasetID, s.Cls}]++
	}

	minPerDataset := map[int]int{}
	for k, c := range counts {
		cur, ok := minPerDataset[k.dataset]
		if !ok || c < cur {
			minPerDataset[k.dataset] = c
		}
	}

	taken := map[key]int{}
	var picked []int
	for _, idx := range order {
		s := samples[idx]
		m := minPerDataset[s.DatasetID]
		max := m
		if s.Cls == Unclassified || s.Cls == SeaSurface {
			max = m * int(ratio)
		}
		k := key{s.DatasetID, s.Cls}
		if taken[k] >= max {
			continue
		}
		taken[k]++
		picked = append(picked, idx)
	}
	return picked
}

// ClassWeights returns, for each sample, a weight equal to its class's
// relative frequency among the given dense labels (spec §4.3: "per-
// sample weight equal to its class's relative frequency in the training
// set"), matching xgboost.h:dmatrix::add_weights.
func ClassWeights(denseLabels []uint32) []float32 {
	counts := map[uint32]int{}
	for _, l := range denseLabels {
		counts[l]++
	}
	w := make([]float32, len(denseLabels))
	for i, l := range denseLabels {
		w[i] = float32(counts[l]) / float32(len(denseLabels))
	}
	return w
}
