// Public domain.

package blunder

import "github.com/ATL24-utils/qtrees-go/internal/sample"

// Nearest returns, for every sample, the index of the nearest sample
// whose prediction equals cls, measured along x (spec §4.6, "Nearest-
// surface-along-track algorithm"). If no sample has that prediction,
// every entry is -1.
//
// Samples must already be in along-track order: the single left-to-
// right sweep only compares each sample against the closest target at
// or before it and the closest target at or after it by position, which
// are the nearest ones along x only when x is monotonic.
func Nearest(samples []sample.Sample, cls int) []int {
	n := len(samples)
	nearest := make([]int, n)

	var targets []int
	for i, s := range samples {
		if s.Prediction == cls {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		for i := range nearest {
			nearest[i] = -1
		}
		return nearest
	}

	first, last := targets[0], targets[len(targets)-1]
	for i := 0; i < first; i++ {
		nearest[i] = first
	}
	for i := last + 1; i < n; i++ {
		nearest[i] = last
	}

	li, ri := 0, 0
	for i := first; i <= last; i++ {
		for li+1 < len(targets) && targets[li+1] <= i {
			li++
		}
		for ri < len(targets)-1 && targets[ri] < i {
			ri++
		}

		leftIdx := targets[li]
		rightIdx := targets[ri]
		leftDist := samples[i].X - samples[leftIdx].X
		rightDist := samples[rightIdx].X - samples[i].X
		if leftDist <= rightDist {
			nearest[i] = leftIdx
		} else {
			nearest[i] = rightIdx
		}
	}
	return nearest
}
