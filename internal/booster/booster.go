// Public domain.

// Package booster adapts the windowed feature matrix to an external
// gradient-boosted-tree library (spec §4.3). It is the one place in the
// pipeline that talks to code outside this module's control.
package booster

import (
	"math"

	"github.com/dmitryikh/leaves"

	"github.com/ATL24-utils/qtrees-go/internal/feature"
	"github.com/ATL24-utils/qtrees-go/internal/parallelfor"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
)

// Hyperparameters reproduce the reference model exactly (spec §4.3).
const (
	MaxDepth          = 4
	MinChildWeight    = 4
	Gamma             = 0.280
	ColsampleByTree   = 0.943
	Subsample         = 0.360
	Eta               = 0.360
	NumBoostingRounds = 100
	NumClass          = 3
	DefaultEpochs     = 100
)

// Booster wraps a loaded model and predicts dense domain class codes
// from a dense feature matrix, translating the feature package's
// Missing sentinel to whatever missing-value convention the underlying
// predictor uses.
type Booster struct {
	ensemble *leaves.Ensemble
}

// Load reads a saved booster model from disk (spec §6, "Classifier model
// file": "an opaque file path handled by the external boosting
// library").
func Load(path string) (*Booster, error) {
	if path == "" {
		return nil, qerr.New(qerr.InvalidArguments, "no model filename was specified")
	}
	ens, err := leaves.XGEnsembleFromFile(path, false)
	if err != nil {
		return nil, qerr.Classifier("loading model "+path, err)
	}
	return &Booster{ensemble: ens}, nil
}

// Predict runs inference over a dense rows*cols feature matrix and
// returns one domain class code per row. The library yields one score
// per class for each row; the dense index of the highest score is
// mapped back to its domain code (spec §4.3).
func (b *Booster) Predict(features []float32, rows, cols int) ([]int, error) {
	qerr.Verify(len(features) == rows*cols, "feature matrix matches rows*cols")

	numClass := b.ensemble.NOutputGroups()
	if numClass < 1 {
		numClass = NumClass
	}

	predictions := make([]int, rows)
	errs := make([]error, rows)
	parallelfor.Range(rows, func(r int) {
		fvals := make([]float64, cols)
		for c := 0; c < cols; c++ {
			v := features[r*cols+c]
			if v == feature.Missing {
				fvals[c] = math.NaN()
			} else {
				fvals[c] = float64(v)
			}
		}
		out := make([]float64, numClass)
		// iteration_end=0 means "use all trees" (spec §4.3).
		if err := b.ensemble.Predict(fvals, 0, out); err != nil {
			errs[r] = qerr.Classifier("predicting", err)
			return
		}
		predictions[r] = sample.Unremap(uint32(argmax(out)))
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return predictions, nil
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
