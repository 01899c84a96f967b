// Public domain.

package booster

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ATL24-utils/qtrees-go/internal/qerr"
)

// TrainParams exposes the hyperparameters a caller may override; zero
// values fall back to the reference model's settings (the package
// constants in booster.go).
type TrainParams struct {
	MaxDepth        int
	MinChildWeight  int
	Gamma           float64
	ColsampleByTree float64
	Subsample       float64
	Eta             float64
	NumRound        int
	Seed            uint64
	ModelIn         string // warm-start from an existing model, if set
}

func (p TrainParams) withDefaults() TrainParams {
	if p.MaxDepth == 0 {
		p.MaxDepth = MaxDepth
	}
	if p.MinChildWeight == 0 {
		p.MinChildWeight = MinChildWeight
	}
	if p.Gamma == 0 {
		p.Gamma = Gamma
	}
	if p.ColsampleByTree == 0 {
		p.ColsampleByTree = ColsampleByTree
	}
	if p.Subsample == 0 {
		p.Subsample = Subsample
	}
	if p.Eta == 0 {
		p.Eta = Eta
	}
	if p.NumRound == 0 {
		p.NumRound = NumBoostingRounds
	}
	return p
}

// Train fits a model by shelling out to the xgboost command-line
// binary (the pure-Go leaves library only loads models, it cannot train
// one), the same "drive a real external program with os/exec" idiom the
// model-building tool used for fetching data. It writes the feature
// matrix and dense labels to a libsvm-format file, a booster config
// naming the reference hyperparameters, runs xgboost against them, and
// leaves the resulting model at outputPath ready for Load.
func Train(ctx context.Context, features []float32, labels []uint32, weights []float32, rows, cols int, outputPath string, params TrainParams) error {
	qerr.Verify(len(features) == rows*cols, "feature matrix matches rows*cols")
	qerr.Verify(len(labels) == rows, "one label per row")
	if rows == 0 {
		return qerr.New(qerr.InvalidArguments, "no training rows supplied")
	}
	params = params.withDefaults()

	dir, err := os.MkdirTemp("", "qtrees-train-*")
	if err != nil {
		return qerr.Wrap(qerr.Internal, "creating training scratch directory", err)
	}
	defer os.RemoveAll(dir)

	dataPath := filepath.Join(dir, "train.libsvm")
	if err := writeLibSVM(dataPath, features, labels, weights, rows, cols); err != nil {
		return err
	}

	confPath := filepath.Join(dir, "train.conf")
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return qerr.Wrap(qerr.Internal, "resolving model output path", err)
	}
	conf, err := trainConfig(params, dataPath, absOut)
	if err != nil {
		return err
	}
	if err := os.WriteFile(confPath, []byte(conf), 0o644); err != nil {
		return qerr.Wrap(qerr.Internal, "writing training configuration", err)
	}

	cmd := exec.CommandContext(ctx, "xgboost", confPath)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return qerr.Classifier(fmt.Sprintf("xgboost training failed: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}

// trainConfig renders the legacy xgboost CLI config-file format (a flat
// "key = value" list), pinned to the reference multiclass objective
// and hyperparameters (spec §4.3).
func trainConfig(p TrainParams, dataPath, modelOut string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "booster = gbtree\n")
	fmt.Fprintf(&b, "objective = multi:softmax\n")
	fmt.Fprintf(&b, "num_class = %d\n", NumClass)
	fmt.Fprintf(&b, "max_depth = %d\n", p.MaxDepth)
	fmt.Fprintf(&b, "min_child_weight = %d\n", p.MinChildWeight)
	fmt.Fprintf(&b, "gamma = %s\n", strconv.FormatFloat(p.Gamma, 'f', -1, 64))
	fmt.Fprintf(&b, "colsample_bytree = %s\n", strconv.FormatFloat(p.ColsampleByTree, 'f', -1, 64))
	fmt.Fprintf(&b, "subsample = %s\n", strconv.FormatFloat(p.Subsample, 'f', -1, 64))
	fmt.Fprintf(&b, "eta = %s\n", strconv.FormatFloat(p.Eta, 'f', -1, 64))
	fmt.Fprintf(&b, "seed = %d\n", p.Seed)
	fmt.Fprintf(&b, "num_round = %d\n", p.NumRound)
	fmt.Fprintf(&b, "data = \"%s\"\n", dataPath)
	fmt.Fprintf(&b, "model_out = \"%s\"\n", modelOut)
	if p.ModelIn != "" {
		absIn, err := filepath.Abs(p.ModelIn)
		if err != nil {
			return "", qerr.Wrap(qerr.Internal, "resolving warm-start model path", err)
		}
		fmt.Fprintf(&b, "model_in = \"%s\"\n", absIn)
	}
	fmt.Fprintf(&b, "task = train\n")
	return b.String(), nil
}

// writeLibSVM emits "label weight:w idx:val ..." rows, one
// per sample, skipping Missing-sentinel entries entirely so xgboost
// treats them as absent rather than as the literal sentinel magnitude.
func writeLibSVM(path string, features []float32, labels []uint32, weights []float32, rows, cols int) error {
	f, err := os.Create(path)
	if err != nil {
		return qerr.Wrap(qerr.Internal, "creating training data file", err)
	}
	defer f.Close()

	var b strings.Builder
	for r := 0; r < rows; r++ {
		fmt.Fprintf(&b, "%d", labels[r])
		if weights != nil {
			fmt.Fprintf(&b, " weight:%s", strconv.FormatFloat(float64(weights[r]), 'f', -1, 64))
		}
		for c := 0; c < cols; c++ {
			v := features[r*cols+c]
			if math.IsNaN(float64(v)) || v == math.MaxFloat32 {
				continue
			}
			fmt.Fprintf(&b, " %d:%s", c, strconv.FormatFloat(float64(v), 'f', -1, 64))
		}
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return qerr.Wrap(qerr.Internal, "writing training data file", err)
	}
	return nil
}
