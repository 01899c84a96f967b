// Public domain.

// Package qtrees orchestrates the full pipeline: feature assembly,
// classification, reference-surface reconciliation, and blunder
// detection (spec §2, §4).
package qtrees

import (
	"context"

	"github.com/ATL24-utils/qtrees-go/internal/blunder"
	"github.com/ATL24-utils/qtrees-go/internal/booster"
	"github.com/ATL24-utils/qtrees-go/internal/feature"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
	"github.com/ATL24-utils/qtrees-go/internal/reconcile"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
	"github.com/ATL24-utils/qtrees-go/internal/window"
)

// Predictor is the classifier-adapter surface Classify needs:
// dense-matrix in, dense domain class codes out (spec §4.3). Satisfied
// by *booster.Booster; tests substitute a fake to exercise the rest of
// the pipeline without a real model file.
type Predictor interface {
	Predict(features []float32, rows, cols int) ([]int, error)
}

// Params bundles every tunable the pipeline needs, each defaulted to
// the reference configuration.
type Params struct {
	Window  window.Params
	Feature feature.Params
	Blunder blunder.Params
}

// DefaultParams matches the reference model and thresholds throughout.
var DefaultParams = Params{
	Window:  window.DefaultParams,
	Feature: feature.DefaultParams,
	Blunder: blunder.DefaultParams,
}

// Classify runs the complete pipeline over samples in place: windowing
// and feature assembly, classifier inference, reconciliation, and
// blunder detection (spec §2, items 2-7). samples must already carry
// their original along-track order; that order is the output order
// too (spec §5, "Ordering guarantees").
func Classify(samples []sample.Sample, b Predictor, p Params) error {
	if len(samples) == 0 {
		return nil
	}

	h5Before := sample.H5Indexes(samples)

	builder := feature.NewBuilder(samples, p.Window, p.Feature)
	matrix := builder.Matrix()

	predictions, err := b.Predict(matrix, len(samples), builder.Width())
	if err != nil {
		return err
	}
	for i, cls := range predictions {
		samples[i].Prediction = cls
	}

	reconcile.Run(samples)
	blunder.Run(samples, p.Blunder)

	sample.VerifyOrderPreserved(h5Before, samples)
	for _, s := range samples {
		qerr.Verify(s.Prediction == sample.Unclassified || s.Prediction == sample.Bathymetry || s.Prediction == sample.SeaSurface,
			"predicted class is one of {0, 40, 41}")
	}
	return nil
}

// TrainParams bundles the windowing/feature configuration and the
// booster hyperparameters used to fit a new model.
type TrainParams struct {
	Window  window.Params
	Feature feature.Params
	Booster booster.TrainParams
}

// DefaultTrainParams matches the reference training configuration.
var DefaultTrainParams = TrainParams{
	Window:  window.DefaultParams,
	Feature: feature.DefaultParams,
}

// Train assembles the feature matrix and class weights for a labeled
// sample set and fits a model to outputPath (spec §4.3, §6).
func Train(ctx context.Context, samples []sample.Sample, p TrainParams, outputPath string) error {
	if len(samples) == 0 {
		return qerr.New(qerr.InvalidArguments, "no training samples supplied")
	}

	builder := feature.NewBuilder(samples, p.Window, p.Feature)
	matrix := builder.Matrix()

	labels := make([]uint32, len(samples))
	for i, s := range samples {
		labels[i] = sample.Remap(s.Cls)
	}
	weights := sample.ClassWeights(labels)

	return booster.Train(ctx, matrix, labels, weights, len(samples), builder.Width(), outputPath, p.Booster)
}
