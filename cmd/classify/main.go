// Public domain.

// Command classify reads a photon dataframe from standard input,
// predicts class, sea-surface, and bathymetry columns, and writes the
// augmented dataframe to standard output (spec §6, "CLI surface
// (classify)").
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/soniakeys/exit"

	"github.com/ATL24-utils/qtrees-go/internal/booster"
	"github.com/ATL24-utils/qtrees-go/internal/dataframe"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
	"github.com/ATL24-utils/qtrees-go/internal/qtrees"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
	"github.com/ATL24-utils/qtrees-go/internal/timer"
)

const writePrecision = 16

func main() {
	defer exit.Handler()

	var modelFilename string
	var verbose bool
	flag.StringVar(&modelFilename, "model-filename", "", "path to the classifier model file")
	flag.BoolVar(&verbose, "verbose", false, "print progress diagnostics to standard error")
	flag.Usage = usage
	flag.Parse()

	if err := run(modelFilename, verbose); err != nil {
		exit.Log(err)
	}
}

func run(modelFilename string, verbose bool) (err error) {
	defer qerr.Recover(&err)

	if modelFilename == "" {
		return qerr.New(qerr.InvalidArguments, "--model-filename is required")
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "classify: loading model", modelFilename)
	}
	b, err := booster.Load(modelFilename)
	if err != nil {
		return err
	}

	in, err := dataframe.Read(os.Stdin)
	if err != nil {
		return err
	}

	samples, err := sample.FromFrame(in)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "classify: read", len(samples), "photons")
		fmt.Fprintln(os.Stderr, "classify:", qtrees.DefaultParams.Feature)
	}

	tm := timer.New()
	if err := qtrees.Classify(samples, b, qtrees.DefaultParams); err != nil {
		return err
	}

	if verbose {
		elapsed := tm.Elapsed()
		fmt.Fprintf(os.Stderr, "classify: %v elapsed, %s\n", elapsed, timer.Rate(len(samples), elapsed, "photons"))
		if hasManualLabel, pct := percentCorrect(in, samples); hasManualLabel {
			fmt.Fprintf(os.Stderr, "classify: %.2f%% agreement with manual_label\n", pct)
		}
	}

	out := sample.ToFrame(in, samples)
	return dataframe.Write(os.Stdout, out, writePrecision)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: classify [--verbose] --model-filename PATH < in.csv > out.csv")
}

// percentCorrect reports the percentage of photons whose prediction
// matches manual_label, when that column was present on input
// (spec's supplemented verbose diagnostics, originally classify.cpp's
// percent-correct report).
func percentCorrect(in *dataframe.Frame, samples []sample.Sample) (bool, float64) {
	if !in.HasColumn("manual_label") {
		return false, 0
	}
	correct := 0
	for _, s := range samples {
		if s.Prediction == s.Cls {
			correct++
		}
	}
	if len(samples) == 0 {
		return true, 100
	}
	return true, 100 * float64(correct) / float64(len(samples))
}
