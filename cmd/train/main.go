// Public domain.

// Command train reads newline-delimited training CSV filenames from
// standard input, assembles a balanced feature matrix, and fits a
// classifier model (spec §6, "CLI surface (train)").
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/soniakeys/exit"

	"github.com/ATL24-utils/qtrees-go/internal/booster"
	"github.com/ATL24-utils/qtrees-go/internal/dataframe"
	"github.com/ATL24-utils/qtrees-go/internal/feature"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
	"github.com/ATL24-utils/qtrees-go/internal/sample"
	"github.com/ATL24-utils/qtrees-go/internal/window"
)

func main() {
	defer exit.Handler()

	var (
		balanceRatio uint
		randomSeed   uint64
		epochs       int
		search       bool
		featureDump  string
		inputModel   string
		outputModel  string
		verbose      bool
	)
	flag.UintVar(&balanceRatio, "balance-priors-ratio", 0, "noise/surface-to-bathymetry cap ratio, 0 disables balancing")
	flag.Uint64Var(&randomSeed, "random-seed", 0, "seed for balanced sampling and training")
	flag.IntVar(&epochs, "epochs", booster.DefaultEpochs, "boosting rounds")
	flag.BoolVar(&search, "search", false, "hyperparameter search (unsupported)")
	flag.StringVar(&featureDump, "feature-dump-filename", "", "write the assembled feature matrix here as CSV")
	flag.StringVar(&inputModel, "input-model-filename", "", "warm-start training from this model")
	flag.StringVar(&outputModel, "output-model-filename", "", "write the trained model here")
	flag.BoolVar(&verbose, "verbose", false, "print progress diagnostics to standard error")
	flag.Usage = usage
	flag.Parse()

	if err := run(balanceRatio, randomSeed, epochs, search, featureDump, inputModel, outputModel, verbose); err != nil {
		exit.Log(err)
	}
}

func run(balanceRatio uint, randomSeed uint64, epochs int, search bool, featureDump, inputModel, outputModel string, verbose bool) (err error) {
	defer qerr.Recover(&err)

	if outputModel == "" {
		return qerr.New(qerr.InvalidArguments, "--output-model-filename is required")
	}
	if search {
		return qerr.New(qerr.InvalidArguments, "--search is not supported: hyperparameter search is out of scope")
	}

	frames, err := readTrainingFrames(os.Stdin, verbose)
	if err != nil {
		return err
	}

	samples := sample.ReadTrainingFrames(frames)
	if verbose {
		fmt.Fprintln(os.Stderr, "train: read", len(samples), "labeled photons from", len(frames), "dataset(s)")
	}

	order := sample.BalancedIndexes(samples, randomSeed, balanceRatio)
	balanced := make([]sample.Sample, len(order))
	for i, idx := range order {
		balanced[i] = samples[idx]
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "train: balanced to", len(balanced), "photons")
	}

	builder := feature.NewBuilder(balanced, window.DefaultParams, feature.DefaultParams)
	matrix := builder.Matrix()

	if featureDump != "" {
		if err := dumpFeatures(featureDump, balanced, matrix, builder.Width()); err != nil {
			return err
		}
	}

	labels := make([]uint32, len(balanced))
	for i, s := range balanced {
		labels[i] = sample.Remap(s.Cls)
	}
	weights := sample.ClassWeights(labels)

	trainParams := booster.TrainParams{
		NumRound: epochs,
		Seed:     randomSeed,
		ModelIn:  inputModel,
	}
	return booster.Train(context.Background(), matrix, labels, weights, len(balanced), builder.Width(), outputModel, trainParams)
}

// readTrainingFrames reads one filename per line and parses each into
// a dataframe, preserving the order filenames were given (that order
// becomes each frame's DatasetID via sample.ReadTrainingFrames).
func readTrainingFrames(r *os.File, verbose bool) ([][]sample.Sample, error) {
	var frames [][]sample.Sample
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := sc.Text()
		if name == "" {
			continue
		}
		if verbose {
			fmt.Fprintln(os.Stderr, "train: reading", name)
		}
		f, err := os.Open(name)
		if err != nil {
			return nil, qerr.Wrap(qerr.InputFormat, "opening training file "+name, err)
		}
		df, err := dataframe.Read(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		samples, err := sample.FromFrame(df)
		if err != nil {
			return nil, err
		}
		frames = append(frames, samples)
	}
	if err := sc.Err(); err != nil {
		return nil, qerr.Wrap(qerr.InputFormat, "reading filename list", err)
	}
	return frames, nil
}

// dumpFeatures writes the assembled feature matrix as CSV with a
// label/dataset_id header prepended to every row, matching the
// original utils.h:dump() column layout ("label,dataset_id,f0,...,fN")
// so the dump can be fed straight to an external training tool.
func dumpFeatures(path string, balanced []sample.Sample, matrix []float32, cols int) error {
	f, err := os.Create(path)
	if err != nil {
		return qerr.Wrap(qerr.Internal, "creating feature dump file", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	bw.WriteString("label,dataset_id")
	for c := 0; c < cols; c++ {
		fmt.Fprintf(bw, ",f%d", c)
	}
	bw.WriteByte('\n')

	for r, s := range balanced {
		fmt.Fprintf(bw, "%d,%d", s.Cls, s.DatasetID)
		for c := 0; c < cols; c++ {
			bw.WriteByte(',')
			fmt.Fprintf(bw, "%g", matrix[r*cols+c])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: train [--balance-priors-ratio U] [--random-seed N] [--epochs N]")
	fmt.Fprintln(os.Stderr, "             [--feature-dump-filename P] [--input-model-filename P]")
	fmt.Fprintln(os.Stderr, "             --output-model-filename P < filenames.txt")
}
