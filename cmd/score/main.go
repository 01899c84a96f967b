// Public domain.

// Command score reports how often a prediction column agrees with
// manual_label across one or more dataframes (spec §6, "CLI surface
// (score)"). It deliberately stops at agreement counts: confusion-
// matrix arithmetic is out of scope (spec §1, Non-goals).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/soniakeys/exit"

	"github.com/ATL24-utils/qtrees-go/internal/dataframe"
	"github.com/ATL24-utils/qtrees-go/internal/qerr"
)

func main() {
	defer exit.Handler()

	var (
		class           int
		predictionLabel string
		csvFilename     string
		ignoreClass     int
		haveClass       bool
		haveIgnore      bool
	)
	flag.StringVar(&predictionLabel, "prediction-label", "prediction", "column holding the predicted class")
	flag.StringVar(&csvFilename, "csv-filename", "", "write a per-row agreement CSV here")
	flag.Func("class", "restrict scoring to this class code", func(s string) error {
		v, err := parseInt(s)
		if err != nil {
			return err
		}
		class, haveClass = v, true
		return nil
	})
	flag.Func("ignore-class", "exclude this class code from scoring", func(s string) error {
		v, err := parseInt(s)
		if err != nil {
			return err
		}
		ignoreClass, haveIgnore = v, true
		return nil
	})
	flag.Usage = usage
	flag.Parse()

	opts := scoreOptions{
		predictionLabel: predictionLabel,
		csvFilename:     csvFilename,
		class:           class,
		haveClass:       haveClass,
		ignoreClass:     ignoreClass,
		haveIgnore:      haveIgnore,
	}
	if err := run(flag.Args(), opts); err != nil {
		exit.Log(err)
	}
}

type scoreOptions struct {
	predictionLabel string
	csvFilename     string
	class           int
	haveClass       bool
	ignoreClass     int
	haveIgnore      bool
}

func run(files []string, opts scoreOptions) (err error) {
	defer qerr.Recover(&err)

	var rows []agreementRow
	if len(files) == 0 {
		r, err := scoreFrame(os.Stdin, "-", opts)
		if err != nil {
			return err
		}
		rows = r
	} else {
		for _, name := range files {
			f, err := os.Open(name)
			if err != nil {
				return qerr.Wrap(qerr.InputFormat, "opening "+name, err)
			}
			r, err := scoreFrame(f, name, opts)
			f.Close()
			if err != nil {
				return err
			}
			rows = append(rows, r...)
		}
	}

	total, correct := 0, 0
	for _, r := range rows {
		total++
		if r.correct {
			correct++
		}
	}
	if total == 0 {
		fmt.Println("no scored rows")
	} else {
		fmt.Printf("%d/%d correct (%.4f%%)\n", correct, total, 100*float64(correct)/float64(total))
	}

	if opts.csvFilename != "" {
		return writeAgreementCSV(opts.csvFilename, rows)
	}
	return nil
}

type agreementRow struct {
	source      string
	h5Index     int64
	manualLabel int
	prediction  int
	correct     bool
}

func scoreFrame(r io.Reader, source string, opts scoreOptions) ([]agreementRow, error) {
	df, err := dataframe.Read(r)
	if err != nil {
		return nil, err
	}
	idxCol, err := df.Column("index_ph")
	if err != nil {
		return nil, err
	}
	labelCol, err := df.Column("manual_label")
	if err != nil {
		return nil, err
	}
	predCol, err := df.Column(opts.predictionLabel)
	if err != nil {
		return nil, err
	}

	var out []agreementRow
	for i := range idxCol {
		cls := int(labelCol[i])
		pred := int(predCol[i])
		// Legacy class code 1 ("unclassified") scores identically to 0.
		if cls == 1 {
			cls = 0
		}
		if pred == 1 {
			pred = 0
		}
		if opts.haveClass && cls != opts.class {
			continue
		}
		if opts.haveIgnore && cls == opts.ignoreClass {
			continue
		}
		out = append(out, agreementRow{
			source:      source,
			h5Index:     int64(idxCol[i]),
			manualLabel: cls,
			prediction:  pred,
			correct:     cls == pred,
		})
	}
	return out, nil
}

func writeAgreementCSV(path string, rows []agreementRow) error {
	f, err := os.Create(path)
	if err != nil {
		return qerr.Wrap(qerr.Internal, "creating score csv", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "source,index_ph,manual_label,prediction,correct")
	for _, r := range rows {
		correct := 0
		if r.correct {
			correct = 1
		}
		fmt.Fprintf(f, "%s,%d,%d,%d,%d\n", r.source, r.h5Index, r.manualLabel, r.prediction, correct)
	}
	return nil
}

func parseInt(s string) (int, error) {
	v := 0
	neg := false
	i := 0
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	if i == len(s) {
		return 0, qerr.New(qerr.InvalidArguments, "not a class code: "+s)
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, qerr.New(qerr.InvalidArguments, "not a class code: "+s)
		}
		v = v*10 + int(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: score [--class C] [--prediction-label L] [--csv-filename P] [--ignore-class C] [FILES...]")
}
