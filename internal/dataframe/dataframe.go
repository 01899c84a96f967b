// Public domain.

// Package dataframe reads and writes the flat, unescaped CSV tables the
// qtrees commands pass between each other (spec §6, "Tabular I/O").
package dataframe

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ATL24-utils/qtrees-go/internal/qerr"
)

// Frame is a column-major table: one name per column, one float64 slice
// per column, all the same length.
type Frame struct {
	Headers []string
	Columns [][]float64
}

// Rows reports the number of data rows, or 0 for a frame with no columns.
func (f *Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0])
}

// Valid reports whether every column has the same length as the first,
// and the header/column counts agree.
func (f *Frame) Valid() bool {
	if len(f.Headers) != len(f.Columns) {
		return false
	}
	if len(f.Columns) == 0 {
		return true
	}
	n := len(f.Columns[0])
	for _, c := range f.Columns[1:] {
		if len(c) != n {
			return false
		}
	}
	return true
}

// Index returns the column index of the given header, or -1.
func (f *Frame) Index(name string) int {
	for i, h := range f.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column with the given header exists.
func (f *Frame) HasColumn(name string) bool {
	return f.Index(name) >= 0
}

// Column returns the named column, or an InputFormat error if absent.
func (f *Frame) Column(name string) ([]float64, error) {
	i := f.Index(name)
	if i < 0 {
		return nil, qerr.New(qerr.InputFormat, "can't find dataframe column: "+name)
	}
	return f.Columns[i], nil
}

// Read parses a header row followed by comma-separated float64 rows.
// Carriage returns trailing header cells are stripped; empty lines are
// skipped; numeric cells parse with strtod-equivalent semantics via
// strconv, tolerating leading whitespace. No quoting or escaping is
// supported, matching the original format.
func Read(r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)

	headerLine, err := readLine(br)
	if err != nil {
		if err == io.EOF {
			return &Frame{}, nil
		}
		return nil, qerr.Wrap(qerr.InputFormat, "reading header", err)
	}

	df := &Frame{}
	for _, h := range strings.Split(headerLine, ",") {
		df.Headers = append(df.Headers, strings.TrimRight(h, "\r"))
	}
	df.Columns = make([][]float64, len(df.Headers))

	for {
		line, err := readLine(br)
		if err == io.EOF && line == "" {
			break
		}
		if err != nil && err != io.EOF {
			return nil, qerr.Wrap(qerr.InputFormat, "reading row", err)
		}
		if line == "" {
			if err == io.EOF {
				break
			}
			continue
		}
		fields := strings.Split(line, ",")
		for i := range df.Headers {
			var v float64
			if i < len(fields) {
				v, _ = parseLeadingFloat(fields[i])
			}
			df.Columns[i] = append(df.Columns[i], v)
		}
		if err == io.EOF {
			break
		}
	}

	qerr.Verify(df.Valid(), "dataframe columns same length after read")
	return df, nil
}

// readLine reads up to and excluding '\n', stripping a trailing '\r'.
func readLine(br *bufio.Reader) (string, error) {
	s, err := br.ReadString('\n')
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	if s == "" && err != nil {
		return "", err
	}
	return s, err
}

// parseLeadingFloat mimics strtod: it tolerates leading whitespace and
// parses as much of a valid float as it can, treating unparseable cells
// as 0, matching the original's char*-scanning reader.
func parseLeadingFloat(s string) (float64, error) {
	s = strings.TrimLeft(s, " \t")
	end := len(s)
	seenDigit := false
	seenDot := false
	seenExp := false
	start := 0
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				i++
			}
		default:
			end = i
			goto done
		}
	}
done:
	if !seenDigit {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil {
		return 0, nil
	}
	return v, nil
}

// Write writes the frame as fixed-point CSV with the given precision
// (spec §6: "fixed-point with 16-digit precision").
func Write(w io.Writer, df *Frame, precision int) error {
	qerr.Verify(df.Valid(), "dataframe valid before write")

	bw := bufio.NewWriter(w)
	if len(df.Headers) == 0 {
		return bw.Flush()
	}

	for i, h := range df.Headers {
		if i != 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(h)
	}
	bw.WriteByte('\n')

	rows := df.Rows()
	for r := 0; r < rows; r++ {
		for c := range df.Headers {
			if c != 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(strconv.FormatFloat(df.Columns[c][r], 'f', precision, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
