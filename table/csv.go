// SPDX-License-Identifier: MIT

package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// CSVOptions configures ReadCSV.
//
//   - Comma   — field delimiter (default ',').
//   - Comment — lines starting with this rune are skipped (0 disables).
type CSVOptions struct {
	Comma   rune
	Comment rune
}

// CSVOption represents a functional option for ReadCSV.
type CSVOption func(*CSVOptions)

// WithComma sets the field delimiter. Panics on '\n', '\r', '"' or an
// invalid rune, which encoding/csv cannot use.
func WithComma(r rune) CSVOption {
	if r == '\n' || r == '\r' || r == '"' || r == 0 || r == 0xFFFD {
		panic(fmt.Sprintf("table: WithComma: invalid delimiter %q", r))
	}
	return func(o *CSVOptions) {
		o.Comma = r
	}
}

// WithComment enables comment lines starting with r.
func WithComment(r rune) CSVOption {
	return func(o *CSVOptions) {
		o.Comment = r
	}
}

// DefaultCSVOptions returns comma-separated input without comments.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Comma: ','}
}

// ReadCSV reads a table with a header row followed by numeric records.
// Header names and cells are trimmed of surrounding spaces.
//
// Stage 1 (Header):  first record names the columns (unique, non-empty set).
// Stage 2 (Records): every record must have as many fields as the header.
// Stage 3 (Parse):   cells parse as float64; ints widen exactly.
//
// Errors: ErrShape, ErrType, ErrNonFinite, ErrDuplicateColumn, or the
// reader's I/O error.
// Complexity: O(N·C).
func ReadCSV(r io.Reader, opts ...CSVOption) (*Table, error) {
	o := DefaultCSVOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.Comma = o.Comma
	cr.Comment = o.Comment
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("table: missing header: %w", ErrShape)
	}
	if err != nil {
		return nil, csvError(err)
	}
	names := make([]string, len(header))
	for j, h := range header {
		names[j] = strings.TrimSpace(h)
	}

	cols := make([][]float64, len(names))
	var (
		rec  []string
		line int
		v    float64
	)
	for line = 2; ; line++ {
		if rec, err = cr.Read(); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, csvError(err)
		}
		for j, cell := range rec {
			if v, err = parseCell(cell); err != nil {
				return nil, fmt.Errorf("table: record %d, column %q: %w", line, names[j], err)
			}
			cols[j] = append(cols[j], v)
		}
	}
	if len(cols[0]) == 0 {
		return nil, fmt.Errorf("table: header without records: %w", ErrShape)
	}

	return New(names, cols)
}

// parseCell converts one trimmed cell.
func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, fmt.Errorf("empty cell: %w", ErrNonFinite)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q out of range: %w", s, ErrNonFinite)
		}
		return 0, fmt.Errorf("%q: %w", s, ErrType)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrNonFinite)
	}

	return v, nil
}

// csvError maps encoding/csv field-count errors onto ErrShape.
func csvError(err error) error {
	if errors.Is(err, csv.ErrFieldCount) {
		return fmt.Errorf("table: ragged record: %v: %w", err, ErrShape)
	}

	return fmt.Errorf("table: %w", err)
}
