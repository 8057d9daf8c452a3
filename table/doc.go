// Package table is the tabular boundary of condmi: named float columns, CSV
// ingestion, and column selection into sample matrices.
//
// A Table is column-major and immutable. Selecting one or more columns
// yields an N×d sample.Matrix whose coordinates follow the requested order:
//
//	t, err := table.ReadCSV(f)
//	x, err := t.Select("age", "income") // N×2
//	sel := table.Columns(t, "score")    // lazy; resolved by cmi.Compute
//
// Cells are parsed with strconv.ParseFloat, so integers widen exactly up to
// 2⁵³. Missing values are not supported: an empty cell, NaN or ±Inf fails.
//
// Errors:
//   - ErrShape           — no header, no rows, ragged records, column length mismatch.
//   - ErrType            — a cell that is not a number.
//   - ErrNonFinite       — empty cell, NaN or ±Inf.
//   - ErrUnknownColumn   — selecting a name not in the header.
//   - ErrDuplicateColumn — a header name used twice.
package table
