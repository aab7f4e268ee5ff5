// =============================================================================
// Client Data Masker - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (producers of raw rows)
//   - processor (consumer of raw rows)
//   - csvwriter / xmlwriter (header of the masked output)
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// RAW ROWS
// =============================================================================

// Row is one raw input row as an ordered sequence of untyped scalar cells.
//
// Readers always produce strings, but callers building rows by hand may use
// integers, floats or nil. Validation is responsible for normalizing the
// value, so nothing here assumes a concrete cell type.
type Row []any

// RowFromStrings converts a slice of strings into a Row.
func RowFromStrings(cells []string) Row {
	row := make(Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}

// Strings renders every cell of the row as text.
// Nil cells become empty strings.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, cell := range r {
		if cell == nil {
			continue
		}
		out[i] = fmt.Sprint(cell)
	}
	return out
}

// =============================================================================
// CANONICAL HEADER
// =============================================================================

// Field names of the canonical header. The data rows of every input are
// positional in exactly this order.
const (
	FieldID       = "ID"
	FieldName     = "Name"
	FieldEmail    = "Email"
	FieldBilling  = "Billing"
	FieldLocation = "Location"
)

// Header returns the canonical header used for both input validation and
// masked output. A fresh slice is returned on every call.
func Header() []string {
	return []string{FieldID, FieldName, FieldEmail, FieldBilling, FieldLocation}
}
