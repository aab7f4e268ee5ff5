// =============================================================================
// Client Data Masker - Row Processor
// =============================================================================
//
// The row processor turns raw tabular input into an ordered, deduplicated
// list of validated Records.
//
// INPUT:
//   rows[0]     : header row, must name ID, Name, Email, Billing, Location
//                 (in any order)
//   rows[1..n]  : data rows, positional: id, name, email, billing, location
//
// PROCESSING (one pass, input order):
//   1. Raw id already accepted in this batch -> skip as duplicate, no validation
//   2. Row shorter than five cells           -> skip as invalid
//   3. Record construction fails             -> skip as invalid
//   4. Otherwise                             -> keep, mark the raw id as seen
//
//   Only accepted rows mark an id as seen. A row that fails validation does
//   not block a later row with the same raw id.
//
// ERROR HANDLING:
//   - Field errors never abort the batch, they become SkippedRow entries
//   - An empty input or an incomplete header aborts the batch
//
// =============================================================================

package processor

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/ginjaninja78/csv-pii-masker/internal/record"
	"github.com/ginjaninja78/csv-pii-masker/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyInput is returned when there is not even a header row.
var ErrEmptyInput = errors.New("input data is empty")

// ErrShortRow marks a data row with fewer cells than required fields.
var ErrShortRow = errors.New("row has fewer fields than the header requires")

// MissingFieldsError lists the required header fields that are absent.
type MissingFieldsError struct {
	Missing []string
}

// Error implements the error interface.
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields in header: %v", e.Missing)
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// SkipReason tells why a data row was dropped.
type SkipReason string

const (
	// SkipDuplicate means the raw id was already accepted earlier in the batch.
	SkipDuplicate SkipReason = "duplicate"

	// SkipInvalid means the row failed validation or was too short.
	SkipInvalid SkipReason = "invalid"
)

// SkippedRow describes one dropped data row.
type SkippedRow struct {
	// Row is the 1-based position among data rows (the header is not counted).
	Row int

	// RawID is the unvalidated value of the ID column, nil for an empty row.
	RawID any

	// Reason is the skip category.
	Reason SkipReason

	// Err is the validation error for SkipInvalid rows, nil for duplicates.
	Err error
}

// Batch is the outcome of processing one input.
type Batch struct {
	// Records are the accepted records, in input order.
	Records []record.Record

	// Skipped are the dropped rows, in input order.
	Skipped []SkippedRow

	// DataRows is the number of rows after the header.
	DataRows int
}

// Count returns how many rows were skipped for the given reason.
func (b *Batch) Count(reason SkipReason) int {
	n := 0
	for _, s := range b.Skipped {
		if s.Reason == reason {
			n++
		}
	}
	return n
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Logger is the logging surface the processor needs. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Recorder observes the processing of each row, e.g. to update metrics.
type Recorder interface {
	RowProcessed()
	RowSkipped(reason SkipReason)
	RecordAccepted()
}

// Processor runs the row-processing algorithm. It holds no per-batch state
// and can be reused.
type Processor struct {
	logger   Logger
	recorder Recorder
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for per-row messages.
func WithLogger(logger Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder registers a Recorder.
func WithRecorder(recorder Recorder) Option {
	return func(p *Processor) {
		p.recorder = recorder
	}
}

// New creates a Processor. Without options it logs to slog.Default().
func New(opts ...Option) *Processor {
	p := &Processor{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs a default Processor over rows and returns the accepted records.
func Process(rows []types.Row) ([]record.Record, error) {
	batch, err := New().Run(rows)
	if err != nil {
		return nil, err
	}
	return batch.Records, nil
}

// Run validates the header, then processes every data row.
func (p *Processor) Run(rows []types.Row) (*Batch, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	if missing := missingFields(rows[0]); len(missing) > 0 {
		return nil, &MissingFieldsError{Missing: missing}
	}

	data := rows[1:]
	batch := &Batch{
		Records:  make([]record.Record, 0, len(data)),
		DataRows: len(data),
	}

	// seen holds raw ids of accepted rows only.
	seen := make(map[any]struct{})
	required := len(types.Header())

	for i, row := range data {
		rowNumber := i + 1
		p.logger.Debug("processing row", "row", rowNumber)
		p.rowProcessed()

		if len(row) == 0 {
			p.skip(batch, SkippedRow{
				Row:    rowNumber,
				Reason: SkipInvalid,
				Err:    fmt.Errorf("%w: got 0", ErrShortRow),
			})
			continue
		}

		rawID := row[0]
		key := rawKey(rawID)
		if _, dup := seen[key]; dup {
			p.skip(batch, SkippedRow{Row: rowNumber, RawID: rawID, Reason: SkipDuplicate})
			continue
		}

		if len(row) < required {
			p.skip(batch, SkippedRow{
				Row:    rowNumber,
				RawID:  rawID,
				Reason: SkipInvalid,
				Err:    fmt.Errorf("%w: got %d", ErrShortRow, len(row)),
			})
			continue
		}

		rec, err := record.New(row[0], row[1], row[2], row[3], row[4])
		if err != nil {
			p.skip(batch, SkippedRow{Row: rowNumber, RawID: rawID, Reason: SkipInvalid, Err: err})
			continue
		}

		batch.Records = append(batch.Records, rec)
		seen[key] = struct{}{}
		if p.recorder != nil {
			p.recorder.RecordAccepted()
		}
	}

	p.logger.Info("batch processed",
		"data_rows", batch.DataRows,
		"accepted", len(batch.Records),
		"duplicates", batch.Count(SkipDuplicate),
		"invalid", batch.Count(SkipInvalid),
	)

	return batch, nil
}

func (p *Processor) skip(batch *Batch, s SkippedRow) {
	batch.Skipped = append(batch.Skipped, s)

	switch s.Reason {
	case SkipDuplicate:
		p.logger.Warn("duplicate id, skipping", "row", s.Row, "id", s.RawID)
	default:
		p.logger.Warn("row is invalid, skipping", "row", s.Row, "error", s.Err)
	}

	if p.recorder != nil {
		p.recorder.RowSkipped(s.Reason)
	}
}

func (p *Processor) rowProcessed() {
	if p.recorder != nil {
		p.recorder.RowProcessed()
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// missingFields returns the required header names absent from header, in
// canonical order. Header cells are compared after trimming.
func missingFields(header types.Row) []string {
	present := make(map[string]bool, len(header))
	for _, cell := range header {
		if cell == nil {
			continue
		}
		present[strings.TrimSpace(fmt.Sprint(cell))] = true
	}

	var missing []string
	for _, field := range types.Header() {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

// rawKey makes a raw id usable as a map key. Identity is the raw value
// itself, so "1" and " 1" are different ids.
func rawKey(v any) any {
	if v == nil || reflect.TypeOf(v).Comparable() {
		return v
	}
	return fmt.Sprintf("%T:%v", v, v)
}
