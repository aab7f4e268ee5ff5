// =============================================================================
// Client Data Masker - Runner Module
// =============================================================================
//
// This module orchestrates one masking run over a single input file.
//
// PIPELINE:
//   1. Read the input (spreadsheet or delimited text, chosen by extension)
//   2. Validate and deduplicate rows
//   3. Compute the average billing and the summary statistics
//   4. Mask the accepted records
//   5. Write the masked output (csv or xml)
//   6. Write the error log of dropped rows
//   7. Archive the input file
//   8. Export run metrics
//
// Steps 5 to 7 are skipped in dry-run mode. Dropped rows never fail a run;
// an unreadable input, an empty input or an incomplete header does.
//
// =============================================================================

package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/csv-pii-masker/internal/aggregate"
	"github.com/ginjaninja78/csv-pii-masker/internal/config"
	"github.com/ginjaninja78/csv-pii-masker/internal/csvparser"
	"github.com/ginjaninja78/csv-pii-masker/internal/csvwriter"
	"github.com/ginjaninja78/csv-pii-masker/internal/logging"
	"github.com/ginjaninja78/csv-pii-masker/internal/masking"
	"github.com/ginjaninja78/csv-pii-masker/internal/metrics"
	"github.com/ginjaninja78/csv-pii-masker/internal/processor"
	"github.com/ginjaninja78/csv-pii-masker/internal/record"
	"github.com/ginjaninja78/csv-pii-masker/internal/types"
	"github.com/ginjaninja78/csv-pii-masker/internal/xlsxparser"
	"github.com/ginjaninja78/csv-pii-masker/internal/xmlwriter"
	"github.com/ginjaninja78/csv-pii-masker/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in logs, error log names and metrics.
	RunID string

	// InputFile is the path of the input that was processed.
	InputFile string

	// OutputFile is the masked output. Empty on failure or in dry-run mode.
	OutputFile string

	// SchemaFile is the XSD written next to an XML output. Empty unless
	// enabled.
	SchemaFile string

	// ErrorLogFile lists the dropped rows. Empty when disabled or when no
	// row was dropped.
	ErrorLogFile string

	// ArchivedInput is where the input was moved. Empty when disabled.
	ArchivedInput string

	// AverageBilling is the value written into every output row.
	AverageBilling float64

	// Summary holds the name length and billing statistics.
	Summary aggregate.Summary

	// Skipped lists the dropped rows in input order.
	Skipped []processor.SkippedRow

	// Success indicates whether the run completed.
	Success bool

	// Error is set when the run failed.
	Error error

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains row counts and timing of a run.
type Stats struct {
	DataRows       int
	Accepted       int
	Duplicates     int
	Invalid        int
	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// Runner masks a single input file.
type Runner struct {
	inputPath string
	cfg       *config.Config
	dryRun    bool
	runID     string
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithDryRun makes the run compute everything but write no files.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// New creates a Runner for inputPath. A nil cfg means the defaults.
func New(inputPath string, cfg *config.Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Runner{
		inputPath: inputPath,
		cfg:       cfg,
		runID:     uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline. Every log line of the run carries the run ID.
func (r *Runner) Run(ctx context.Context) Result {
	start := r.now()
	ctx = logging.WithRunID(ctx, r.runID)
	logger := logging.WithFields(ctx, "input", r.inputPath)

	var m *metrics.Metrics
	if r.cfg.Metrics.Textfile != "" && !r.dryRun {
		m = metrics.New()
	}

	logger.Info("run started", "dry_run", r.dryRun)

	result := r.run(logger, m)
	result.Stats.ProcessingTime = r.now().Sub(start)
	r.exportMetrics(m, &result, logger)

	return result
}

func (r *Runner) run(logger *slog.Logger, m *metrics.Metrics) Result {
	result := Result{
		RunID:     r.runID,
		InputFile: r.inputPath,
	}

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	rows, err := r.readInput()
	if err != nil {
		return r.fail(result, logger, fmt.Errorf("failed to read input: %w", err))
	}
	logger.Debug("input read", "rows", len(rows))

	// =========================================================================
	// STEP 2: VALIDATE AND DEDUPLICATE
	// =========================================================================

	opts := []processor.Option{processor.WithLogger(logger)}
	if m != nil {
		opts = append(opts, processor.WithRecorder(m))
	}
	batch, err := processor.New(opts...).Run(rows)
	if err != nil {
		return r.fail(result, logger, err)
	}

	result.Skipped = batch.Skipped
	result.Stats.DataRows = batch.DataRows
	result.Stats.Accepted = len(batch.Records)
	result.Stats.Duplicates = batch.Count(processor.SkipDuplicate)
	result.Stats.Invalid = batch.Count(processor.SkipInvalid)

	// =========================================================================
	// STEP 3: AGGREGATE
	// =========================================================================

	result.AverageBilling = aggregate.AverageBilling(batch.Records)
	result.Summary = aggregate.SummaryStatistics(batch.Records)
	m.SetAverageBilling(result.AverageBilling)

	// =========================================================================
	// STEP 4: MASK
	// =========================================================================

	table := masking.Table(masking.Mask(batch.Records, result.AverageBilling))

	if r.dryRun {
		result.Success = true
		logger.Info("dry run complete", "accepted", result.Stats.Accepted)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT
	// =========================================================================

	outputPath := utils.ResolveOutputPath(r.cfg.Output.Path, r.inputPath)
	if err := r.writeOutput(outputPath, table); err != nil {
		return r.fail(result, logger, fmt.Errorf("failed to write output: %w", err))
	}
	result.OutputFile = outputPath
	logger.Info("masked data written", "output", outputPath, "rows", len(table))

	if r.cfg.Output.Format == config.FormatXML && r.cfg.Output.XML.WriteSchema {
		schemaPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".xsd"
		if err := xmlwriter.WriteXSDFile(schemaPath, types.Header(), r.xmlOptions()); err != nil {
			return r.fail(result, logger, fmt.Errorf("failed to write schema: %w", err))
		}
		result.SchemaFile = schemaPath
		logger.Debug("schema written", "path", schemaPath)
	}

	// =========================================================================
	// STEP 6: ERROR LOG
	// =========================================================================

	if r.cfg.Output.ErrorLogDir != "" {
		logPath, err := utils.WriteErrorLog(r.errorLogEntries(batch.Skipped), r.cfg.Output.ErrorLogDir, r.runID)
		if err != nil {
			// The masked output exists; a missing error log does not undo it.
			logger.Warn("failed to write error log", "error", err)
		}
		result.ErrorLogFile = logPath
	}

	// =========================================================================
	// STEP 7: ARCHIVE INPUT
	// =========================================================================

	if r.cfg.Output.ArchiveDir != "" {
		archived, err := utils.ArchiveFile(r.inputPath, r.cfg.Output.ArchiveDir, false)
		if err != nil {
			logger.Warn("failed to archive input", "error", err)
		} else {
			result.ArchivedInput = archived
			logger.Debug("input archived", "path", archived)
		}
	}

	result.Success = true
	logger.Info("run complete",
		"accepted", result.Stats.Accepted,
		"duplicates", result.Stats.Duplicates,
		"invalid", result.Stats.Invalid,
	)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (r *Runner) fail(result Result, logger *slog.Logger, err error) Result {
	result.Error = err
	logger.Error("run failed", "error", err)
	return result
}

// readInput picks the reader by file extension.
func (r *Runner) readInput() ([]types.Row, error) {
	switch strings.ToLower(filepath.Ext(r.inputPath)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Read(r.inputPath, r.cfg.Input.Sheet)
	default:
		return csvparser.Read(r.inputPath, r.cfg.Input)
	}
}

func (r *Runner) writeOutput(path string, table [][]string) error {
	header := types.Header()

	switch r.cfg.Output.Format {
	case config.FormatXML:
		return xmlwriter.WriteFile(path, header, table, r.xmlOptions())
	default:
		return csvwriter.WriteFile(path, header, table, r.cfg.Output.Delimiter)
	}
}

func (r *Runner) xmlOptions() xmlwriter.GenerateOptions {
	options := xmlwriter.DefaultGenerateOptions()
	options.RootElement = r.cfg.Output.XML.RootElement
	options.RecordElement = r.cfg.Output.XML.RecordElement
	options.Indent = r.cfg.Output.XML.Indent
	return options
}

// errorLogEntries converts dropped rows into error log entries.
func (r *Runner) errorLogEntries(skipped []processor.SkippedRow) []utils.ErrorLogEntry {
	now := r.now()
	fileName := filepath.Base(r.inputPath)

	entries := make([]utils.ErrorLogEntry, 0, len(skipped))
	for _, s := range skipped {
		entry := utils.ErrorLogEntry{
			Timestamp: now,
			FileName:  fileName,
			ErrorType: string(s.Reason),
			RowNumber: s.Row,
		}
		if s.RawID != nil {
			entry.RawID = fmt.Sprint(s.RawID)
		}
		if s.Err != nil {
			entry.Message = s.Err.Error()
		} else if s.Reason == processor.SkipDuplicate {
			entry.Message = "ID already accepted earlier in the input"
		}

		var fieldErr *record.FieldError
		if errors.As(s.Err, &fieldErr) {
			entry.FieldName = fieldErr.Field
			entry.FieldValue = fieldErr.Value
		}

		entries = append(entries, entry)
	}
	return entries
}

func (r *Runner) exportMetrics(m *metrics.Metrics, result *Result, logger *slog.Logger) {
	if m == nil {
		return
	}
	m.ObserveRun(result.Stats.ProcessingTime, r.now(), result.Error == nil)
	if err := m.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		logger.Warn("failed to write metrics", "error", err)
	}
}
