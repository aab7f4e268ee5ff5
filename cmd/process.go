// =============================================================================
// Client Data Masker - Process Command
// =============================================================================
//
// This file defines the 'process' command, which masks one input file.
//
// COMMAND USAGE:
//   masker process INPUT [flags]
//
// FLAGS:
//   -o, --output        : Output path (default data/masked_clients.csv)
//   --format            : csv or xml (default: from the output extension)
//   --delimiter         : Input delimiter
//   --output-delimiter  : Output delimiter for csv output
//   --sheet             : Worksheet of .xlsx input (default: the first)
//   --error-log-dir     : Write a log of dropped rows into this directory
//   --archive-dir       : Move the input here after a successful run
//   --xsd               : With xml output, also write an XSD beside it
//   --dry-run           : Process and report without writing any file
//
// OUTPUT:
//   The summary report, then "Masked data written to <path>".
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-pii-masker/internal/aggregate"
	"github.com/ginjaninja78/csv-pii-masker/internal/config"
	"github.com/ginjaninja78/csv-pii-masker/internal/runner"
)

// =============================================================================
// SHARED INPUT FLAGS
// =============================================================================

// inputFlags are the reading options every data command accepts.
type inputFlags struct {
	delimiter string
	sheet     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "",
		"Input field delimiter: a character, or tab, pipe, semicolon")
	cmd.Flags().StringVar(&f.sheet, "sheet", "",
		"Worksheet to read from .xlsx input (default: the first)")
}

func (f *inputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("delimiter") {
		cfg.Input.Delimiter = f.delimiter
	}
	if cmd.Flags().Changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
}

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

type processFlags struct {
	input           inputFlags
	output          string
	format          string
	outputDelimiter string
	errorLogDir     string
	archiveDir      string
	xsd             bool
	dryRun          bool
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	flags := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process INPUT",
		Short: "Validate, deduplicate and mask a client file",
		Long: `The process command reads a client file (.csv or .xlsx), drops duplicate
and malformed rows, and writes the masked records.

Rows are never fatal: a duplicate ID or an invalid field only drops that row.
The run fails when the file cannot be read, is empty, or its header lacks any
of ID, Name, Email, Billing, Location.`,
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return runProcess(cmd, args[0], cfg, flags.dryRun)
		},
	}

	flags.input.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output path, may contain {uuid}, {timestamp}, {original} (default "+config.DefaultOutputPath+")")
	cmd.Flags().StringVar(&flags.format, "format", "",
		"Output format: csv or xml (default: from the output extension)")
	cmd.Flags().StringVar(&flags.outputDelimiter, "output-delimiter", "",
		"Field delimiter for csv output")
	cmd.Flags().StringVar(&flags.errorLogDir, "error-log-dir", "",
		"Directory for a log of dropped rows")
	cmd.Flags().StringVar(&flags.archiveDir, "archive-dir", "",
		"Directory the input is moved to after a successful run")
	cmd.Flags().BoolVar(&flags.xsd, "xsd", false,
		"With xml output, also write an XSD schema next to it")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false,
		"Process and report without writing any file")

	return cmd
}

// apply overrides the configuration with the flags that were set, then
// validates the result.
func (f *processFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	f.input.apply(cmd, cfg)

	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output.Path = f.output
		if !changed("format") {
			cfg.Output.Format = config.FormatForPath(f.output)
		}
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("output-delimiter") {
		cfg.Output.Delimiter = f.outputDelimiter
	}
	if changed("error-log-dir") {
		cfg.Output.ErrorLogDir = f.errorLogDir
	}
	if changed("archive-dir") {
		cfg.Output.ArchiveDir = f.archiveDir
	}
	if changed("xsd") {
		cfg.Output.XML.WriteSchema = f.xsd
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command, input string, cfg *config.Config, dryRun bool) error {
	result := runner.New(input, cfg, runner.WithDryRun(dryRun)).Run(cmd.Context())
	if result.Error != nil {
		return fmt.Errorf("error processing %s: %w", input, result.Error)
	}

	out := cmd.OutOrStdout()
	if err := aggregate.WriteReport(out, result.Summary); err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(out, "Dry run: %d masked rows were not written\n", result.Stats.Accepted)
	} else {
		fmt.Fprintf(out, "Masked data written to %s\n", result.OutputFile)
	}
	if result.SchemaFile != "" {
		fmt.Fprintf(out, "Schema written to %s\n", result.SchemaFile)
	}
	if result.ErrorLogFile != "" {
		fmt.Fprintf(out, "Dropped rows logged to %s\n", result.ErrorLogFile)
	}

	return nil
}

// runDry runs the pipeline without writing files, for the read-only commands.
func runDry(cmd *cobra.Command, input string, cfg *config.Config, flags *inputFlags) (runner.Result, error) {
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return runner.Result{}, fmt.Errorf("invalid flags: %w", err)
	}

	result := runner.New(input, cfg, runner.WithDryRun(true)).Run(cmd.Context())
	if result.Error != nil {
		return result, fmt.Errorf("error processing %s: %w", input, result.Error)
	}
	return result, nil
}

// printCounts writes the one-line row tally.
func printCounts(w io.Writer, stats runner.Stats) {
	fmt.Fprintf(w, "%d of %d rows accepted, %d duplicate, %d invalid\n",
		stats.Accepted, stats.DataRows, stats.Duplicates, stats.Invalid)
}
