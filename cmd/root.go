// =============================================================================
// Client Data Masker - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (masker)
//   ├── processCmd  (masker process INPUT)
//   ├── reportCmd   (masker report INPUT)
//   ├── validateCmd (masker validate INPUT)
//   └── versionCmd  (masker version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (--config, .env, MASKER_* variables)
//   2. Applies the global logging flags
//   3. Sets up structured logging on stderr
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-pii-masker/internal/config"
	"github.com/ginjaninja78/csv-pii-masker/internal/logging"
)

// rootOptions holds the global flags and the configuration they resolve to.
type rootOptions struct {
	// cfgFile is the YAML configuration file. Empty means defaults only.
	cfgFile string

	// verbose forces debug logging.
	verbose bool

	// logFormat overrides the configured log format ("text" or "json").
	logFormat string

	// cfg is loaded by the root command before a subcommand runs.
	cfg *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "masker",
		Short: "Client Data Masker - validate, deduplicate and mask client records",
		Long: `Client Data Masker reads a file of client records (ID, Name, Email, Billing,
Location), drops duplicate and malformed rows, and writes a masked copy that
can be shared without exposing personal data.

Masking replaces every letter with X. Email domains keep their suffix, so
"john.doe@mail.co.uk" becomes "XXXX.XXX@XXXX.co.uk". Every output row carries
the average billing of the accepted records instead of its own amount.

Example Usage:
  masker process data/clients.csv                   # writes data/masked_clients.csv
  masker process clients.xlsx -o out/masked.xml      # spreadsheet in, XML out
  masker report data/clients.csv                    # print statistics only
  masker validate --strict data/clients.csv         # fail if any row is dropped`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},

		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&opts.cfgFile,
		"config",
		"",
		"Path to a YAML configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&opts.logFormat,
		"log-format",
		"",
		"Log format: text or json (overrides the configuration)",
	)

	rootCmd.AddCommand(
		newProcessCmd(opts),
		newReportCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig loads the configuration and sets up logging.
func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}

	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-format: %w", err)
		}
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	o.cfg = cfg
	return nil
}
