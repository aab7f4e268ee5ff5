// =============================================================================
// Client Data Masker - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   masker validate INPUT [--strict] [--delimiter D] [--sheet S]
//
// Lists every row that would be dropped, with the reason. With --strict the
// command fails when any row is dropped, for use in CI or pre-upload checks.
//
// OUTPUT:
//   row 2: invalid (id 2): Name must be non-empty and contain no numbers. Got:
//   row 5: duplicate (id 1)
//   3 of 5 rows accepted, 1 duplicate, 1 invalid
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-pii-masker/internal/processor"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	flags := &inputFlags{}
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate INPUT",
		Short: "List the rows of a client file that would be dropped",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runDry(cmd, args[0], root.cfg, flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range result.Skipped {
				fmt.Fprintln(out, describeSkipped(s))
			}
			printCounts(out, result.Stats)

			if strict && len(result.Skipped) > 0 {
				return fmt.Errorf("%d rows would be dropped", len(result.Skipped))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any row would be dropped")
	return cmd
}

func describeSkipped(s processor.SkippedRow) string {
	line := fmt.Sprintf("row %d: %s", s.Row, s.Reason)
	if s.RawID != nil {
		line += fmt.Sprintf(" (id %v)", s.RawID)
	}
	if s.Err != nil {
		line += ": " + s.Err.Error()
	}
	return line
}
