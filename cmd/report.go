// =============================================================================
// Client Data Masker - Report Command
// =============================================================================
//
// COMMAND USAGE:
//   masker report INPUT [--delimiter D] [--sheet S]
//
// Prints the statistics of the accepted records without writing any file.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-pii-masker/internal/aggregate"
)

func newReportCmd(root *rootOptions) *cobra.Command {
	flags := &inputFlags{}

	cmd := &cobra.Command{
		Use:   "report INPUT",
		Short: "Print name and billing statistics of a client file",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runDry(cmd, args[0], root.cfg, flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := aggregate.WriteReport(out, result.Summary); err != nil {
				return err
			}
			printCounts(out, result.Stats)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
