// =============================================================================
// Client Data Masker - Main Entry Point
// =============================================================================
//
// USAGE:
//   masker process INPUT    - Validate, deduplicate and mask a client file
//   masker report INPUT     - Print name and billing statistics
//   masker validate INPUT   - List the rows that would be dropped
//   masker version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Validation, deduplication, masking, readers and writers
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv-pii-masker/cmd"
)

func main() {
	cmd.Execute()
}
