package aggregate

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const reportRule = "===================================================================================="

// NoDataMessage is printed instead of statistics when nothing was accepted.
const NoDataMessage = "No valid candidates to report."

// WriteReport prints the summary block:
//
//	====...
//	Input data report:
//	Name:    Max. 11, Min. 3, Avg. 6.5
//	Billing: Max. 200.00, Min. 100.00, Avg. 150.00
//	====...
func WriteReport(w io.Writer, s Summary) error {
	if s.Empty() {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	var b strings.Builder
	b.WriteString(reportRule + "\n")
	b.WriteString("Input data report:\n")
	fmt.Fprintf(&b, "Name:    Max. %d, Min. %d, Avg. %s\n",
		int(s.NameLength.Max), int(s.NameLength.Min), roundTrim(s.NameLength.Avg))
	fmt.Fprintf(&b, "Billing: Max. %.2f, Min. %.2f, Avg. %.2f\n",
		s.Billing.Max, s.Billing.Min, s.Billing.Avg)
	b.WriteString(reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// roundTrim rounds to two decimals and prints the shortest form, keeping one
// fractional digit for whole numbers ("6.0", "6.5", "6.67").
func roundTrim(v float64) string {
	rounded := math.Round(v*100) / 100
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
