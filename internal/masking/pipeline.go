package masking

import (
	"strconv"

	"github.com/ginjaninja78/csv-pii-masker/internal/record"
)

// OutputRow is one masked client, ready to be written.
//
// Billing is the shared average of the batch, not the client's own amount.
type OutputRow struct {
	ID       int
	Name     string
	Email    string
	Billing  float64
	Location string
}

// Strings renders the row in output column order.
func (r OutputRow) Strings() []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Name,
		r.Email,
		record.FormatDecimal(r.Billing),
		r.Location,
	}
}

// Mask produces one OutputRow per record, in input order. Name and location
// are letter-masked, the email keeps its domain suffix and every row carries
// averageBilling in place of the record's own billing.
func Mask(records []record.Record, averageBilling float64) []OutputRow {
	rows := make([]OutputRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, OutputRow{
			ID:       r.ID(),
			Name:     MaskLettersClean(r.Name()),
			Email:    MaskEmail(r.Email()),
			Billing:  averageBilling,
			Location: MaskLettersClean(r.Location()),
		})
	}
	return rows
}

// Table renders rows for the writers.
func Table(rows []OutputRow) [][]string {
	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = row.Strings()
	}
	return table
}
