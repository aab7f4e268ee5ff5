// Package aggregate computes billing and name statistics over validated
// records and prints the run report.
package aggregate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ginjaninja78/csv-pii-masker/internal/record"
)

// Stat holds the extremes and mean of one measure.
type Stat struct {
	Max float64
	Min float64
	Avg float64
}

// Summary is the statistics block of a run. Count == 0 means there was no
// data and the stats are zero values.
type Summary struct {
	Count      int
	NameLength Stat
	Billing    Stat
}

// Empty reports whether the summary was computed over no records.
func (s Summary) Empty() bool {
	return s.Count == 0
}

// AverageBilling returns the arithmetic mean of billing, or 0 for no records.
func AverageBilling(records []record.Record) float64 {
	if len(records) == 0 {
		return 0
	}

	var total float64
	for _, r := range records {
		total += r.Billing()
	}
	return total / float64(len(records))
}

// SummaryStatistics computes max/min/avg of the name length and of billing.
// Name length counts characters with all whitespace removed.
func SummaryStatistics(records []record.Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	lengths := make([]float64, len(records))
	billings := make([]float64, len(records))
	for i, r := range records {
		lengths[i] = float64(NameLength(r.Name()))
		billings[i] = r.Billing()
	}

	return Summary{
		Count:      len(records),
		NameLength: computeStat(lengths),
		Billing:    computeStat(billings),
	}
}

// NameLength counts the characters of name, ignoring whitespace.
func NameLength(name string) int {
	return utf8.RuneCountInString(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name))
}

func computeStat(values []float64) Stat {
	s := Stat{Max: values[0], Min: values[0]}
	var total float64
	for _, v := range values {
		if v > s.Max {
			s.Max = v
		}
		if v < s.Min {
			s.Min = v
		}
		total += v
	}
	s.Avg = total / float64(len(values))
	return s
}
