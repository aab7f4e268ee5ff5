// =============================================================================
// Client Data Masker - Field Validators
// =============================================================================
//
// Each validator takes one raw cell (text, number or nil) and either returns
// the normalized, typed value or a *FieldError whose Kind identifies the
// failing field. Validators are independent of each other and of Record, so
// callers can reuse them to check single values.
//
// RULES:
//   ID       : integer conversion succeeds and the result is > 0
//   Name     : non-empty after trimming, no digit characters
//   Email    : local@domain grammar, see emailPattern
//   Billing  : "digits, optional dot, 1-2 digits" on the decimal text form
//   Location : same rule as Name
//
// =============================================================================

package record

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/csv-pii-masker/internal/types"
)

var (
	// digitPattern finds any ASCII digit.
	digitPattern = regexp.MustCompile(`\d`)

	// emailPattern: local part, "@", host labels, a 2+ letter label and an
	// optional second 2+ letter label (e.g. "mail.co.uk").
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:\.[a-zA-Z]{2,})?$`)

	// billingPattern: no sign, no exponent, at most two fractional digits.
	billingPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// =============================================================================
// ID
// =============================================================================

// ValidateID converts raw to a positive, non-zero integer.
//
// Strings are trimmed before conversion. Floats are truncated toward zero,
// so 3.9 becomes 3 and 0.5 is rejected.
func ValidateID(raw any) (int, error) {
	id, ok := toInt(raw)
	if !ok {
		return 0, newFieldError(ErrInvalidID, types.FieldID, raw, "ID must be a valid integer")
	}
	if id <= 0 {
		return 0, newFieldError(ErrInvalidID, types.FieldID, raw, "ID must be a positive, non-zero integer")
	}
	return id, nil
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case nil, bool:
		return 0, false
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return uintToInt(uint64(v))
	case uint64:
		return uintToInt(v)
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(v)))
		return n, err == nil
	}
}

func uintToInt(v uint64) (int, bool) {
	if v > math.MaxInt {
		return 0, false
	}
	return int(v), true
}

func floatToInt(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	t := math.Trunc(v)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, false
	}
	return int(t), true
}

// =============================================================================
// TEXT FIELDS
// =============================================================================

// ValidateName returns the trimmed name, rejecting empty values and values
// containing digits.
func ValidateName(raw any) (string, error) {
	return validateText(raw, ErrInvalidName, types.FieldName,
		"Name must be non-empty and contain no numbers")
}

// ValidateLocation applies the same rule as ValidateName.
func ValidateLocation(raw any) (string, error) {
	return validateText(raw, ErrInvalidLocation, types.FieldLocation,
		"Location must be non-empty and contain no numbers")
}

func validateText(raw any, kind error, field, message string) (string, error) {
	text := strings.TrimSpace(asText(raw))
	if text == "" || digitPattern.MatchString(text) {
		return "", newFieldError(kind, field, raw, message)
	}
	return text, nil
}

// ValidateEmail returns the trimmed address when it matches the email grammar.
func ValidateEmail(raw any) (string, error) {
	email := strings.TrimSpace(asText(raw))
	if !emailPattern.MatchString(email) {
		return "", newFieldError(ErrInvalidEmail, types.FieldEmail, raw, "Email must have a valid format")
	}
	return email, nil
}

// =============================================================================
// BILLING
// =============================================================================

// ValidateBilling checks the decimal text form of raw and returns its value.
//
// Numbers are first rendered the way FormatDecimal prints them, so 100.0
// passes as "100.0" while 100.123, -50.0 and 1e20 are rejected.
func ValidateBilling(raw any) (float64, error) {
	text := billingText(raw)
	if !billingPattern.MatchString(text) {
		return 0, newFieldError(ErrInvalidBilling, types.FieldBilling, raw,
			"Billing must be a valid positive number with up to 2 decimal places")
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, newFieldError(ErrInvalidBilling, types.FieldBilling, raw,
			"Billing must be a valid positive number with up to 2 decimal places")
	}
	return value, nil
}

func billingText(raw any) string {
	return strings.TrimSpace(asText(raw))
}

// FormatDecimal renders f in its natural decimal representation: the
// shortest digits that round-trip, always with a fractional part for
// integral values ("150.0"), and exponent notation for magnitudes below
// 1e-4 or from 1e16 upwards.
func FormatDecimal(f float64) string {
	return formatFloat(f, 64)
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// asText renders a raw cell as text; nil becomes the empty string.
func asText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	default:
		return fmt.Sprint(v)
	}
}
