// =============================================================================
// Client Data Masker - Masking Functions
// =============================================================================
//
// Masking is irreversible and shape-preserving: letters are replaced by a
// fixed character while spacing, punctuation, digits and the public suffix of
// an email domain stay readable.
//
// EXAMPLES:
//   "  Mary   Jane  "        -> "XXXX XXXX"
//   "O'Connor"               -> "X'XXXXXX"
//   "john.doe+tag@mail.com"  -> "XXXX.XXX+XXX@XXXX.com"
//   "user@mail.co.uk"        -> "XXXX@XXXX.co.uk"
//
// =============================================================================

package masking

import (
	"regexp"
	"strings"
)

// MaskChar replaces every ASCII letter.
const MaskChar = "X"

// letterPattern matches a single ASCII letter.
var letterPattern = regexp.MustCompile(`[a-zA-Z]`)

// MaskLettersClean replaces every ASCII letter with MaskChar, collapses runs
// of whitespace to a single space and trims the result.
//
// The function is idempotent: masking an already masked value returns it
// unchanged.
func MaskLettersClean(text string) string {
	masked := maskLetters(text)
	return strings.Join(strings.Fields(masked), " ")
}

// MaskEmail masks the local part and the first domain label of an address
// and keeps every later domain label as is.
//
// The address is expected to have passed email validation. A value without
// "@" is letter-masked as a whole so that nothing is leaked.
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return maskLetters(email)
	}

	labels := strings.Split(domain, ".")
	labels[0] = maskLetters(labels[0])

	return maskLetters(local) + "@" + strings.Join(labels, ".")
}

func maskLetters(s string) string {
	return letterPattern.ReplaceAllLiteralString(s, MaskChar)
}
