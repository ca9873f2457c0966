// Package ordernum implements the business-facing order identifier
// V-{monthLetter}{YY}####, e.g. V-C250005 for the fifth order of March 2025.
// The month letter runs A (January) through L (December) and the numeric
// suffix is monotonically increasing within its month/year prefix.
package ordernum

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"engrave-backend/internal/timeutil"
)

// Pattern matches an order number embedded anywhere in free text, such as a
// Square payment note ("V-A260001 - John Smith"). Case-insensitive because
// note fields are typed by humans.
var Pattern = regexp.MustCompile(`(?i)V-[A-Z]\d{6}`)

// Prefix returns the month/year prefix for t, e.g. "V-C25" for March 2025.
func Prefix(t time.Time) string {
	local := timeutil.ToBusiness(t)
	letter := rune('A' + int(local.Month()) - 1)
	return fmt.Sprintf("V-%c%02d", letter, local.Year()%100)
}

// Format builds a full order number from a prefix and sequence value.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// Extract finds the first order number embedded in free text, normalized to
// upper case. Returns "" if none is present.
func Extract(text string) string {
	match := Pattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.ToUpper(match)
}
