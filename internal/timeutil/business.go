package timeutil

import (
	"time"
)

// Business is the shop's local timezone. Order-number month prefixes and
// receipt dates are derived from it so a late-night UTC rollover does not
// start a new month early.
var Business *time.Location

func init() {
	var err error
	Business, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: fixed EST if the tz database is unavailable
		Business = time.FixedZone("EST", -5*60*60)
	}
}

// Now returns the current time in the business timezone.
func Now() time.Time {
	return time.Now().In(Business)
}

// ToBusiness converts any time to the business timezone.
func ToBusiness(t time.Time) time.Time {
	return t.In(Business)
}

// Common layouts
const (
	DateLayout        = "2006-01-02"
	CompactDateLayout = "20060102"
	DisplayLayout     = "02 Jan 2006, 03:04 PM"
)
