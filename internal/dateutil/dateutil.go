// Package dateutil provides the canonical calendar-day representation used
// as the universal day key across persistence, providers, and reports.
//
// A canonical date is the string "YYYY-MM-DD" describing a UTC calendar day.
// All date arithmetic happens in UTC; local timezones never enter the system.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the canonical date layout (zero-padded, UTC).
const Layout = "2006-01-02"

// Canonical projects an instant onto its UTC calendar day.
func Canonical(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Previous returns the canonical date exactly one calendar day before d.
// It is exact across month and year boundaries, including leap years.
func Previous(d string) (string, error) {
	t, err := time.ParseInLocation(Layout, d, time.UTC)
	if err != nil {
		return "", fmt.Errorf("parse canonical date %q: %w", d, err)
	}
	return t.AddDate(0, 0, -1).Format(Layout), nil
}
