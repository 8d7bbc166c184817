// Package lifecycle derives a document's status from its validity window and
// decides which historical record of a vehicle should offer a renewal.
//
// Status is never stored. Callers sample "now" once per evaluation and pass
// it in; the package never reads the clock.
package lifecycle

import (
	"strconv"
	"strings"
	"time"
)

// Status of a document relative to an evaluation instant.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	StatusUnknown      Status = "unknown"
)

// ParseDate reads DD-MM-YYYY or DD/MM/YYYY (day and month may be a single
// digit), and also YYYY-MM-DD as stored by older imports. The result is
// local midnight of that calendar day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, month, year := parts[0], parts[1], parts[2]
	if len(day) == 4 {
		year, day = day, year
	}
	if len(year) != 4 || len(day) > 2 || len(month) > 2 || !digits(day+month+year) {
		return time.Time{}, false
	}

	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	// reject 31-02-2024 and friends instead of rolling over
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// DaysUntilExpiry is the number of calendar days from now until validTo;
// negative once validTo has passed. Since validTo is a midnight this equals
// ceil((validTo - now) / 24h) for any time of day on now.
func DaysUntilExpiry(validTo string, now time.Time) (int, bool) {
	expiry, ok := ParseDate(validTo)
	if !ok {
		return 0, false
	}
	return daysBetween(now, expiry), true
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func daysBetween(from, to time.Time) int {
	from = from.In(time.Local)
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ClassifyStatus places validTo relative to now. A validTo that does not
// parse is StatusUnknown.
func ClassifyStatus(validTo string, now time.Time, expiringSoonDays int) Status {
	days, ok := DaysUntilExpiry(validTo, now)
	if !ok {
		return StatusUnknown
	}
	return statusFor(days, expiringSoonDays)
}

func statusFor(days, expiringSoonDays int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= expiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}
