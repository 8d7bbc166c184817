// Package dateinput turns keystrokes in a date field into DD-MM-YYYY text.
//
// Both entry points are pure: they take the full field value after the
// keystroke and return the text the field should display.
package dateinput

import (
	"strconv"
	"strings"
)

// EditIntent tells the formatter whether the user is adding or removing text.
type EditIntent int

const (
	Typing EditIntent = iota
	Deleting
)

// maxDigits is DDMMYYYY.
const maxDigits = 8

// century pivot for two-digit years: 00-50 => 20xx, 51-99 => 19xx.
const yearPivot = 50

// IntentFromKey classifies the key that triggered the edit.
func IntentFromKey(key string) EditIntent {
	switch key {
	case "Backspace", "Delete":
		return Deleting
	default:
		return Typing
	}
}

func (i EditIntent) String() string {
	if i == Deleting {
		return "deleting"
	}
	return "typing"
}

// ExpandYear turns a two-digit year into a four-digit one.
func ExpandYear(yy int) int {
	if yy <= yearPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

// FormatDateInput reformats the current field value. Separators are
// re-inserted after the day and month groups; while typing a dash is also
// appended as soon as a group completes, and a two-digit year is expanded
// the moment the sixth digit lands.
func FormatDateInput(raw string, intent EditIntent) string {
	digits := onlyDigits(raw)
	if len(digits) > maxDigits {
		digits = digits[:maxDigits]
	}

	n := len(digits)
	if n == 0 {
		return ""
	}

	if intent == Typing && n == 6 {
		yy, _ := strconv.Atoi(digits[4:6])
		return digits[0:2] + "-" + digits[2:4] + "-" + strconv.Itoa(ExpandYear(yy))
	}

	var b strings.Builder
	b.WriteString(digits[:min(n, 2)])
	if n > 2 {
		b.WriteByte('-')
		b.WriteString(digits[2:min(n, 4)])
	}
	if n > 4 {
		b.WriteByte('-')
		b.WriteString(digits[4:])
	}
	if intent == Typing && (n == 2 || n == 4) {
		b.WriteByte('-')
	}
	return b.String()
}

// HandleDateBlur completes a date when the field loses focus. Text that
// does not have a day, month and year is returned unchanged.
func HandleDateBlur(text string) string {
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 || strings.Count(text, "-")+strings.Count(text, "/") != 2 {
		return text
	}

	day, month, year := parts[0], parts[1], parts[2]
	for _, p := range parts {
		if onlyDigits(p) != p {
			return text
		}
	}
	if len(day) > 2 || len(month) > 2 {
		return text
	}

	if len(year) == 2 {
		yy, _ := strconv.Atoi(year)
		year = strconv.Itoa(ExpandYear(yy))
	}
	if len(year) != 4 {
		return text
	}

	return pad2(day) + "-" + pad2(month) + "-" + year
}

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

func onlyDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
