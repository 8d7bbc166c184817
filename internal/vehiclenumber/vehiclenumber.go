// Package vehiclenumber masks, validates and decomposes registration
// numbers of the form SS DD LL NNNN (state, district, series, sequence).
//
// Nothing here returns an error: invalid input is reported through the
// returned values only.
package vehiclenumber

import (
	"regexp"
	"strings"
	"unicode"
)

// Length of a complete registration number.
const Length = 10

// FormatHint is shown once a full-length value fails validation.
const FormatHint = "Invalid vehicle number format. Expected format: XX00XX0000 (e.g. CG04AB1234)"

var (
	fullPattern   = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{1,2}[0-9]{4}$`)
	doubleLetters = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{2}[0-9]{4}$`)
)

// Validation is the outcome of Validate.
type Validation struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

// Parts is a validated registration number broken into its segments.
type Parts struct {
	StateCode    string `json:"state_code"`
	StateName    string `json:"state_name"`
	DistrictCode string `json:"district_code"`
	RTOCode      string `json:"rto_code"`
	Series       string `json:"series"`
	Last4Digits  string `json:"last_4_digits"`
	FullNumber   string `json:"full_number"`
}

// Clean trims, drops inner whitespace and upper-cases value.
func Clean(value string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value))
}

// EnforceFormat filters a keystroke. candidate is the field value after the
// keystroke; if any character sits where its class is not allowed the
// previous value is kept.
func EnforceFormat(previous, candidate string) string {
	next := Clean(candidate)
	if len(next) > Length {
		next = next[:Length]
	}
	if !acceptablePrefix(next) {
		return previous
	}
	return next
}

// acceptablePrefix reports whether s can be read as the start of either
// layout: 2 letters, 2 digits, 1 or 2 letters, 4 digits.
func acceptablePrefix(s string) bool {
	seriesLen := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case i < 2:
			if !isLetter(c) {
				return false
			}
		case i < 4:
			if !isDigit(c) {
				return false
			}
		case i == 4:
			if !isLetter(c) {
				return false
			}
			seriesLen = 1
		case i == 5 && isLetter(c):
			seriesLen = 2
		default:
			if !isDigit(c) || i >= 4+seriesLen+4 {
				return false
			}
		}
	}
	return true
}

// Validate checks a complete value. Shorter values that could still grow
// into a valid number produce no message, so nothing is flagged mid-typing.
func Validate(value string) Validation {
	cleaned := Clean(value)
	if len(cleaned) < Length {
		if completable(cleaned) {
			return Validation{}
		}
		return Validation{Message: FormatHint}
	}
	if len(cleaned) == Length && fullPattern.MatchString(cleaned) {
		return Validation{IsValid: true}
	}
	return Validation{Message: FormatHint}
}

// completable reports whether s is a prefix of some full-length number.
func completable(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i < 2 || (i >= 4 && i < 6) {
			if !isLetter(c) {
				return false
			}
		} else if !isDigit(c) {
			return false
		}
	}
	return true
}

// Parse decomposes value, or returns nil when it does not validate.
func Parse(value string) *Parts {
	cleaned := Clean(value)
	if !Validate(cleaned).IsValid {
		return nil
	}

	n := len(cleaned)
	p := &Parts{
		StateCode:    cleaned[0:2],
		DistrictCode: cleaned[2:4],
		Last4Digits:  cleaned[n-4:],
		FullNumber:   cleaned,
	}
	if doubleLetters.MatchString(cleaned) {
		p.Series = cleaned[4:6]
	} else {
		p.Series = cleaned[4:5]
	}
	p.StateName = StateName(p.StateCode)
	p.RTOCode = p.StateCode + p.DistrictCode
	return p
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
