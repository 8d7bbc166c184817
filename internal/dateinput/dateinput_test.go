package dateinput

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntentFromKey(t *testing.T) {
	tests := []struct {
		key      string
		expected EditIntent
	}{
		{"Backspace", Deleting},
		{"Delete", Deleting},
		{"1", Typing},
		{"-", Typing},
		{"", Typing},
		{"Tab", Typing},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntentFromKey(tt.key))
		})
	}
}

func TestExpandYear(t *testing.T) {
	assert.Equal(t, 2000, ExpandYear(0))
	assert.Equal(t, 2025, ExpandYear(25))
	assert.Equal(t, 2050, ExpandYear(50))
	assert.Equal(t, 1951, ExpandYear(51))
	assert.Equal(t, 1999, ExpandYear(99))
}

func TestFormatDateInput(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		intent   EditIntent
		expected string
	}{
		{"empty", "", Typing, ""},
		{"only separators", "--/", Typing, ""},
		{"letters discarded", "ab", Typing, ""},
		{"one digit", "0", Typing, "0"},
		{"day complete while typing", "07", Typing, "07-"},
		{"day complete while deleting", "07", Deleting, "07"},
		{"month started", "07-1", Typing, "07-1"},
		{"month complete while typing", "0711", Typing, "07-11-"},
		{"month complete while deleting", "0711", Deleting, "07-11"},
		{"dash removed when deleting back", "07-11-", Deleting, "07-11"},
		{"year started", "07-11-2", Typing, "07-11-2"},
		{"two digit year expanded", "071125", Typing, "07-11-2025"},
		{"year 50 goes to 2000s", "010150", Typing, "01-01-2050"},
		{"year 51 goes to 1900s", "010151", Typing, "01-01-1951"},
		{"two digit year kept while deleting", "07-11-20", Deleting, "07-11-20"},
		{"seven digits", "07-11-202", Deleting, "07-11-202"},
		{"eight digits", "07112025", Typing, "07-11-2025"},
		{"small four digit year not reinterpreted", "01010025", Typing, "01-01-0025"},
		{"truncated to eight digits", "07-11-20255", Typing, "07-11-2025"},
		{"mixed junk", "0a7/1b1", Typing, "07-11-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDateInput(tt.raw, tt.intent))
		})
	}
}

func TestFormatDateInput_FixedPoint(t *testing.T) {
	for _, s := range []string{"07-11-2025", "31-12-1999", "01-01-0001"} {
		assert.Equal(t, s, FormatDateInput(s, Typing))
		assert.Equal(t, s, FormatDateInput(s, Deleting))
	}
}

func TestFormatDateInput_PreservesDigits(t *testing.T) {
	digits := "12345678"
	for n := 0; n <= len(digits); n++ {
		in := digits[:n]
		out := FormatDateInput(in, Deleting)
		assert.Equal(t, in, strings.ReplaceAll(out, "-", ""), "input %q", in)

		// dashes only directly after a complete day or month group
		for i, c := range out {
			if c == '-' {
				assert.Contains(t, []int{2, 5}, i, "dash at %d in %q", i, out)
			}
		}
	}
}

func TestHandleDateBlur(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"already canonical", "07-11-2025", "07-11-2025"},
		{"pads day and month", "7-1-2025", "07-01-2025"},
		{"slashes accepted", "7/11/2025", "07-11-2025"},
		{"two digit year expanded", "7-11-25", "07-11-2025"},
		{"two digit year 1900s", "7-11-75", "07-11-1975"},
		{"missing year left alone", "07-11-", "07-11-"},
		{"too few parts", "07-11", "07-11"},
		{"empty middle segment", "07--2025", "07--2025"},
		{"three digit year", "07-11-202", "07-11-202"},
		{"non digits left alone", "aa-11-2025", "aa-11-2025"},
		{"long day left alone", "007-11-2025", "007-11-2025"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HandleDateBlur(tt.text))
		})
	}
}
