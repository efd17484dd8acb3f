package command

import (
	"strconv"
	"strings"
)

// RepeatCount is a repeat value that may be absent, numeric or textual.
// The zero value is absent.
type RepeatCount struct {
	n     int
	valid bool
}

// RepeatFromInt wraps a numeric repeat count.
func RepeatFromInt(n int) RepeatCount {
	return RepeatCount{n: n, valid: true}
}

// RepeatFromText parses a textual repeat count using its leading integer, so
// "5" and "5x" both give 5 while "abc" is invalid.
func RepeatFromText(s string) RepeatCount {
	n, ok := ParseLeadingInt(s)
	return RepeatCount{n: n, valid: ok}
}

// Value returns the count and whether it is a usable number.
func (r RepeatCount) Value() (int, bool) {
	return r.n, r.valid
}

// ParseLeadingInt parses an optionally signed base-10 integer at the start of
// s after leading whitespace, ignoring anything that follows it.
//
// Returns:
//   - int: The parsed value
//   - bool: False if s does not start with digits, or the value overflows
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
