// Package formatting converts byte counts to and from human-readable sizes
// using base-1024 units.
package formatting

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "25MB", "10 mb", or "2048". A bare
// number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})

	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.ToUpper(strings.TrimSpace(s[split:]))
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}
	if unit == "" {
		return int64(value), nil
	}

	exp := slices.Index(units, unit)
	if exp < 0 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	for range exp {
		value *= 1024
	}
	return int64(value), nil
}
