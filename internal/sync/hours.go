// internal/sync/hours.go
package sync

import (
	"strconv"
	"strings"
)

// ParseHours converts a free-text hour value to a float. Schedule hours are
// entered by hand ("3", "3.5", "3,5h"); anything that does not parse counts
// as zero rather than erroring.
func ParseHours(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "h")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatHours renders an hour total without trailing zeros ("7", "3.5").
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
