// Package hwlog parses hardware-monitoring log exports (delimited text,
// one timestamped sample per row, one sensor channel per column) into a
// columnar channel store.
package hwlog

import (
	"math"
	"regexp"
	"strings"
)

// Missing is the explicit marker for a sample that could not be parsed
// or was absent. It is distinct from zero.
var Missing = math.NaN()

// IsMissing reports whether a value is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Channel describes one sensor column of the log.
type Channel struct {
	// Name is the exact header cell text, including any unit bracket.
	// It is the channel's identity.
	Name string

	// Unit is the declared unit string, extracted from a trailing
	// "[...]" bracket in the header cell or from a dedicated unit row.
	// May be empty if no unit was declared.
	Unit string

	// Index is the 0-based position among channels, in header order.
	// The timestamp column is not a channel and has no index.
	Index int

	// sourceColumn is the channel's column position in the raw file,
	// including the time/date columns.
	sourceColumn int
}

// unitBracket captures a trailing "[unit]" suffix in a header cell.
var unitBracket = regexp.MustCompile(`\[([^\[\]]+)\]\s*$`)

// unitFromName extracts the declared unit from a header cell, if present.
func unitFromName(name string) string {
	m := unitBracket.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
