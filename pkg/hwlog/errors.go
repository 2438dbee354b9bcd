package hwlog

import (
	"fmt"
	"time"
)

// FormatError indicates the log file violates the expected structure.
// It is fatal: no partial store is produced.
type FormatError struct {
	// Row is the 1-based physical row number in the file, 0 if the error
	// is not specific to a row.
	Row int

	// Column is the offending column name, if known.
	Column string

	// Msg describes the problem.
	Msg string
}

func (e *FormatError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("row %d, column %q: %s", e.Row, e.Column, e.Msg)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %s", e.Row, e.Msg)
	case e.Column != "":
		return fmt.Sprintf("column %q: %s", e.Column, e.Msg)
	default:
		return e.Msg
	}
}

// CellWarning records a single cell that could not be parsed as a number.
// The cell is stored as a missing value and parsing continues.
type CellWarning struct {
	// Row is the 1-based physical row number of the offending cell.
	Row int

	// Channel is the name of the channel the cell belongs to.
	Channel string

	// Cell is the raw cell content.
	Cell string
}

// OrderWarning records a timestamp that went backward relative to the
// previous row. The row is kept as read; rows are never re-sorted.
type OrderWarning struct {
	// Row is the 1-based physical row number of the out-of-order sample.
	Row int

	// Timestamp is the parsed timestamp of the row.
	Timestamp time.Time

	// Previous is the timestamp of the preceding row.
	Previous time.Time
}

// Warnings accumulates recoverable conditions encountered during a parse.
type Warnings struct {
	// Cells lists cells that failed numeric parsing.
	Cells []CellWarning

	// Ordering lists non-monotonic timestamps.
	Ordering []OrderWarning
}

// Empty reports whether no warnings were recorded.
func (w *Warnings) Empty() bool {
	return len(w.Cells) == 0 && len(w.Ordering) == 0
}

// AffectedChannels returns the number of distinct channels with at least
// one unparseable cell.
func (w *Warnings) AffectedChannels() int {
	seen := make(map[string]bool)
	for _, c := range w.Cells {
		seen[c.Channel] = true
	}
	return len(seen)
}

// Summary returns a one-line description suitable for an operator log,
// or "" if there is nothing to report.
func (w *Warnings) Summary() string {
	if w.Empty() {
		return ""
	}

	var parts []string
	if len(w.Cells) > 0 {
		parts = append(parts, fmt.Sprintf("%d cell(s) unparseable across %d channel(s)",
			len(w.Cells), w.AffectedChannels()))
	}
	if len(w.Ordering) > 0 {
		parts = append(parts, fmt.Sprintf("%d timestamp(s) out of order", len(w.Ordering)))
	}

	s := parts[0]
	for _, p := range parts[1:] {
		s += ", " + p
	}
	return s
}
