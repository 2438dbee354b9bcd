package hwlog

import (
	"fmt"
	"regexp"
	"time"
)

// TimeLayout is a known timestamp layout for the log's time column.
type TimeLayout struct {
	// Name is a human-readable name for the layout.
	Name string

	// Pattern matches the whole timestamp cell (set during init).
	Pattern *regexp.Regexp

	// PatternStr is the pattern source string.
	PatternStr string

	// Layout is the Go time layout for parsing.
	Layout string

	// Examples holds example timestamps.
	Examples []string
}

// DefaultTimeLayouts returns the built-in timestamp layouts to detect.
// Layouts are ordered by specificity (more specific patterns first).
// HWiNFO-style exports carry either a combined date+time cell or separate
// Date and Time columns that the parser joins with a space before parsing.
func DefaultTimeLayouts() []*TimeLayout {
	layouts := []*TimeLayout{
		{
			Name:       "ISO 8601 date and time",
			PatternStr: `^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}$`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"2024-01-15 10:30:00"},
		},
		{
			Name:       "ISO 8601 date and time with milliseconds",
			PatternStr: `^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}\.\d{1,3}$`,
			Layout:     "2006-01-02 15:04:05.000",
			Examples:   []string{"2024-01-15 10:30:00.123"},
		},
		{
			Name:       "dotted day-first date and time",
			PatternStr: `^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`,
			Layout:     "2.1.2006 15:04:05",
			Examples:   []string{"15.1.2024 10:30:00", "01.02.2024 09:00:00"},
		},
		{
			Name:       "dotted day-first date and time with milliseconds",
			PatternStr: `^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}\.\d{1,3}$`,
			Layout:     "2.1.2006 15:04:05.000",
			Examples:   []string{"15.1.2024 10:30:00.123"},
		},
		{
			Name:       "slashed date and time",
			PatternStr: `^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}$`,
			Layout:     "2/1/2006 15:04:05",
			Examples:   []string{"15/1/2024 10:30:00"},
		},
		{
			Name:       "time of day with milliseconds",
			PatternStr: `^\d{1,2}:\d{2}:\d{2}\.\d{1,3}$`,
			Layout:     "15:04:05.000",
			Examples:   []string{"10:30:00.123"},
		},
		{
			Name:       "time of day",
			PatternStr: `^\d{1,2}:\d{2}:\d{2}$`,
			Layout:     "15:04:05",
			Examples:   []string{"10:30:00"},
		},
	}

	for _, l := range layouts {
		l.Pattern = regexp.MustCompile(l.PatternStr)
	}
	return layouts
}

// detectTimeLayout picks the layout matching the most sample cells.
// Ties go to the earlier (more specific) layout. Returns an error when no
// layout matches any sample.
func detectTimeLayout(samples []string) (*TimeLayout, error) {
	layouts := DefaultTimeLayouts()

	best := -1
	bestCount := 0
	for i, l := range layouts {
		count := 0
		for _, s := range samples {
			if !l.Pattern.MatchString(s) {
				continue
			}
			if _, err := time.Parse(l.Layout, s); err == nil {
				count++
			}
		}
		if count > bestCount {
			best = i
			bestCount = count
		}
	}

	if best < 0 {
		return nil, fmt.Errorf("no known timestamp layout matches the time column")
	}
	return layouts[best], nil
}
