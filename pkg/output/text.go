package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "logviz: %d channels, %d rows, %d groups\n",
		report.Summary.Channels,
		report.Summary.Rows,
		report.Summary.Groups)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "=== %s ===\n", report.Metadata.Source)
	fmt.Fprintf(w, "%d channels, %d rows\n\n", report.Summary.Channels, report.Summary.Rows)

	for _, g := range report.Groups {
		if g.Unit != "" {
			fmt.Fprintf(w, "[%s] (%s)\n", g.Name, g.Unit)
		} else {
			fmt.Fprintf(w, "[%s]\n", g.Name)
		}
		for _, ch := range g.Channels {
			fmt.Fprintf(w, "  %s\n", ch)
		}
		fmt.Fprintln(w)
	}

	if f.opts.Verbose {
		fmt.Fprintln(w, "--- channels ---")
		for _, ch := range report.Channels {
			unit := ch.Unit
			if unit == "" {
				unit = "-"
			}
			fmt.Fprintf(w, "  %-50s %-8s %s\n", ch.Name, unit, strings.Join(ch.Groups, ", "))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	if report.HasWarnings() {
		fmt.Fprintf(w, "Warnings: %d bad cell(s) across %d channel(s), %d timestamp(s) out of order\n",
			report.Warnings.BadCells,
			report.Warnings.AffectedChannels,
			report.Warnings.OutOfOrder)
	} else {
		fmt.Fprintln(w, "No warnings")
	}

	return nil
}
