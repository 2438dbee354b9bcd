package hwlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
)

// UnitRowMode controls whether the parser expects a dedicated unit row
// directly below the header.
type UnitRowMode string

const (
	// UnitRowAuto detects a unit row heuristically: the row directly below
	// the header counts as a unit row when none of its non-empty cells
	// parse as numbers and its time cell does not look like a timestamp.
	UnitRowAuto UnitRowMode = "auto"

	// UnitRowPresent forces the second row to be treated as units.
	UnitRowPresent UnitRowMode = "present"

	// UnitRowAbsent disables unit-row handling entirely.
	UnitRowAbsent UnitRowMode = "absent"
)

// Default parser settings. Hardware-monitoring tools on Windows typically
// export comma-separated latin-1 text.
const (
	DefaultDelimiter = ','
	DefaultEncoding  = "latin-1"
)

// Time column names recognized when Options.TimeColumn is empty.
var (
	timeColumnCandidates = []string{"time", "timestamp", "datetime"}
	dateColumnName       = "date"
)

// Options configures a parse.
type Options struct {
	// Delimiter is the field separator. Zero means DefaultDelimiter.
	Delimiter rune

	// Encoding is the input text encoding by IANA/HTML name
	// (e.g. "latin-1", "windows-1252", "utf-8"). Empty means DefaultEncoding.
	Encoding string

	// TimeColumn names the timestamp column. Empty means auto-detect
	// (Time/Timestamp/Datetime, combined with an adjacent Date column
	// when one exists).
	TimeColumn string

	// UnitRow controls dedicated-unit-row handling. Empty means UnitRowAuto.
	UnitRow UnitRowMode
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Delimiter == 0 {
		out.Delimiter = DefaultDelimiter
	}
	if out.Encoding == "" {
		out.Encoding = DefaultEncoding
	}
	if out.UnitRow == "" {
		out.UnitRow = UnitRowAuto
	}
	return out
}

// Result is the output of one parse: the store plus accumulated warnings.
type Result struct {
	Store    *Store
	Warnings Warnings
}

// ParseFile opens, decodes, and parses a log file.
// The file handle is closed on every exit path.
func ParseFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	return Parse(ctx, f, opts)
}

// Parse reads delimited log text and produces a columnar store.
// Structural problems (duplicate channel names, field-count mismatches,
// no usable timestamp column) are fatal FormatErrors; bad cells and
// out-of-order timestamps are accumulated as warnings.
func Parse(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	records, err := readRecords(ctx, decoded, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &FormatError{Msg: "empty input: no header row"}
	}

	records = dropTrailingEmptyColumn(records)
	records = dropFooterRows(records)

	header := records[0]
	if err := checkDuplicateNames(header); err != nil {
		return nil, err
	}

	timeIdx, dateIdx, err := locateTimeColumns(header, opts.TimeColumn)
	if err != nil {
		return nil, err
	}

	data := records[1:]
	firstDataRow := 2 // 1-based physical row of the first data record

	// Field counts must match the header exactly, and must be checked
	// before anything indexes into a row: a short row would panic the
	// unit-row heuristic, and a mismatched row would silently shift every
	// later column. This also rejects a forced unit row of the wrong width.
	for i, row := range data {
		if len(row) != len(header) {
			return nil, &FormatError{
				Row: firstDataRow + i,
				Msg: fmt.Sprintf("has %d fields, header has %d", len(row), len(header)),
			}
		}
	}

	var unitRow []string
	if len(data) > 0 && hasUnitRow(data[0], timeIdx, dateIdx, opts.UnitRow) {
		unitRow = data[0]
		data = data[1:]
		firstDataRow++
	}

	channels := buildCatalog(header, unitRow, timeIdx, dateIdx)

	result := &Result{}
	store := &Store{
		Channels:   channels,
		Times:      make([]time.Time, 0, len(data)),
		TimeLabels: make([]string, 0, len(data)),
		values:     make([][]float64, len(channels)),
	}
	for i := range store.values {
		store.values[i] = make([]float64, 0, len(data))
	}

	layout, err := detectLayout(data, timeIdx, dateIdx)
	if err != nil {
		return nil, &FormatError{Column: header[timeIdx], Msg: err.Error()}
	}

	decimalComma := opts.Delimiter == ';'
	var prev time.Time
	havePrev := false

	for i, row := range data {
		rowNum := firstDataRow + i

		raw, label := timeCell(row, timeIdx, dateIdx)
		ts, terr := time.Parse(layout.Layout, raw)
		if terr != nil {
			result.Warnings.Cells = append(result.Warnings.Cells, CellWarning{
				Row:     rowNum,
				Channel: header[timeIdx],
				Cell:    raw,
			})
		} else {
			if havePrev && ts.Before(prev) {
				result.Warnings.Ordering = append(result.Warnings.Ordering, OrderWarning{
					Row:       rowNum,
					Timestamp: ts,
					Previous:  prev,
				})
			}
			prev = ts
			havePrev = true
		}
		store.Times = append(store.Times, ts)
		store.TimeLabels = append(store.TimeLabels, label)

		for c := range channels {
			cell := row[channels[c].sourceColumn]
			v, ok, empty := parseCell(cell, decimalComma)
			if !ok && !empty {
				result.Warnings.Cells = append(result.Warnings.Cells, CellWarning{
					Row:     rowNum,
					Channel: channels[c].Name,
					Cell:    cell,
				})
			}
			if !ok {
				v = Missing
			}
			store.values[c] = append(store.values[c], v)
		}
	}

	result.Store = store
	return result, nil
}

// decodeReader wraps r with a charset decoder for the named encoding.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	switch norm {
	case "utf-8", "utf8":
		return r, nil
	case "latin-1", "latin1":
		norm = "iso-8859-1"
	}

	enc, err := htmlindex.Get(norm)
	if err != nil {
		return nil, &FormatError{Msg: fmt.Sprintf("unknown encoding %q", name)}
	}
	return enc.NewDecoder().Reader(r), nil
}

// readRecords reads all delimited records, tolerating variable field counts
// so that footer junk can be trimmed before structural validation.
func readRecords(ctx context.Context, r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	for {
		if len(records)%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("unreadable input: %v", err)}
		}
		records = append(records, rec)
	}

	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

// dropTrailingEmptyColumn removes the empty last column some tools write
// by terminating every row with the delimiter.
func dropTrailingEmptyColumn(records [][]string) [][]string {
	if len(records) == 0 {
		return records
	}
	header := records[0]
	if len(header) == 0 || strings.TrimSpace(header[len(header)-1]) != "" {
		return records
	}

	width := len(header) - 1
	for i, rec := range records {
		if len(rec) == width+1 && strings.TrimSpace(rec[len(rec)-1]) == "" {
			records[i] = rec[:width]
		}
	}
	return records
}

// dropFooterRows removes trailing rows that repeat the header and trailing
// fully-empty rows. HWiNFO re-writes the header at the end of the log.
func dropFooterRows(records [][]string) [][]string {
	if len(records) < 2 {
		return records
	}
	header := records[0]

	for len(records) > 1 {
		last := records[len(records)-1]
		if rowIsEmpty(last) || rowsEqual(last, header) {
			records = records[:len(records)-1]
			continue
		}
		break
	}
	return records
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func rowsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func checkDuplicateNames(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return &FormatError{Row: 1, Column: name, Msg: "duplicate channel name"}
		}
		seen[name] = true
	}
	return nil
}

// locateTimeColumns finds the timestamp column and, when auto-detecting,
// an adjacent Date column to combine with it. dateIdx is -1 when absent.
func locateTimeColumns(header []string, explicit string) (timeIdx, dateIdx int, err error) {
	dateIdx = -1

	if explicit != "" {
		for i, name := range header {
			if strings.EqualFold(name, explicit) {
				return i, -1, nil
			}
		}
		return 0, -1, &FormatError{Column: explicit, Msg: "timestamp column not found"}
	}

	timeIdx = -1
	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		if timeIdx < 0 {
			for _, cand := range timeColumnCandidates {
				if lower == cand {
					timeIdx = i
					break
				}
			}
		}
		if dateIdx < 0 && lower == dateColumnName {
			dateIdx = i
		}
	}

	if timeIdx < 0 && dateIdx >= 0 {
		// Date column alone carries the timestamps.
		return dateIdx, -1, nil
	}
	if timeIdx < 0 {
		return 0, -1, &FormatError{Msg: "no timestamp column found (looked for Time, Timestamp, Datetime, Date)"}
	}
	return timeIdx, dateIdx, nil
}

// hasUnitRow decides whether row is a dedicated unit row.
func hasUnitRow(row []string, timeIdx, dateIdx int, mode UnitRowMode) bool {
	switch mode {
	case UnitRowPresent:
		return true
	case UnitRowAbsent:
		return false
	}

	nonEmpty := 0
	for i, cell := range row {
		if i == timeIdx || i == dateIdx {
			continue
		}
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, ok, _ := parseCell(cell, false); ok {
			return false
		}
	}
	if nonEmpty == 0 {
		return false
	}

	// A timestamp in the time cell means this is a data row whose channels
	// all happen to be non-numeric.
	cell := strings.TrimSpace(row[timeIdx])
	for _, l := range DefaultTimeLayouts() {
		if l.Pattern.MatchString(cell) {
			return false
		}
	}
	return true
}

// buildCatalog creates the channel catalog in header order, excluding the
// time and date columns.
func buildCatalog(header, unitRow []string, timeIdx, dateIdx int) []Channel {
	channels := make([]Channel, 0, len(header))
	for i, name := range header {
		if i == timeIdx || i == dateIdx {
			continue
		}

		unit := unitFromName(name)
		if unitRow != nil {
			if u := strings.Trim(strings.TrimSpace(unitRow[i]), "[]"); u != "" {
				unit = u
			}
		}

		channels = append(channels, Channel{
			Name:         name,
			Unit:         unit,
			Index:        len(channels),
			sourceColumn: i,
		})
	}

	return channels
}

// timeCell assembles the raw timestamp string for a row. With a separate
// Date column the two cells are joined with a space; the axis label stays
// the time-of-day cell alone.
func timeCell(row []string, timeIdx, dateIdx int) (raw, label string) {
	t := strings.TrimSpace(row[timeIdx])
	if dateIdx < 0 {
		return t, t
	}
	d := strings.TrimSpace(row[dateIdx])
	if d == "" {
		return t, t
	}
	return d + " " + t, t
}

// detectLayout samples up to 100 rows' time cells and picks the best layout.
func detectLayout(data [][]string, timeIdx, dateIdx int) (*TimeLayout, error) {
	samples := make([]string, 0, 100)
	for _, row := range data {
		if len(samples) == cap(samples) {
			break
		}
		raw, _ := timeCell(row, timeIdx, dateIdx)
		if raw != "" {
			samples = append(samples, raw)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("time column is empty")
	}
	return detectTimeLayout(samples)
}

// parseCell converts one cell to a float64 value.
// ok is false when the cell does not represent a number; empty reports
// whether the cell was blank (absent values are missing without a warning).
// Boolean sensor states (Yes/No) map to 1/0 so that flags like thermal
// throttling plot as step lines.
func parseCell(cell string, decimalComma bool) (v float64, ok, empty bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false, true
	}

	switch strings.ToLower(cell) {
	case "yes", "true", "on":
		return 1, true, false
	case "no", "false", "off":
		return 0, true, false
	}

	if decimalComma && !strings.Contains(cell, ".") {
		cell = strings.Replace(cell, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, false
	}
	return f, true, false
}
