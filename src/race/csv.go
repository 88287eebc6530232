package race

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFileType reports an input whose extension is neither a
	// CSV nor an HTML results export.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrMalformedInput reports a structural failure: missing required
	// columns, undecodable content, or a row that does not match the header.
	ErrMalformedInput = errors.New("malformed input")
)

// Column headers are fixed by contract with the timing-export producer; the
// parser matches them exactly and never infers a schema.
const (
	colFirstName = "Athlete First Name"
	colLastName  = "Athlete Last Name"
	colPosition  = "Position"
	colTotalTime = "Total Time"
)

// timeColumnNames lists the six time columns in the order they land in
// columnIndex.times: the five legs followed by the export's total.
var timeColumnNames = [SegmentCount + 1]string{"Swim", "T1", "Bike", "T2", "Run", colTotalTime}

type columnIndex struct {
	first    int
	last     int
	position int
	times    [SegmentCount + 1]int
}

// resolveColumns maps the header row to cell positions, failing when any
// required column is missing.
func resolveColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimSpace(h)] = i
	}
	idx := columnIndex{}
	lookup := func(name string) (int, error) {
		i, ok := byName[name]
		if !ok {
			return 0, fmt.Errorf("%w: missing column %q", ErrMalformedInput, name)
		}
		return i, nil
	}
	var err error
	if idx.first, err = lookup(colFirstName); err != nil {
		return idx, err
	}
	if idx.last, err = lookup(colLastName); err != nil {
		return idx, err
	}
	if idx.position, err = lookup(colPosition); err != nil {
		return idx, err
	}
	for i, name := range timeColumnNames {
		if idx.times[i], err = lookup(name); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// parseRow converts one data row into a RaceRecord, deriving cumulative
// splits in the same pass.
func parseRow(cells []string, idx columnIndex) (RaceRecord, error) {
	rec := RaceRecord{
		FirstName: strings.TrimSpace(cells[idx.first]),
		LastName:  strings.TrimSpace(cells[idx.last]),
	}
	if pos := strings.TrimSpace(cells[idx.position]); pos != "" {
		n, err := strconv.Atoi(pos)
		if err != nil || n < 0 {
			return rec, fmt.Errorf("%w: position %q", ErrMalformedInput, pos)
		}
		rec.Position = n
	}
	for i := 0; i < SegmentCount; i++ {
		s, err := ParseDuration(cells[idx.times[i]])
		if err != nil {
			return rec, fmt.Errorf("%s: %w", timeColumnNames[i], err)
		}
		rec.Splits[i] = s
	}
	total, err := ParseDuration(cells[idx.times[SegmentCount]])
	if err != nil {
		return rec, fmt.Errorf("%s: %w", colTotalTime, err)
	}
	rec.Total = total
	rec.Cum = BuildCumulative(rec.Splits)
	return rec, nil
}

// ParseCSV reads a timing export. The header row fixes the column layout;
// any malformed row rejects the whole file, matching the upstream timing
// software's all-or-nothing export semantics.
func ParseCSV(r io.Reader) ([]RaceRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	idx, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}
	var records []RaceRecord
	row := 1
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, row, err)
		}
		rec, err := parseRow(cells, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Parse dispatches on the extension of name, so URL paths and local files
// share one entry point.
func Parse(r io.Reader, name string) ([]RaceRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(r)
	case ".htm", ".html":
		return ParseHTML(r)
	default:
		return nil, fmt.Errorf("%w: %q (expected .csv or .html)", ErrUnsupportedFileType, filepath.Ext(name))
	}
}

// Load reads a timing export from disk.
func Load(path string) ([]RaceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}
