package race

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML reads a timing export published as an HTML results page. The
// first table in the page is the results table; its header row must carry
// the same columns as the CSV export.
func ParseHTML(r io.Reader) ([]RaceRecord, error) {
	z := html.NewTokenizer(r)
	var (
		inTable bool
		inRow   bool
		inCell  bool
		header  []string
		idx     columnIndex
		cells   []string
		cellBuf strings.Builder
		records []RaceRecord
		row     int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			if header == nil {
				return nil, fmt.Errorf("%w: no results table found", ErrMalformedInput)
			}
			return records, nil
		case html.StartTagToken:
			t := z.Token()
			switch t.Data {
			case "table":
				if header == nil {
					inTable = true
				}
			case "tr":
				if inTable {
					inRow = true
					cells = cells[:0]
				}
			case "td", "th":
				if inRow {
					inCell = true
					cellBuf.Reset()
				}
			}
		case html.TextToken:
			if inCell {
				cellBuf.Write(z.Text())
			}
		case html.EndTagToken:
			t := z.Token()
			switch t.Data {
			case "td", "th":
				if inCell {
					cells = append(cells, strings.TrimSpace(cellBuf.String()))
					inCell = false
				}
			case "tr":
				if !inRow {
					continue
				}
				inRow = false
				if len(cells) == 0 {
					continue
				}
				row++
				if header == nil {
					header = append([]string(nil), cells...)
					var err error
					idx, err = resolveColumns(header)
					if err != nil {
						return nil, err
					}
					continue
				}
				if len(cells) != len(header) {
					return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrMalformedInput, row, len(cells), len(header))
				}
				rec, err := parseRow(cells, idx)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", row, err)
				}
				records = append(records, rec)
			case "table":
				if inTable && header != nil {
					return records, nil
				}
				inTable = false
			}
		}
	}
}
