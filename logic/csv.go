package logic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"elena/residency_alerts/model"
)

const (
	// CSVModeNaive splits every line on commas and deletes quote characters
	CSVModeNaive = "naive"
	// CSVModeQuoted honours quoted cells that contain commas or line breaks
	CSVModeQuoted = "quoted"
)

// ParseCSV splits the sheet export into rows.
//
// Blank lines are dropped, cells are trimmed and every double quote is
// deleted. A comma inside a quoted cell still splits the cell; use
// ParseQuotedCSV when the source can contain one.
func ParseCSV(text string) []model.Row {
	var rows []model.Row
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, ",")
		row := make(model.Row, len(cells))
		for i, cell := range cells {
			row[i] = strings.ReplaceAll(strings.TrimSpace(cell), `"`, "")
		}
		rows = append(rows, row)
	}

	return rows
}

// ParseQuotedCSV splits the sheet export into rows using a quote aware reader
func ParseQuotedCSV(text string) ([]model.Row, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows []model.Row
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		blank := true
		row := make(model.Row, len(record))
		for i, cell := range record {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseRows parses text with the given mode
func ParseRows(text, mode string) ([]model.Row, error) {
	switch mode {
	case "", CSVModeNaive:
		return ParseCSV(text), nil
	case CSVModeQuoted:
		return ParseQuotedCSV(text)
	}
	return nil, fmt.Errorf("unknown csv mode %q", mode)
}
