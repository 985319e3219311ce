package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVRenderer writes a Table as RFC 4180 CSV with a header line of column labels. Cells that a
// spreadsheet would evaluate as a formula are prefixed with a single quote.
type CSVRenderer struct{}

// NewCSVRenderer builds a CSV renderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// ContentType of the rendered document.
func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

// Extension of the rendered document.
func (r *CSVRenderer) Extension() string { return "csv" }

// Render encodes the table.
func (r *CSVRenderer) Render(table Table) ([]byte, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(table.labels()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		record := table.record(row)
		for i, cell := range record {
			record[i] = neutralizeFormula(cell)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// neutralizeFormula keeps spreadsheets from evaluating a cell. Signed numbers are left alone.
func neutralizeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '+', '-':
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			return cell
		}
		return "'" + cell
	case '=', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}
