package export

import (
	"errors"
	"strings"
)

// ErrNoColumns is returned when a table has nothing to render.
var ErrNoColumns = errors.New("export table has no columns")

// Column describes one output column. Weight sizes the column relative to its siblings in PDF output.
type Column struct {
	Key    string
	Label  string
	Weight float64
}

// Table is the tabular content shared by every renderer.
type Table struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     []map[string]string
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	return nil
}

func (t Table) labels() []string {
	labels := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		label := col.Label
		if label == "" {
			label = col.Key
		}
		labels[i] = label
	}
	return labels
}

func (t Table) record(row map[string]string) []string {
	record := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		record[i] = strings.TrimSpace(row[col.Key])
	}
	return record
}
