package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoadCSV reads a CSV event table. The first record is the header. Empty
// cells are null; all other cells are text.
func LoadCSV(name string, r io.Reader) (*Memory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read csv %s: missing header row", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", name, err)
	}

	columns := normalizeHeader(header)

	var rows [][]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", name, err)
		}
		rows = append(rows, textCells(record, len(columns)))
	}

	return NewMemory(name, columns, rows), nil
}

// normalizeHeader trims header names and drops a UTF-8 byte order mark.
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}
	return columns
}

// textCells converts raw text fields to cells, mapping empty fields to null.
// Fields past the header width are dropped.
func textCells(fields []string, width int) []any {
	n := min(len(fields), width)
	cells := make([]any, n)
	for i := range n {
		if fields[i] == "" {
			continue
		}
		cells[i] = fields[i]
	}
	return cells
}
