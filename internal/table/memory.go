// Package table provides EventTable implementations: an in-memory table and
// loaders that read CSV and XLSX files into one.
package table

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// Memory is an immutable in-memory event table. It is safe for concurrent reads.
type Memory struct {
	name    string
	columns []string
	rows    [][]any
}

var _ domain.EventTable = (*Memory)(nil)

// NewMemory creates a table from column names and rows of cells. Rows shorter
// than the header read as null in their missing trailing cells.
func NewMemory(name string, columns []string, rows [][]any) *Memory {
	return &Memory{name: name, columns: columns, rows: rows}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

// ColumnIndex resolves name exactly, falling back to a case-insensitive match.
func (m *Memory) ColumnIndex(name string) (int, error) {
	for i, c := range m.columns {
		if c == name {
			return i, nil
		}
	}
	for i, c := range m.columns {
		if strings.EqualFold(c, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", domain.ErrColumnNotFound, name)
}

func (m *Memory) Len() int { return len(m.rows) }

func (m *Memory) Cell(row, col int) (any, error) {
	if row < 0 || row >= len(m.rows) {
		return nil, fmt.Errorf("row %d out of range [0,%d)", row, len(m.rows))
	}
	if col < 0 || col >= len(m.columns) {
		return nil, fmt.Errorf("column %d out of range [0,%d)", col, len(m.columns))
	}
	r := m.rows[row]
	if col >= len(r) {
		return nil, nil
	}
	return r[col], nil
}
