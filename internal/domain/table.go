package domain

import "errors"

// ErrColumnNotFound is returned by EventTable.ColumnIndex for unknown names.
var ErrColumnNotFound = errors.New("column not found")

// EventTable provides read-only, index-based access to a table of events.
// Implementations must not change while a matching call is in progress;
// callers that mutate a table concurrently should hand the matcher a snapshot.
type EventTable interface {
	// Name identifies the table in errors and logs.
	Name() string

	// Columns returns the column names in schema order.
	Columns() []string

	// ColumnIndex resolves a column name. Unknown names return an error
	// wrapping ErrColumnNotFound.
	ColumnIndex(name string) (int, error)

	// Len returns the number of data rows.
	Len() int

	// Cell returns the value at row, col. A nil value is a null cell.
	Cell(row, col int) (any, error)
}
