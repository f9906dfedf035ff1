package domain

import "fmt"

// ConfigurationError reports a role or location column that the table does
// not have. It is fatal to a matching call.
type ConfigurationError struct {
	Table  string
	Role   string // "start", "label", "location:County", ...
	Column string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("table %q: %s: %v", e.Table, e.Role, e.Err)
	}
	return fmt.Sprintf("table %q: %s column %q: %v", e.Table, e.Role, e.Column, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RowError reports a cell of one row that could not be extracted or coerced.
type RowError struct {
	Row    int
	Role   string
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s column %q: %v", e.Row, e.Role, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
