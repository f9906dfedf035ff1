package matcher

import (
	"time"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// rowReader reads cells of one table through pre-resolved indices.
type rowReader struct {
	table domain.EventTable
	res   *resolved
}

func (r rowReader) cell(row, col int, roleName, column string) (any, error) {
	v, err := r.table.Cell(row, col)
	if err != nil {
		return nil, &domain.RowError{Row: row, Role: roleName, Column: column, Err: err}
	}
	return v, nil
}

// text returns the role's cell as text, or "" when the role is unmapped.
func (r rowReader) text(row int, ro role) (string, error) {
	idx := r.res.indices[ro]
	if idx == unmapped {
		return "", nil
	}
	v, err := r.cell(row, idx, ro.String(), r.res.columns[ro])
	if err != nil {
		return "", err
	}
	s, err := domain.CoerceString(v)
	if err != nil {
		return "", &domain.RowError{Row: row, Role: ro.String(), Column: r.res.columns[ro], Err: err}
	}
	return s, nil
}

// temporal returns the role's cell as a canonical time, or nil when the role is
// unmapped or the cell is null.
func (r rowReader) temporal(row int, ro role) (*time.Time, error) {
	idx := r.res.indices[ro]
	if idx == unmapped {
		return nil, nil
	}
	v, err := r.cell(row, idx, ro.String(), r.res.columns[ro])
	if err != nil {
		return nil, err
	}
	t, err := domain.CoerceTime(v)
	if err != nil {
		return nil, &domain.RowError{Row: row, Role: ro.String(), Column: r.res.columns[ro], Err: err}
	}
	return t, nil
}

// locations returns the row's (type, value) location entries in configured order.
func (r rowReader) locations(row int) ([]domain.LocationEntry, error) {
	entries := make([]domain.LocationEntry, 0, len(r.res.locations))
	for _, loc := range r.res.locations {
		roleName := "location:" + loc.locType
		v, err := r.cell(row, loc.index, roleName, loc.column)
		if err != nil {
			return nil, err
		}
		s, err := domain.CoerceString(v)
		if err != nil {
			return nil, &domain.RowError{Row: row, Role: roleName, Column: loc.column, Err: err}
		}
		entries = append(entries, domain.LocationEntry{Type: loc.locType, Value: s})
	}
	return entries, nil
}

// event builds the Event for a row that passed the type and location filters.
func (r rowReader) event(row int, eventType string, matched domain.LocationEntry) (domain.Event, error) {
	ev := domain.Event{
		Type:                eventType,
		MatchedLocationType: matched.Type,
		MatchedLocationID:   matched.Value,
	}

	var err error
	if ev.ID, err = r.text(row, roleID); err != nil {
		return domain.Event{}, err
	}
	if ev.Start, err = r.temporal(row, roleStart); err != nil {
		return domain.Event{}, err
	}
	if ev.End, err = r.temporal(row, roleEnd); err != nil {
		return domain.Event{}, err
	}
	if ev.Label, err = r.text(row, roleLabel); err != nil {
		return domain.Event{}, err
	}
	if ev.Description, err = r.text(row, roleDescription); err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}
