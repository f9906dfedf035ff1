// Package matcher selects the events of an event table that apply to one time
// series and turns them into annotations.
//
// A call runs a fixed pipeline: column names are resolved to indices once,
// then each row is filtered by event type, matched against the series'
// location profile, extracted, and finally checked against the optional time
// window. Unknown column names fail the whole call; rows whose cells cannot be
// extracted are skipped and reported in [Result.Skipped].
package matcher

import (
	"errors"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// Request is the per-call matching configuration.
type Request struct {
	Columns   ColumnRoleMap
	Locations []LocationColumn
	Profile   domain.LocationProfile
	Types     []string
	Window    domain.Window
}

// Stats counts the outcome of every scanned row.
type Stats struct {
	Scanned          int `json:"scanned"`
	TypeExcluded     int `json:"type_excluded"`
	LocationExcluded int `json:"location_excluded"`
	WindowExcluded   int `json:"window_excluded"`
	Skipped          int `json:"skipped"`
	Matched          int `json:"matched"`
}

// Result is the output of one matching call. Events are in table row order.
type Result struct {
	Events  []domain.TimeSeriesEvent
	Skipped []*domain.RowError
	Stats   Stats
}

// Matcher matches one event table against one time series. It only borrows
// both; neither is modified, and no state is kept between calls.
type Matcher struct {
	table  domain.EventTable
	series *domain.TimeSeries
}

var errNoTable = errors.New("matcher: nil event table")

// New creates a Matcher for the given table and series.
func New(table domain.EventTable, series *domain.TimeSeries) *Matcher {
	return &Matcher{table: table, series: series}
}

// CreateTimeSeriesEvents returns the events of the table that apply to the
// series under req. A *domain.ConfigurationError is returned, with no result,
// when a configured column does not exist.
func (m *Matcher) CreateTimeSeriesEvents(req Request) (*Result, error) {
	if m.table == nil {
		return nil, errNoTable
	}

	res, err := resolveColumns(m.table, req)
	if err != nil {
		return nil, err
	}

	reader := rowReader{table: m.table, res: res}
	types := typeFilter(req.Types)
	out := &Result{Events: []domain.TimeSeriesEvent{}}

	for row := range m.table.Len() {
		out.Stats.Scanned++

		event, ok, err := m.matchRow(reader, row, types, req, &out.Stats)
		if err != nil {
			var rowErr *domain.RowError
			if !errors.As(err, &rowErr) {
				rowErr = &domain.RowError{Row: row, Err: err}
			}
			out.Skipped = append(out.Skipped, rowErr)
			out.Stats.Skipped++
			continue
		}
		if !ok {
			continue
		}

		out.Events = append(out.Events, domain.TimeSeriesEvent{Series: m.series, Event: event})
		out.Stats.Matched++
	}

	return out, nil
}

// matchRow runs one row through the filters. It returns ok=false for rows
// excluded by a filter and an error for rows that must be skipped.
func (m *Matcher) matchRow(reader rowReader, row int, types typeFilter, req Request, stats *Stats) (domain.Event, bool, error) {
	eventType, err := reader.text(row, roleType)
	if err != nil {
		return domain.Event{}, false, err
	}
	if !types.accepts(eventType) {
		stats.TypeExcluded++
		return domain.Event{}, false, nil
	}

	entries, err := reader.locations(row)
	if err != nil {
		return domain.Event{}, false, err
	}
	matched, ok := matchLocation(entries, req.Profile)
	if !ok {
		stats.LocationExcluded++
		return domain.Event{}, false, nil
	}

	event, err := reader.event(row, eventType, matched)
	if err != nil {
		return domain.Event{}, false, err
	}

	if !req.Window.Intersects(event.Start, event.End) {
		stats.WindowExcluded++
		return domain.Event{}, false, nil
	}
	return event, true, nil
}
