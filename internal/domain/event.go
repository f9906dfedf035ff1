package domain

import "time"

// Event is one matched row of an event table, ready to be drawn as an
// annotation. Start and End are nil when the event is open on that side.
type Event struct {
	ID                  string     `json:"id"`
	Type                string     `json:"type"`
	Start               *time.Time `json:"start"`
	End                 *time.Time `json:"end"`
	MatchedLocationType string     `json:"matched_location_type"`
	MatchedLocationID   string     `json:"matched_location_id"`
	Label               string     `json:"label,omitempty"`
	Description         string     `json:"description,omitempty"`
}

// TimeSeries identifies a series and carries the properties its location
// profile is expanded from.
type TimeSeries struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties,omitempty"`
}

// TimeSeriesEvent associates a caller-owned time series with one matched event.
type TimeSeriesEvent struct {
	Series *TimeSeries `json:"series"`
	Event  Event       `json:"event"`
}

// LocationEntry is a single (type, value) location attribute, e.g. County=Adams.
type LocationEntry struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// LocationProfile is the ordered location identity of a time series.
type LocationProfile []LocationEntry

// Window bounds the events returned by a matching call. A nil bound is
// unbounded on that side.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether either side of the window is set.
func (w Window) Bounded() bool {
	return w.Start != nil || w.End != nil
}

// Intersects reports whether the interval [start, end] overlaps the window.
// A nil start is treated as -inf and a nil end as +inf.
func (w Window) Intersects(start, end *time.Time) bool {
	if w.End != nil && start != nil && start.After(*w.End) {
		return false
	}
	if w.Start != nil && end != nil && end.Before(*w.Start) {
		return false
	}
	return true
}
