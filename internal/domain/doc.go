// Package domain models event annotations for location-keyed time series.
//
// # Event Tables
//
// Events (droughts, floods, outages, storm reports) live in a generic tabular
// store, an [EventTable]. The table's schema is not known in advance: callers
// name the columns that hold each semantic role (id, type, start, end, label,
// description) and the columns that hold each location identifier, e.g.
//
//	County -> "CountyName"
//	State  -> "StateAbbrev"
//
// # Location Profiles
//
// A time series carries its own location identity as free-form properties
// (e.g. county=Adams, state=CO). [ProfileFromProperties] expands those into an
// ordered [LocationProfile] of (type, value) pairs. An event applies to a
// series when at least one of its (type, value) location entries equals one
// entry of the profile, compared case-insensitively. Matching is existential:
// an event asserting only County=Adams applies to a series identified by both
// County=Adams and State=CO.
//
// # Temporal Values
//
// The canonical temporal value is [time.Time]. Table cells may hold a
// time.Time, a calendar [Date], or text. Text is parsed with the grammar in
// [ParseTime]; text without a zone is UTC. A null or blank cell means the event
// is unbounded on that side.
//
// # Errors
//
// A column name that does not exist in the table is a [ConfigurationError]
// and aborts a matching call. A cell that cannot be coerced is a [RowError]
// and only drops that row.
package domain
