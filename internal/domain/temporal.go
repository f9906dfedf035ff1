package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date with no time of day, as stored by date-only columns.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the calendar date of t in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time promotes the date to midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(time.DateOnly)
}

// ErrEmptyTime is returned by ParseTime for blank input.
var ErrEmptyTime = errors.New("empty date/time")

// timeLayouts is the canonical textual grammar, most precise first.
// The last entries cover US-style dates and the default spreadsheet rendering.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15",
	time.DateOnly,
	"2006-01",
	"2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06",
}

// ParseTime parses text with the canonical date/time grammar. Values without
// a zone are UTC. It is the inverse of FormatTime.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTime
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date/time %q: unrecognized format", s)
}

// FormatTime renders t in the canonical textual form.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// CoerceTime converts a table cell to the canonical temporal value. A nil
// result with a nil error means the cell is null (unbounded).
func CoerceTime(v any) (*time.Time, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		t = *x
	case Date:
		t = x.Time()
	case *Date:
		if x == nil {
			return nil, nil
		}
		t = x.Time()
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		parsed, err := ParseTime(x)
		if err != nil {
			return nil, err
		}
		t = parsed
	default:
		return nil, fmt.Errorf("unsupported date/time cell type %T", v)
	}
	return &t, nil
}

// CoerceString renders a table cell as text, preserving case. Null cells
// render as the empty string.
func CoerceString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported text cell type %T", v)
	}
}
