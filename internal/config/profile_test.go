package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/couchcryptid/storm-event-annotator/internal/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
columns:
  id: EventID
  type: EventType
  start: StartDate
  end: EndDate
  label: Label
locations:
  - type: County
    column: County
  - type: State
    column: State
event_types: [Drought, Flood]
window:
  start: 2020-01-01
  end: 2021-12-31T23:59:59
profile_sources:
  - type: County
    property: county
series:
  - id: ADAMS.Precip.Month
    properties:
      county: Adams
    locations:
      - type: State
        value: CO
  - id: DENVER.Precip.Month
    properties:
      county: Denver
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, matcher.ColumnRoleMap{
		ID: "EventID", Type: "EventType", Start: "StartDate", End: "EndDate", Label: "Label",
	}, p.Columns)
	assert.Equal(t, []matcher.LocationColumn{{Type: "County", Column: "County"}, {Type: "State", Column: "State"}}, p.Locations)
	assert.Equal(t, []string{"Drought", "Flood"}, p.EventTypes)
	require.Len(t, p.Series, 2)

	w := p.TimeWindow()
	require.NotNil(t, w.Start)
	require.NotNil(t, w.End)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), *w.Start)
	assert.Equal(t, time.Date(2021, time.December, 31, 23, 59, 59, 0, time.UTC), *w.End)
}

func TestProfile_Request(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	req := p.Request(p.Series[0])
	assert.Equal(t, domain.LocationProfile{
		{Type: "State", Value: "CO"},
		{Type: "County", Value: "Adams"},
	}, req.Profile, "explicit locations first, then derived")
	assert.Equal(t, p.EventTypes, req.Types)
	assert.Equal(t, p.TimeWindow(), req.Window)

	req = p.Request(p.Series[1])
	assert.Equal(t, domain.LocationProfile{{Type: "County", Value: "Denver"}}, req.Profile)
}

func TestSeriesConfig_TimeSeries(t *testing.T) {
	s := SeriesConfig{ID: "X", Properties: map[string]string{"county": "Adams"}}
	ts := s.TimeSeries()
	assert.Equal(t, "X", ts.ID)
	assert.Equal(t, "Adams", ts.Properties["county"])
}

func TestParseProfile_OpenWindow(t *testing.T) {
	p, err := ParseProfile([]byte("series:\n  - id: A\n"))
	require.NoError(t, err)
	assert.False(t, p.TimeWindow().Bounded())
	assert.Empty(t, p.EventTypes)
}

func TestParseProfile_AnnotationFilter(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)
	assert.Nil(t, p.Filter())

	p, err = ParseProfile([]byte(sampleProfile + "annotation_filter: 'label in [\"D2\", \"D3\"]'\n"))
	require.NoError(t, err)
	require.NotNil(t, p.Filter())
	assert.Equal(t, `label in ["D2", "D3"]`, p.Filter().String())
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no series", "columns:\n  id: EventID\n", "at least one series"},
		{"series without id", "series:\n  - properties: {county: Adams}\n", "series[0]: id is required"},
		{"duplicate series", "series:\n  - id: A\n  - id: A\n", `duplicate id "A"`},
		{"location without column", "locations:\n  - type: County\nseries:\n  - id: A\n", "locations[0]"},
		{"source without property", "profile_sources:\n  - type: County\nseries:\n  - id: A\n", "profile_sources[0]"},
		{"blank series location", "series:\n  - id: A\n    locations:\n      - type: County\n", "series[0].locations[0]"},
		{"bad window start", "window:\n  start: last spring\nseries:\n  - id: A\n", "window.start"},
		{"bad window end", "window:\n  end: soon\nseries:\n  - id: A\n", "window.end"},
		{"inverted window", "window:\n  start: 2021-01-01\n  end: 2020-01-01\nseries:\n  - id: A\n", "start is after end"},
		{"bad filter", "annotation_filter: severity > 2\nseries:\n  - id: A\n", "annotation_filter"},
		{"unknown key", "serie:\n  - id: A\n", "decode"},
		{"not yaml", "series: [", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Len(t, p.Series, 2)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read matching profile")
}

func TestLoadProfile_InvalidNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("series: []\n"), 0o600))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
