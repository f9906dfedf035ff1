package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/couchcryptid/storm-event-annotator/internal/filter"
	"github.com/couchcryptid/storm-event-annotator/internal/matcher"
)

// WindowConfig bounds the annotation pass in time. Either side may be blank.
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SeriesConfig is one time series to annotate. Locations are listed
// explicitly, derived from Properties through the profile sources, or both.
type SeriesConfig struct {
	ID         string                 `yaml:"id"`
	Properties map[string]string      `yaml:"properties"`
	Locations  domain.LocationProfile `yaml:"locations"`
}

// Profile is the matching profile file: how the event table is laid out and
// which series it is matched against.
type Profile struct {
	Columns        matcher.ColumnRoleMap    `yaml:"columns"`
	Locations      []matcher.LocationColumn `yaml:"locations"`
	EventTypes     []string                 `yaml:"event_types"`
	Window         WindowConfig             `yaml:"window"`
	ProfileSources []domain.ProfileSource   `yaml:"profile_sources"`
	Series         []SeriesConfig           `yaml:"series"`

	// AnnotationFilter is an optional expression every matched event must
	// satisfy before it becomes an annotation.
	AnnotationFilter string `yaml:"annotation_filter,omitempty"`

	window domain.Window
	filter *filter.Filter
}

// LoadProfile reads and validates the matching profile at path.
func LoadProfile(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matching profile: %w", err)
	}
	p, err := ParseProfile(b)
	if err != nil {
		return nil, fmt.Errorf("matching profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes and validates a matching profile. Unknown keys are
// rejected.
func ParseProfile(b []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if len(p.Series) == 0 {
		return errors.New("series: at least one series is required")
	}

	seen := make(map[string]bool, len(p.Series))
	for i, s := range p.Series {
		if s.ID == "" {
			return fmt.Errorf("series[%d]: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("series[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		for j, e := range s.Locations {
			if e.Type == "" || e.Value == "" {
				return fmt.Errorf("series[%d].locations[%d]: type and value are required", i, j)
			}
		}
	}

	for i, loc := range p.Locations {
		if loc.Type == "" || loc.Column == "" {
			return fmt.Errorf("locations[%d]: type and column are required", i)
		}
	}
	for i, src := range p.ProfileSources {
		if src.Type == "" || src.Property == "" {
			return fmt.Errorf("profile_sources[%d]: type and property are required", i)
		}
	}

	var err error
	if p.window.Start, err = parseBound(p.Window.Start); err != nil {
		return fmt.Errorf("window.start: %w", err)
	}
	if p.window.End, err = parseBound(p.Window.End); err != nil {
		return fmt.Errorf("window.end: %w", err)
	}
	if p.window.Start != nil && p.window.End != nil && p.window.Start.After(*p.window.End) {
		return errors.New("window: start is after end")
	}

	if p.filter, err = filter.Compile(p.AnnotationFilter); err != nil {
		return fmt.Errorf("annotation_filter: %w", err)
	}
	return nil
}

func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TimeWindow returns the parsed window.
func (p *Profile) TimeWindow() domain.Window {
	return p.window
}

// Filter returns the compiled annotation filter, or nil when none is set.
func (p *Profile) Filter() *filter.Filter {
	return p.filter
}

// TimeSeries returns the series as a domain value.
func (s SeriesConfig) TimeSeries() *domain.TimeSeries {
	return &domain.TimeSeries{ID: s.ID, Properties: s.Properties}
}

// LocationProfile returns the explicit locations of s followed by those
// derived from its properties.
func (p *Profile) LocationProfile(s SeriesConfig) domain.LocationProfile {
	derived := domain.ProfileFromProperties(s.TimeSeries(), p.ProfileSources)
	out := make(domain.LocationProfile, 0, len(s.Locations)+len(derived))
	out = append(out, s.Locations...)
	return append(out, derived...)
}

// Request builds the matching request for one series.
func (p *Profile) Request(s SeriesConfig) matcher.Request {
	return matcher.Request{
		Columns:   p.Columns,
		Locations: p.Locations,
		Profile:   p.LocationProfile(s),
		Types:     p.EventTypes,
		Window:    p.window,
	}
}
