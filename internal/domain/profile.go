package domain

import (
	"slices"
	"strings"
)

// ProfileSource names the time series property that holds the identifier of
// one location type, e.g. {Type: "County", Property: "county"}.
type ProfileSource struct {
	Type     string `yaml:"type"`
	Property string `yaml:"property"`
}

// ProfileFromProperties expands a series' properties into its location
// profile, in source order. Sources whose property is missing or blank on the
// series are left out. Property names are matched case-insensitively.
func ProfileFromProperties(ts *TimeSeries, sources []ProfileSource) LocationProfile {
	if ts == nil {
		return nil
	}
	profile := make(LocationProfile, 0, len(sources))
	for _, src := range sources {
		value, ok := lookupProperty(ts.Properties, src.Property)
		if !ok {
			continue
		}
		profile = append(profile, LocationEntry{Type: src.Type, Value: value})
	}
	return profile
}

func lookupProperty(props map[string]string, name string) (string, bool) {
	if v, ok := props[name]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	// Keys differing only in case resolve to the lexically smallest one.
	keys := make([]string, 0, len(props))
	for k := range props {
		if strings.EqualFold(k, name) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v := props[k]; strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}
