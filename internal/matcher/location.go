package matcher

import (
	"strings"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// matchLocation cross-matches the row's location entries against the series
// profile and returns the first (event entry, profile entry) pair that agrees
// on both type and value, ignoring case. Blank event values never match.
// With no location columns configured nothing matches.
func matchLocation(entries []domain.LocationEntry, profile domain.LocationProfile) (domain.LocationEntry, bool) {
	for _, ev := range entries {
		if strings.TrimSpace(ev.Value) == "" {
			continue
		}
		for _, p := range profile {
			if strings.EqualFold(ev.Type, p.Type) && strings.EqualFold(ev.Value, p.Value) {
				return ev, true
			}
		}
	}
	return domain.LocationEntry{}, false
}
