package matcher

import "strings"

// typeFilter decides inclusion by event type. An empty filter accepts every row.
type typeFilter []string

func (f typeFilter) accepts(eventType string) bool {
	if len(f) == 0 {
		return true
	}
	for _, want := range f {
		if strings.EqualFold(want, eventType) {
			return true
		}
	}
	return false
}
