package domain

import "time"

// Annotation is a time series event stamped with the annotation pass that
// produced it. It is the unit published to sinks and served over HTTP.
type Annotation struct {
	RunID       string    `json:"run_id"`
	AnnotatedAt time.Time `json:"annotated_at"`
	SeriesID    string    `json:"series_id"`
	Event       Event     `json:"event"`
}

// NewAnnotation stamps a matched event with its run.
func NewAnnotation(runID string, at time.Time, tse TimeSeriesEvent) Annotation {
	a := Annotation{RunID: runID, AnnotatedAt: at.UTC(), Event: tse.Event}
	if tse.Series != nil {
		a.SeriesID = tse.Series.ID
	}
	return a
}

// Key identifies the annotation within its run as "<series_id>/<event_id>".
func (a Annotation) Key() string {
	return a.SeriesID + "/" + a.Event.ID
}
