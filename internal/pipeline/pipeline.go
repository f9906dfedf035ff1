package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-event-annotator/internal/config"
	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/couchcryptid/storm-event-annotator/internal/matcher"
	"github.com/couchcryptid/storm-event-annotator/internal/observability"
)

var (
	// ErrNotReady is returned by lookups before the first pass completes.
	ErrNotReady = errors.New("no annotation pass has completed yet")
	// ErrUnknownSeries is returned when the latest pass did not include a series.
	ErrUnknownSeries = errors.New("unknown series")
)

// BatchLoader writes annotations to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, annotations []domain.Annotation) error
}

// SeriesResult is the outcome of matching the event table against one series.
type SeriesResult struct {
	SeriesID    string              `json:"series_id"`
	Annotations []domain.Annotation `json:"annotations"`
	Stats       matcher.Stats       `json:"stats"`
	// Filtered counts matched events dropped by the annotation filter.
	Filtered int `json:"filtered"`
}

// Report summarises one annotation pass. Series are in profile order.
type Report struct {
	RunID       string         `json:"run_id"`
	AnnotatedAt time.Time      `json:"annotated_at"`
	Table       string         `json:"table"`
	Series      []SeriesResult `json:"series"`
}

// Total returns the number of annotations across all series.
func (r *Report) Total() int {
	n := 0
	for _, s := range r.Series {
		n += len(s.Annotations)
	}
	return n
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithClock sets the time source used to stamp annotations.
func WithClock(c clockwork.Clock) Option {
	return func(a *Annotator) { a.clock = c }
}

// WithRunIDs sets the run ID generator.
func WithRunIDs(next func() string) Option {
	return func(a *Annotator) { a.newRunID = next }
}

// Annotator matches an event table against every series of a profile, loads
// the resulting annotations and keeps the latest pass for lookups.
type Annotator struct {
	loader   BatchLoader
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	newRunID func() string

	mu     sync.RWMutex
	latest *Report
}

// New creates an Annotator. A nil loader keeps annotations in memory only.
func New(loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Annotator {
	a := &Annotator{
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckReadiness returns nil once a pass has completed, or an error describing
// why the service is not yet ready.
func (a *Annotator) CheckReadiness(_ context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return ErrNotReady
	}
	return nil
}

// Latest returns the most recent completed pass.
func (a *Annotator) Latest() (*Report, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return nil, ErrNotReady
	}
	return a.latest, nil
}

// Annotations returns the annotations of one series from the latest pass.
func (a *Annotator) Annotations(seriesID string) ([]domain.Annotation, error) {
	report, err := a.Latest()
	if err != nil {
		return nil, err
	}
	for _, s := range report.Series {
		if s.SeriesID == seriesID {
			return s.Annotations, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSeries, seriesID)
}

// Run performs one annotation pass. A column configuration error aborts the
// pass before anything is loaded and leaves the previous pass in place.
func (a *Annotator) Run(ctx context.Context, table domain.EventTable, profile *config.Profile) (*Report, error) {
	start := a.clock.Now()
	report := &Report{
		RunID:       a.newRunID(),
		AnnotatedAt: start.UTC(),
		Table:       table.Name(),
		Series:      make([]SeriesResult, 0, len(profile.Series)),
	}
	logger := a.logger.With("run_id", report.RunID, "table", report.Table)
	logger.Info("annotation pass started", "series", len(profile.Series))

	var (
		batch   []domain.Annotation
		skipped []*domain.RowError
	)
	for _, s := range profile.Series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, rowErrs, err := a.annotateSeries(logger, table, profile, s, report)
		if err != nil {
			return nil, err
		}
		report.Series = append(report.Series, result)
		batch = append(batch, result.Annotations...)
		skipped = append(skipped, rowErrs...)
	}

	if a.loader != nil && len(batch) > 0 {
		if err := a.loader.LoadBatch(ctx, batch); err != nil {
			logger.Error("load annotations failed", "error", err, "batch_size", len(batch))
			return nil, fmt.Errorf("load annotations: %w", err)
		}
		a.metrics.AnnotationsLoaded.Add(float64(len(batch)))
	}

	a.mu.Lock()
	a.latest = report
	a.mu.Unlock()

	a.recordPass(report, skipped)
	a.metrics.PassDuration.Observe(a.clock.Since(start).Seconds())
	a.metrics.PipelineReady.Set(1)
	logger.Info("annotation pass completed", "annotations", len(batch))
	return report, nil
}

// annotateSeries matches one series. Skipped rows are logged here and
// returned so they are only counted once the pass commits.
func (a *Annotator) annotateSeries(logger *slog.Logger, table domain.EventTable, profile *config.Profile, s config.SeriesConfig, report *Report) (SeriesResult, []*domain.RowError, error) {
	series := s.TimeSeries()
	res, err := matcher.New(table, series).CreateTimeSeriesEvents(profile.Request(s))
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			a.metrics.ConfigurationErrors.Inc()
		}
		logger.Error("annotation pass aborted", "series_id", s.ID, "error", err)
		return SeriesResult{}, nil, fmt.Errorf("annotate series %s: %w", s.ID, err)
	}

	for _, rowErr := range res.Skipped {
		logger.Warn("row unreadable, skipping",
			"series_id", s.ID,
			"row", rowErr.Row,
			"role", rowErr.Role,
			"column", rowErr.Column,
			"error", rowErr.Err,
		)
	}

	annotations := make([]domain.Annotation, 0, len(res.Events))
	filtered := 0
	for _, tse := range res.Events {
		keep, err := profile.Filter().Match(series, tse.Event)
		if err != nil {
			logger.Warn("annotation filter failed, dropping event",
				"series_id", s.ID,
				"event_id", tse.Event.ID,
				"error", err,
			)
		}
		if !keep {
			filtered++
			continue
		}
		annotations = append(annotations, domain.NewAnnotation(report.RunID, report.AnnotatedAt, tse))
	}

	logger.Debug("series annotated", "series_id", s.ID, "matched", res.Stats.Matched, "skipped", res.Stats.Skipped, "filtered", filtered)

	return SeriesResult{SeriesID: s.ID, Annotations: annotations, Stats: res.Stats, Filtered: filtered}, res.Skipped, nil
}

// recordPass adds the counts of a committed pass to the metrics.
func (a *Annotator) recordPass(report *Report, skipped []*domain.RowError) {
	for _, sr := range report.Series {
		a.metrics.RowsScanned.Add(float64(sr.Stats.Scanned))
		a.metrics.EventsMatched.Add(float64(sr.Stats.Matched))
		a.metrics.AnnotationsFiltered.Add(float64(sr.Filtered))
		a.metrics.SeriesAnnotated.Inc()
	}
	for _, rowErr := range skipped {
		a.metrics.RowsSkipped.WithLabelValues(rowErr.Role).Inc()
	}
}
