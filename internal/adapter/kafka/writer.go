package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-event-annotator/internal/config"
	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces annotation messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes an annotation pass to the sink topic in
// a single WriteMessages call. Annotations of one series share a partition.
func (w *Writer) LoadBatch(ctx context.Context, annotations []domain.Annotation) error {
	if len(annotations) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(annotations))
	for i := range annotations {
		msg, err := serializeToMessage(annotations[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write annotations to %s: %w", w.writer.Topic, err)
	}
	w.logger.Debug("annotations published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Annotation into a Kafka message keyed by
// series and event.
func serializeToMessage(a domain.Annotation) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize annotation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(a.Event.Type)},
			{Key: "series_id", Value: []byte(a.SeriesID)},
			{Key: "run_id", Value: []byte(a.RunID)},
			{Key: "annotated_at", Value: []byte(a.AnnotatedAt.Format(time.RFC3339))},
		},
	}, nil
}
