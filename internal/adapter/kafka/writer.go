package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/skywatch-fusion/internal/config"
	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces canonical events to the sink topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	clock  clockwork.Clock
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
	return &Writer{writer: w, clock: clockwork.NewRealClock(), logger: logger}
}

// Publish serializes and writes the events in a single WriteMessages call.
// Keys are event ids so consumers can upsert.
func (w *Writer) Publish(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	processedAt := w.clock.Now()
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i], processedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write canonical events: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the underlying kafka writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(event domain.Event, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event: %w", err)
	}
	evidence := event.EvidenceCount
	if evidence == 0 {
		evidence = 1
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(event.Source)},
			{Key: "evidence_count", Value: []byte(strconv.Itoa(evidence))},
			{Key: "processed_at", Value: []byte(processedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
