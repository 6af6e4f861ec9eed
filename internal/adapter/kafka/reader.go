package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/skywatch-fusion/internal/config"
	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

const sourceName = "kafka"

// messageReader is the subset of *kafkago.Reader the adapter uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// rawPayload is the JSON shape producers write to the source topic.
type rawPayload struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	Text          string `json:"text"`
	TimestampMs   int64  `json:"timestamp_ms"`
	Timestamp     string `json:"timestamp"`
	ReplyToID     string `json:"reply_to_id"`
	ReplyRootID   string `json:"reply_root_id"`
	IsTestChannel bool   `json:"is_test_channel"`
}

type messageKey struct {
	source string
	id     string
}

// Reader consumes raw channel posts from the source topic. It implements
// pipeline.Source: every Fetch drains what arrived since the last call and
// returns all messages still inside the retention window, so context and
// track resolution see recent history and not just the newest posts.
type Reader struct {
	reader        messageReader
	batchSize     int
	flushInterval time.Duration
	retention     time.Duration
	isTest        func(source string) bool
	clock         clockwork.Clock
	logger        *slog.Logger

	mu     sync.Mutex
	window map[messageKey]domain.RawMessage
}

// NewReader creates a Kafka consumer group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaSourceTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newReader(r, cfg, clockwork.NewRealClock(), logger)
}

func newReader(r messageReader, cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *Reader {
	return &Reader{
		reader:        r,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.BatchFlushInterval,
		retention:     cfg.EventTTL + cfg.ContextWindow,
		isTest:        cfg.IsTestChannel,
		clock:         clock,
		logger:        logger,
		window:        make(map[messageKey]domain.RawMessage),
	}
}

// Name identifies the source in logs and metrics.
func (r *Reader) Name() string { return sourceName }

// Fetch reads up to the batch size or until the flush interval passes,
// commits what it read and returns the retention window. Undecodable
// messages are logged, skipped and still committed.
func (r *Reader) Fetch(ctx context.Context) (domain.Batch, error) {
	fetched, err := r.drain(ctx)
	if err != nil {
		return domain.Batch{}, err
	}

	if len(fetched) > 0 {
		if err := r.reader.CommitMessages(ctx, fetched...); err != nil {
			r.logger.Warn("commit offsets failed", "error", err, "messages", len(fetched))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range fetched {
		raw, err := r.decode(msg)
		if err != nil {
			r.logger.Warn("skipping undecodable message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			continue
		}
		r.window[messageKey{raw.Source, raw.ID}] = raw
	}

	cutoff := r.clock.Now().Add(-r.retention)
	msgs := make([]domain.RawMessage, 0, len(r.window))
	for k, m := range r.window {
		if m.Timestamp.Before(cutoff) {
			delete(r.window, k)
			continue
		}
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.Before(msgs[j].Timestamp)
		}
		if msgs[i].Source != msgs[j].Source {
			return msgs[i].Source < msgs[j].Source
		}
		return msgs[i].ID < msgs[j].ID
	})

	return domain.Batch{Source: sourceName, Messages: msgs}, nil
}

// drain fetches until the batch is full or the flush interval elapses.
func (r *Reader) drain(ctx context.Context) ([]kafkago.Message, error) {
	fctx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	var out []kafkago.Message
	for len(out) < r.batchSize {
		msg, err := r.reader.FetchMessage(fctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) || len(out) > 0 {
				break
			}
			return nil, fmt.Errorf("fetch kafka message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

func (r *Reader) decode(msg kafkago.Message) (domain.RawMessage, error) {
	var p rawPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil {
		return domain.RawMessage{}, fmt.Errorf("decode raw message: %w", err)
	}
	if strings.TrimSpace(p.Text) == "" {
		return domain.RawMessage{}, errors.New("decode raw message: empty text")
	}

	source := p.Source
	if source == "" {
		source = headerValue(msg.Headers, "source")
	}
	if source == "" {
		source = sourceName
	}
	id := p.ID
	if id == "" {
		id = strconv.Itoa(msg.Partition) + "-" + strconv.FormatInt(msg.Offset, 10)
	}

	ts, err := payloadTime(p, msg.Time)
	if err != nil {
		return domain.RawMessage{}, err
	}

	return domain.RawMessage{
		ID:            id,
		Source:        source,
		Text:          p.Text,
		Timestamp:     ts,
		ReplyToID:     p.ReplyToID,
		ReplyRootID:   p.ReplyRootID,
		IsTestChannel: p.IsTestChannel || r.isTest(source),
	}, nil
}

// payloadTime prefers timestamp_ms, then an RFC 3339 timestamp, then the
// broker's message time.
func payloadTime(p rawPayload, fallback time.Time) (time.Time, error) {
	switch {
	case p.TimestampMs > 0:
		return time.UnixMilli(p.TimestampMs).UTC(), nil
	case p.Timestamp != "":
		t, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			return time.Time{}, fmt.Errorf("decode raw message timestamp: %w", err)
		}
		return t.UTC(), nil
	default:
		return fallback.UTC(), nil
	}
}

func headerValue(headers []kafkago.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Close stops the consumer.
func (r *Reader) Close() error {
	return r.reader.Close()
}
