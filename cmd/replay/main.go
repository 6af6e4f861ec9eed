// Command replay runs the fusion core over a JSON fixture of raw messages and
// prints the canonical events. It uses the same configuration, gazetteer and
// fusion chain as the service, so a fixture replays exactly as the live
// pipeline would have fused it.
//
// Usage:
//
//	go run ./cmd/replay \
//	  -in internal/pipeline/testdata/overnight_messages.json \
//	  -now 2024-03-01T02:00:00Z \
//	  -check
//
// Messages carry either an RFC 3339 "timestamp" or "minutes_ago" relative to
// -now. With -publish the events are also written to KAFKA_SINK_TOPIC.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/skywatch-fusion/internal/adapter/fuzzy"
	kafkaadapter "github.com/couchcryptid/skywatch-fusion/internal/adapter/kafka"
	"github.com/couchcryptid/skywatch-fusion/internal/config"
	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
	"github.com/couchcryptid/skywatch-fusion/internal/pipeline"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
}

type inputMessage struct {
	domain.RawMessage
	MinutesAgo *int `json:"minutes_ago"`
}

type output struct {
	Now        time.Time              `json:"now"`
	Messages   int                    `json:"messages"`
	Candidates int                    `json:"candidates"`
	Events     []domain.Event         `json:"events"`
	Alarms     []string               `json:"alarms"`
	Districts  []domain.AlarmDistrict `json:"district_alarms"`
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	in := fs.String("in", "", "path to a JSON array of raw messages")
	out := fs.String("out", "", "output path (default stdout)")
	nowFlag := fs.String("now", "", "RFC 3339 reference time (default: newest message)")
	check := fs.Bool("check", false, "fail when an event violates the output invariants")
	publish := fs.Bool("publish", false, "also publish the events to the Kafka sink topic")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errors.New("missing required flag: -in")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var now time.Time
	if *nowFlag != "" {
		if now, err = time.Parse(time.RFC3339, *nowFlag); err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	batches, now, err := readBatches(f, now)
	if err != nil {
		return err
	}

	gaz, err := gazetteer.Build(cfg.GazetteerFile, cfg.LocationOverrides, cfg.AlarmDistrictOverrides)
	if err != nil {
		return err
	}

	// Freeze extraction time so messages without timestamps replay identically.
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)

	geocoder := domain.ChainGeocoder{fuzzy.NewLocator(gaz, observability.NewMetricsForTesting())}
	fuser := pipeline.NewFuserFromConfig(cfg, gaz, geocoder, logger)
	res := fuser.Fuse(context.Background(), batches, nil, now)

	result := output{
		Now:        now,
		Messages:   res.Messages,
		Candidates: res.Candidates,
		Events:     res.Events,
		Alarms:     fuser.Alarms().Regions(),
		Districts:  fuser.Alarms().Districts(),
	}
	if result.Events == nil {
		result.Events = []domain.Event{}
	}

	if *check {
		if violations := validate(result.Events, now, cfg.EventTTL); len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintln(os.Stderr, "violation:", v)
			}
			return fmt.Errorf("%d invariant violations", len(violations))
		}
	}

	if *publish {
		w := kafkaadapter.NewWriter(cfg, logger)
		defer w.Close()
		if err := w.Publish(context.Background(), result.Events); err != nil {
			return err
		}
	}

	dst := stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		dst = file
	}
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

// readBatches decodes the fixture and groups it by source. When now is zero
// it becomes the newest absolute timestamp in the fixture.
func readBatches(r io.Reader, now time.Time) ([]domain.Batch, time.Time, error) {
	var rows []inputMessage
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode fixture: %w", err)
	}

	if now.IsZero() {
		for _, row := range rows {
			if row.Timestamp.After(now) {
				now = row.Timestamp
			}
		}
		if now.IsZero() {
			return nil, time.Time{}, errors.New("fixture has no timestamps; pass -now")
		}
	}
	now = now.UTC()

	bySource := make(map[string][]domain.RawMessage)
	for i, row := range rows {
		msg := row.RawMessage
		if row.MinutesAgo != nil {
			msg.Timestamp = now.Add(-time.Duration(*row.MinutesAgo) * time.Minute)
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = now
		}
		if msg.ID == "" {
			msg.ID = fmt.Sprintf("row-%d", i)
		}
		bySource[msg.Source] = append(bySource[msg.Source], msg)
	}

	batches := make([]domain.Batch, 0, len(bySource))
	for source, msgs := range bySource {
		batches = append(batches, domain.Batch{Source: source, Messages: msgs})
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Source < batches[j].Source })
	return batches, now, nil
}

// validate reports events that break the output invariants: known type,
// finite coordinates inside the bounding box, confidence in (0, 0.99] and a
// timestamp within the TTL.
func validate(events []domain.Event, now time.Time, ttl time.Duration) []string {
	bounds := domain.DefaultBounds()
	var out []string
	for _, e := range events {
		if _, ok := domain.ParseThreatType(string(e.Type)); !ok {
			out = append(out, fmt.Sprintf("%s: unknown type %q", e.ID, e.Type))
		}
		if math.IsNaN(e.Lat) || math.IsNaN(e.Lng) || !bounds.Contains(e.Lat, e.Lng) {
			out = append(out, fmt.Sprintf("%s: position %v,%v outside bounds", e.ID, e.Lat, e.Lng))
		}
		if e.Confidence <= 0 || e.Confidence > 0.99 {
			out = append(out, fmt.Sprintf("%s: confidence %v", e.ID, e.Confidence))
		}
		if age := now.Sub(e.Timestamp); age > ttl {
			out = append(out, fmt.Sprintf("%s: expired by %s", e.ID, age-ttl))
		}
	}
	return out
}
