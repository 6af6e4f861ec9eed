package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

const defaultTestSource = "admin"

// FuseOptions tunes a Fuser. Zero values select the domain defaults.
type FuseOptions struct {
	EventTTL time.Duration
	Merge    domain.MergeOptions
	Refine   domain.RefineOptions
}

// FuseResult is the outcome of fusing one cycle's batches.
type FuseResult struct {
	Events        []domain.Event
	Messages      int
	Candidates    int
	AlarmsChanged bool
}

// Fuser runs the fusion core over the batches of one refresh cycle:
// resolve and refine per batch, pool with operator test events, drop
// expired events and merge duplicates.
type Fuser struct {
	resolver  *domain.Resolver
	extractor *domain.Extractor
	alarms    *domain.AlarmState
	opts      FuseOptions
	logger    *slog.Logger
}

// NewFuser creates a Fuser. alarms receives every signal seen in a batch.
func NewFuser(resolver *domain.Resolver, extractor *domain.Extractor, alarms *domain.AlarmState, opts FuseOptions, logger *slog.Logger) *Fuser {
	if opts.EventTTL <= 0 {
		opts.EventTTL = 8 * time.Minute
	}
	if opts.Merge.Logger == nil {
		opts.Merge.Logger = logger
	}
	return &Fuser{
		resolver:  resolver,
		extractor: extractor,
		alarms:    alarms,
		opts:      opts,
		logger:    logger,
	}
}

// Alarms returns the alarm state the fuser updates.
func (f *Fuser) Alarms() *domain.AlarmState { return f.alarms }

// Fuse produces the canonical events for one cycle. now anchors the TTL
// filter.
func (f *Fuser) Fuse(ctx context.Context, batches []domain.Batch, tests []domain.TestEvent, now time.Time) FuseResult {
	var res FuseResult
	var pooled []domain.Event

	for _, b := range batches {
		res.Messages += len(b.Messages)

		resolved := f.resolver.Resolve(ctx, b.Messages)
		for _, sig := range resolved.Signals {
			f.alarms.Apply(sig)
			res.AlarmsChanged = true
		}

		events := resolved.Events
		for _, e := range b.Events {
			adopted, ok := f.extractor.Adopt(e)
			if !ok {
				f.logger.Debug("dropping feed event", "source", b.Source, "id", e.ID, "type", e.Type)
				continue
			}
			events = append(events, adopted)
		}
		pooled = append(pooled, domain.Refine(events, f.opts.Refine)...)
	}

	pooled = append(pooled, f.extractTests(tests)...)
	res.Candidates = len(pooled)

	live := pooled[:0]
	for _, e := range pooled {
		if now.Sub(e.Timestamp) <= f.opts.EventTTL {
			live = append(live, e)
		}
	}

	res.Events = domain.Merge(live, f.opts.Merge)
	return res
}

// extractTests re-extracts every stored operator note as a test event.
func (f *Fuser) extractTests(tests []domain.TestEvent) []domain.Event {
	var out []domain.Event
	for _, t := range tests {
		source := t.Source
		if source == "" {
			source = defaultTestSource
		}
		typ, _ := domain.ParseThreatType(t.Type)
		events, reason := f.extractor.ExtractDetailed(t.Message, domain.ExtractionContext{
			Source:    source,
			Timestamp: t.CreatedAt,
			RawText:   t.Message,
			IsTest:    true,
			TrackKey:  "test:" + t.ID,
			Type:      typ,
			Direction: t.Direction,
		})
		if len(events) == 0 {
			f.logger.Debug("test event produced nothing", "id", t.ID, "reason", reason.String())
			continue
		}
		out = append(out, events...)
	}
	return out
}
