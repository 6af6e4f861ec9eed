package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
)

// Source delivers one batch of raw messages (and optionally ready-made
// events) per call.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (domain.Batch, error)
}

// TestEventStore lists the operator test notes re-extracted every cycle.
type TestEventStore interface {
	ListTestEvents(ctx context.Context) ([]domain.TestEvent, error)
}

// AlarmStore persists the signal-driven alarm state across restarts.
type AlarmStore interface {
	LoadAlarmState(ctx context.Context) (domain.AlarmSnapshot, bool, error)
	SaveAlarmState(ctx context.Context, snap domain.AlarmSnapshot) error
}

// Publisher writes canonical events downstream.
type Publisher interface {
	Publish(ctx context.Context, events []domain.Event) error
}

// Options configures a Pipeline. Collaborators left nil are skipped.
type Options struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	StaleKeep       time.Duration
	// RefreshTimeout bounds a refresh shared by concurrent Current callers.
	// Defaults to twice FetchTimeout.
	RefreshTimeout time.Duration

	// Publish retry: start at PublishBackoff, double each attempt, cap at 5s.
	PublishAttempts int
	PublishBackoff  time.Duration

	TestEvents TestEventStore
	AlarmStore AlarmStore
	Publisher  Publisher
	Clock      clockwork.Clock
}

func (o *Options) applyDefaults() {
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = 12 * time.Second
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 15 * time.Second
	}
	if o.StaleKeep <= 0 {
		o.StaleKeep = 90 * time.Minute
	}
	if o.RefreshTimeout <= 0 {
		o.RefreshTimeout = 2 * o.FetchTimeout
	}
	if o.PublishAttempts <= 0 {
		o.PublishAttempts = 3
	}
	if o.PublishBackoff <= 0 {
		o.PublishBackoff = 200 * time.Millisecond
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
}

const maxPublishBackoff = 5 * time.Second

var errPipelineStopped = errors.New("pipeline stopped")

// Pipeline orchestrates the fetch-fuse-publish refresh cycle and serves the
// resulting snapshot.
type Pipeline struct {
	sources []Source
	fuser   *Fuser
	cache   *ResultCache
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	group singleflight.Group
	ready atomic.Bool
}

// New creates a Pipeline over the given sources.
func New(sources []Source, fuser *Fuser, cache *ResultCache, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	opts.applyDefaults()
	return &Pipeline{
		sources: sources,
		fuser:   fuser,
		cache:   cache,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed a refresh cycle.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a refresh cycle yet")
	}
	return nil
}

// RestoreAlarms loads the persisted alarm state, if an AlarmStore is configured.
func (p *Pipeline) RestoreAlarms(ctx context.Context) error {
	if p.opts.AlarmStore == nil {
		return nil
	}
	snap, ok, err := p.opts.AlarmStore.LoadAlarmState(ctx)
	if err != nil {
		return fmt.Errorf("restore alarm state: %w", err)
	}
	if ok {
		p.fuser.Alarms().Restore(snap)
		p.metrics.AlarmRegions.Set(float64(len(p.fuser.Alarms().Regions())))
		p.logger.Info("alarm state restored", "regions", len(snap.Regions), "districts", len(snap.Districts))
	}
	return nil
}

// Run refreshes on every RefreshInterval tick until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "sources", len(p.sources), "refresh_interval", p.opts.RefreshInterval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.opts.Clock.NewTicker(p.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		if _, err := p.refreshShared(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("refresh failed", "error", err)
		}
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			// Joining the flight key waits out a detached refresh still in progress.
			_, _, _ = p.group.Do("refresh", func() (any, error) {
				return domain.Snapshot{}, errPipelineStopped
			})
			return nil
		case <-ticker.Chan():
		}
	}
}

// Current returns the cached snapshot while it is fresh, otherwise runs a
// refresh. Concurrent callers share one refresh.
func (p *Pipeline) Current(ctx context.Context) (domain.Snapshot, error) {
	if p.cache.Fresh(p.opts.Clock.Now(), p.opts.RefreshInterval) {
		snap, _ := p.cache.Load()
		snap.Cached = true
		snap.Alarms = p.fuser.Alarms().Regions()
		snap.Districts = p.fuser.Alarms().Districts()
		return snap, nil
	}
	return p.refreshShared(ctx)
}

// Invalidate makes the next Current call refresh.
func (p *Pipeline) Invalidate() {
	p.cache.Invalidate()
}

// LastFetch returns when the cached snapshot was produced.
func (p *Pipeline) LastFetch() (time.Time, bool) {
	snap, ok := p.cache.Load()
	if !ok {
		return time.Time{}, false
	}
	return snap.FetchedAt, true
}

// refreshShared collapses concurrent refreshes into one flight. The flight
// is detached from the caller that started it, so a cancelled request does
// not fail the others waiting on it.
func (p *Pipeline) refreshShared(ctx context.Context) (domain.Snapshot, error) {
	ch := p.group.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.RefreshTimeout)
		defer cancel()
		return p.Refresh(rctx)
	})
	select {
	case <-ctx.Done():
		return domain.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Snapshot{}, res.Err
		}
		return res.Val.(domain.Snapshot), nil
	}
}

// Refresh runs one full cycle: fetch every source, fuse, update alarms,
// store the snapshot and publish the canonical events.
func (p *Pipeline) Refresh(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	start := p.opts.Clock.Now()

	batches := p.fetchAll(ctx)
	tests := p.listTests(ctx)

	res := p.fuser.Fuse(ctx, batches, tests, start)
	p.metrics.MessagesConsumed.Add(float64(res.Messages))
	p.metrics.EventsExtracted.Add(float64(res.Candidates))

	alarms := p.fuser.Alarms()
	if res.AlarmsChanged {
		p.saveAlarms(ctx, alarms.Export())
	}

	snap := domain.Snapshot{
		Events:    res.Events,
		Alarms:    alarms.Regions(),
		Districts: alarms.Districts(),
		FetchedAt: start,
	}
	if snap.Events == nil {
		snap.Events = []domain.Event{}
	}

	stale := false
	if len(res.Events) == 0 {
		if prev, ok := p.cache.Load(); ok && len(prev.Events) > 0 && start.Sub(prev.FetchedAt) < p.opts.StaleKeep {
			snap.Events = prev.Events
			snap.FetchedAt = prev.FetchedAt
			snap.Cached = true
			stale = true
			p.logger.Warn("empty cycle, serving previous events", "events", len(prev.Events), "fetched_at", prev.FetchedAt)
		}
	}

	p.cache.Store(snap)
	p.metrics.CanonicalEvents.Set(float64(len(snap.Events)))
	p.metrics.AlarmRegions.Set(float64(len(snap.Alarms)))

	if !stale {
		p.publish(ctx, snap.Events)
	}

	p.metrics.RefreshDuration.Observe(p.opts.Clock.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Debug("refresh complete",
		"batches", len(batches),
		"messages", res.Messages,
		"candidates", res.Candidates,
		"events", len(snap.Events),
		"alarms", len(snap.Alarms),
	)
	return snap, nil
}

// fetchAll fans out to every source with a per-source timeout. A failed
// source contributes nothing. Batches are ordered by source name so the
// downstream result does not depend on completion order.
func (p *Pipeline) fetchAll(ctx context.Context) []domain.Batch {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		batches = make([]domain.Batch, 0, len(p.sources))
	)
	for _, src := range p.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
			defer cancel()

			b, err := src.Fetch(fctx)
			if err != nil {
				p.logger.Error("source fetch failed", "source", src.Name(), "error", err)
				p.metrics.SourceErrors.WithLabelValues(src.Name()).Inc()
				return
			}
			if b.Source == "" {
				b.Source = src.Name()
			}
			p.metrics.BatchSize.Observe(float64(len(b.Messages) + len(b.Events)))

			mu.Lock()
			batches = append(batches, b)
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	sort.SliceStable(batches, func(i, j int) bool { return batches[i].Source < batches[j].Source })
	return batches
}

func (p *Pipeline) listTests(ctx context.Context) []domain.TestEvent {
	if p.opts.TestEvents == nil {
		return nil
	}
	tests, err := p.opts.TestEvents.ListTestEvents(ctx)
	if err != nil {
		p.logger.Error("list test events failed", "error", err)
		return nil
	}
	return tests
}

func (p *Pipeline) saveAlarms(ctx context.Context, snap domain.AlarmSnapshot) {
	if p.opts.AlarmStore == nil {
		return
	}
	if err := p.opts.AlarmStore.SaveAlarmState(ctx, snap); err != nil {
		p.logger.Error("persist alarm state failed", "error", err)
	}
}

// publish writes events with bounded exponential backoff. Failures are
// logged; the snapshot is served regardless.
func (p *Pipeline) publish(ctx context.Context, events []domain.Event) {
	if p.opts.Publisher == nil || len(events) == 0 {
		return
	}
	backoff := p.opts.PublishBackoff
	for attempt := 1; ; attempt++ {
		err := p.opts.Publisher.Publish(ctx, events)
		if err == nil {
			p.metrics.EventsPublished.Add(float64(len(events)))
			return
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish failed", "error", err, "attempt", attempt, "events", len(events))
		if attempt >= p.opts.PublishAttempts || ctx.Err() != nil {
			return
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return
		}
		backoff = retry.NextBackoff(backoff, maxPublishBackoff)
	}
}
