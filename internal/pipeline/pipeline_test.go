package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
	"github.com/couchcryptid/skywatch-fusion/internal/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)

// --- mocks ---

type mockSource struct {
	name  string
	mu    sync.Mutex
	batch domain.Batch
	err   error
	calls atomic.Int64
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(_ context.Context) (domain.Batch, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Batch{}, m.err
	}
	return m.batch, nil
}

func (m *mockSource) set(b domain.Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batch = b
}

// gatedSource blocks in Fetch until gate is closed or ctx ends.
type gatedSource struct {
	batch domain.Batch
	gate  chan struct{}
	calls atomic.Int64
}

func (g *gatedSource) Name() string { return g.batch.Source }

func (g *gatedSource) Fetch(ctx context.Context) (domain.Batch, error) {
	g.calls.Add(1)
	select {
	case <-g.gate:
		return g.batch, nil
	case <-ctx.Done():
		return domain.Batch{}, ctx.Err()
	}
}

type mockStore struct {
	mu     sync.Mutex
	tests  []domain.TestEvent
	err    error
	saved  []domain.AlarmSnapshot
	stored *domain.AlarmSnapshot
}

func (m *mockStore) ListTestEvents(_ context.Context) ([]domain.TestEvent, error) {
	return m.tests, m.err
}

func (m *mockStore) LoadAlarmState(_ context.Context) (domain.AlarmSnapshot, bool, error) {
	if m.stored == nil {
		return domain.AlarmSnapshot{}, false, m.err
	}
	return *m.stored, true, m.err
}

func (m *mockStore) SaveAlarmState(_ context.Context, snap domain.AlarmSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, snap)
	return m.err
}

type mockPublisher struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	published [][]domain.Event
}

func (m *mockPublisher) Publish(_ context.Context, events []domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failFirst {
		return errors.New("broker unavailable")
	}
	m.published = append(m.published, events)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFuser(forced ...string) *pipeline.Fuser {
	g := gazetteer.Default()
	x := domain.NewExtractor(g, domain.ExtractorConfig{})
	r := domain.NewResolver(x, domain.NewAlarmExtractor(g), nil, domain.ResolverConfig{}, discardLogger())
	return pipeline.NewFuser(r, x, domain.NewAlarmState(forced), pipeline.FuseOptions{}, discardLogger())
}

type harness struct {
	clock     *clockwork.FakeClock
	metrics   *observability.Metrics
	pipeline  *pipeline.Pipeline
	store     *mockStore
	publisher *mockPublisher
}

func newHarness(sources []pipeline.Source, opts pipeline.Options) *harness {
	h := &harness{
		clock:     clockwork.NewFakeClockAt(testNow),
		metrics:   newTestMetrics(),
		store:     &mockStore{},
		publisher: &mockPublisher{},
	}
	opts.Clock = h.clock
	if opts.TestEvents == nil {
		opts.TestEvents = h.store
	}
	if opts.AlarmStore == nil {
		opts.AlarmStore = h.store
	}
	if opts.Publisher == nil {
		opts.Publisher = h.publisher
	}
	opts.PublishBackoff = time.Millisecond
	h.pipeline = pipeline.New(sources, newTestFuser(), pipeline.NewResultCache(), discardLogger(), h.metrics, opts)
	return h
}

func message(source, id, text string, age time.Duration) domain.RawMessage {
	return domain.RawMessage{ID: id, Source: source, Text: text, Timestamp: testNow.Add(-age)}
}

func batch(source string, msgs ...domain.RawMessage) domain.Batch {
	return domain.Batch{Source: source, Messages: msgs}
}

// --- tests ---

func TestPipeline_Refresh_TwoSourceMerge(t *testing.T) {
	s1 := &mockSource{name: "kyiv_monitor", batch: batch("kyiv_monitor", message("kyiv_monitor", "1", "БпЛА на Харків", time.Minute))}
	s2 := &mockSource{name: "kharkiv_radar", batch: batch("kharkiv_radar", message("kharkiv_radar", "7", "БпЛА на Харків", 2*time.Minute))}
	h := newHarness([]pipeline.Source{s1, s2}, pipeline.Options{})

	require.Error(t, h.pipeline.CheckReadiness(context.Background()))

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Events, 1)
	e := snap.Events[0]
	assert.Equal(t, domain.ThreatShahed, e.Type)
	assert.Equal(t, 49.98, e.Lat)
	assert.Equal(t, 36.25, e.Lng)
	assert.Equal(t, 2, e.EvidenceCount)
	assert.ElementsMatch(t, []string{"kyiv_monitor", "kharkiv_radar"}, e.EvidenceSources)
	assert.False(t, snap.Cached)
	assert.Equal(t, testNow, snap.FetchedAt)

	require.Len(t, h.publisher.published, 1)
	if diff := cmp.Diff(snap.Events, h.publisher.published[0]); diff != "" {
		t.Fatalf("published events mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 2.0, metricValue(t, h.metrics.MessagesConsumed), 0)
	assert.InDelta(t, 1.0, metricValue(t, h.metrics.EventsPublished), 0)
	assert.InDelta(t, 1.0, metricValue(t, h.metrics.CanonicalEvents), 0)
	assert.NoError(t, h.pipeline.CheckReadiness(context.Background()))
}

func TestPipeline_Refresh_SourceErrorContributesNothing(t *testing.T) {
	ok := &mockSource{name: "good", batch: batch("good", message("good", "1", "БпЛА на Харків", time.Minute))}
	bad := &mockSource{name: "bad", err: errors.New("timeout")}
	h := newHarness([]pipeline.Source{bad, ok}, pipeline.Options{})

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Events, 1)
	assert.Equal(t, "good", snap.Events[0].Source)
	assert.InDelta(t, 1.0, metricValue(t, h.metrics.SourceErrors.WithLabelValues("bad")), 0)
}

func TestPipeline_Refresh_DropsExpiredEvents(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s",
		message("s", "1", "БпЛА на Харків", 10*time.Minute),
		message("s", "2", "БпЛА на Суми", 20*time.Minute),
	)}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{})

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.Events)
	assert.NotNil(t, snap.Events)
	assert.Empty(t, h.publisher.published)
	assert.InDelta(t, 2.0, metricValue(t, h.metrics.EventsExtracted), 0)
}

func TestPipeline_Refresh_StaleKeep(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute))}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{StaleKeep: 30 * time.Minute})

	first, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Events, 1)

	src.set(domain.Batch{Source: "s"})
	h.clock.Advance(time.Minute)

	second, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	assert.Len(t, h.publisher.published, 1, "stale events are not republished")

	h.clock.Advance(30 * time.Minute)
	third, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, third.Events)
	assert.False(t, third.Cached)
}

func TestPipeline_Current_ServesCacheWithinInterval(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute))}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{RefreshInterval: 12 * time.Second})
	ctx := context.Background()

	first, err := h.pipeline.Current(ctx)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	h.clock.Advance(5 * time.Second)
	second, err := h.pipeline.Current(ctx)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int64(1), src.calls.Load())

	h.clock.Advance(10 * time.Second)
	_, err = h.pipeline.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), src.calls.Load())

	h.pipeline.Invalidate()
	_, err = h.pipeline.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), src.calls.Load())

	last, ok := h.pipeline.LastFetch()
	require.True(t, ok)
	assert.Equal(t, testNow.Add(15*time.Second), last)
}

func TestPipeline_Current_CancelledCallerDoesNotFailSharedRefresh(t *testing.T) {
	src := &gatedSource{
		batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute)),
		gate:  make(chan struct{}),
	}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := h.pipeline.Current(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		snap domain.Snapshot
		err  error
	}
	second := make(chan result, 1)
	go func() {
		snap, err := h.pipeline.Current(context.Background())
		second <- result{snap, err}
	}()

	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.gate)
	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.snap.Events, 1)
	assert.Equal(t, 49.98, got.snap.Events[0].Lat)
	assert.Equal(t, 36.25, got.snap.Events[0].Lng)
	require.NoError(t, h.pipeline.CheckReadiness(context.Background()))
}

func TestPipeline_Refresh_TestEvents(t *testing.T) {
	dir := 270.0
	h := newHarness(nil, pipeline.Options{})
	h.store.tests = []domain.TestEvent{{
		ID:        "t-1",
		Message:   "ракета над Харків. тест перевірка",
		Type:      "missile",
		Direction: &dir,
		CreatedAt: testNow.Add(-time.Minute),
	}}

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Events, 1)
	e := snap.Events[0]
	assert.True(t, e.IsTest)
	assert.Equal(t, domain.ThreatMissile, e.Type)
	assert.Equal(t, "admin", e.Source)
	require.NotNil(t, e.Direction)
	assert.Equal(t, 270.0, *e.Direction)
}

func TestPipeline_Refresh_StoreErrorDegrades(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute))}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{})
	h.store.err = errors.New("database is locked")

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Events, 1)
}

func TestPipeline_Refresh_AlarmSignals(t *testing.T) {
	src := &mockSource{name: "alerts", batch: batch("alerts",
		message("alerts", "1", "Повітряна тривога в Харківській області", 3*time.Minute),
	)}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{})

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"kharkivska"}, snap.Alarms)
	require.Len(t, h.store.saved, 1)
	assert.Equal(t, []string{"kharkivska"}, h.store.saved[0].Regions)
	assert.InDelta(t, 1.0, metricValue(t, h.metrics.AlarmRegions), 0)

	src.set(batch("alerts", message("alerts", "2", "Відбій тривоги. Харківська область", 0)))
	h.pipeline.Invalidate()
	snap, err = h.pipeline.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Alarms)
	require.Len(t, h.store.saved, 2)
}

func TestPipeline_RestoreAlarms(t *testing.T) {
	h := newHarness(nil, pipeline.Options{})
	h.store.stored = &domain.AlarmSnapshot{Regions: []string{"odeska"}}

	require.NoError(t, h.pipeline.RestoreAlarms(context.Background()))

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"odeska"}, snap.Alarms)
	assert.Empty(t, h.store.saved, "no signals means nothing to persist")
}

func TestPipeline_Publish_RetriesWithBackoff(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute))}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{})
	h.publisher.failFirst = 2

	_, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, h.publisher.calls)
	assert.Len(t, h.publisher.published, 1)
	assert.InDelta(t, 2.0, metricValue(t, h.metrics.PublishErrors), 0)
}

func TestPipeline_Publish_GivesUp(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute))}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{PublishAttempts: 2})
	h.publisher.failFirst = 5

	snap, err := h.pipeline.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Events, 1, "the snapshot is served even when publishing fails")
	assert.Equal(t, 2, h.publisher.calls)
}

func TestPipeline_Refresh_CancelledContext(t *testing.T) {
	h := newHarness(nil, pipeline.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.pipeline.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Error(t, h.pipeline.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RefreshesOnTick(t *testing.T) {
	src := &mockSource{name: "s", batch: batch("s", message("s", "1", "БпЛА на Харків", time.Minute))}
	h := newHarness([]pipeline.Source{src}, pipeline.Options{RefreshInterval: 12 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.pipeline.Run(ctx) }()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.InDelta(t, 1.0, metricValue(t, h.metrics.PipelineRunning), 0)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, h.clock.BlockUntilContext(waitCtx, 1))
	h.clock.Advance(12 * time.Second)

	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.InDelta(t, 0.0, metricValue(t, h.metrics.PipelineRunning), 0)
}

// --- helpers ---

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}
