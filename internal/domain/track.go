package domain

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

// ResolverConfig bounds the context window merged into each message.
type ResolverConfig struct {
	ContextWindow time.Duration
	ContextMax    int
}

// DefaultResolverConfig returns the production context window.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{ContextWindow: 8 * time.Minute, ContextMax: 10}
}

// Resolution is the output of resolving one batch.
type Resolution struct {
	Events  []Event
	Signals []AlarmSignal
}

// Resolver threads the messages of one batch into tracks and runs
// extraction with the resulting context.
type Resolver struct {
	extractor *Extractor
	alarms    *AlarmExtractor
	geocoder  Geocoder
	cfg       ResolverConfig
	logger    *slog.Logger
}

// NewResolver creates a Resolver. geocoder may be nil, in which case
// messages the gazetteer cannot place are dropped.
func NewResolver(x *Extractor, alarms *AlarmExtractor, geocoder Geocoder, cfg ResolverConfig, logger *slog.Logger) *Resolver {
	def := DefaultResolverConfig()
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = def.ContextWindow
	}
	if cfg.ContextMax <= 0 {
		cfg.ContextMax = def.ContextMax
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{extractor: x, alarms: alarms, geocoder: geocoder, cfg: cfg, logger: logger}
}

// trackRef points at the latest event of a track.
type trackRef struct {
	key   string
	event Event
}

// TrackState remembers the most recent track overall and the most recent
// track per region, each with its latest event. It lives for one batch.
type TrackState struct {
	last     *trackRef
	byRegion map[string]trackRef
}

func newTrackState() *TrackState {
	return &TrackState{byRegion: make(map[string]trackRef)}
}

// observe records the events extracted for a track.
func (s *TrackState) observe(key string, events []Event) {
	if len(events) == 0 {
		return
	}
	s.last = &trackRef{key: key, event: events[0]}
	for _, e := range events {
		if e.RegionID != "" {
			s.byRegion[e.RegionID] = trackRef{key: key, event: e}
		}
	}
}

// inherit picks the track a non-reply course-change message continues: the
// latest track in the source's preferred region, else the latest overall.
func (s *TrackState) inherit(preferredRegion string) (trackRef, bool) {
	if preferredRegion != "" {
		if ref, ok := s.byRegion[preferredRegion]; ok {
			return ref, true
		}
	}
	if s.last != nil {
		return *s.last, true
	}
	return trackRef{}, false
}

// Resolve orders msgs by time, extracts events with track and context
// metadata and collects alarm signals.
func (r *Resolver) Resolve(ctx context.Context, msgs []RawMessage) Resolution {
	ordered := make([]RawMessage, len(msgs))
	copy(ordered, msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].ID < ordered[j].ID
	})

	byID := make(map[messageKey]RawMessage, len(ordered))
	for _, m := range ordered {
		byID[messageKey{m.Source, m.ID}] = m
	}

	var res Resolution
	state := newTrackState()
	for i, m := range ordered {
		if textnorm.Normalize(m.Text) == "" {
			continue
		}
		if sig := r.alarms.Signal(m.Text); sig != nil {
			res.Signals = append(res.Signals, *sig)
		}

		ec := r.contextFor(m, byID, state)
		ec.ContextTexts = r.nearbyTexts(ordered, i)

		events, reason := r.extractor.ExtractDetailed(m.Text, ec)
		if reason == ReasonNoLocation && r.geocoder != nil {
			if point, ok := GeocodeMessage(ctx, r.geocoder, m.Text, r.extractor.Bounds(), r.logger); ok {
				ec.FallbackPoint = &point
				events = r.extractor.Extract(m.Text, ec)
			}
		}
		if len(events) == 0 {
			continue
		}
		res.Events = append(res.Events, events...)
		state.observe(ec.TrackKey, events)
	}
	return res
}

type messageKey struct {
	source string
	id     string
}

// contextFor derives the track key, reply parent and base point for m.
// A reply continues its thread; a non-reply course change continues the
// latest regional or global track; anything else starts a new track.
func (r *Resolver) contextFor(m RawMessage, byID map[messageKey]RawMessage, state *TrackState) ExtractionContext {
	ec := ExtractionContext{
		Source:    m.Source,
		Timestamp: m.Timestamp,
		RawText:   m.Text,
		IsTest:    m.IsTestChannel,
		TrackKey:  m.Source + ":" + m.ID,
	}
	ec.AllowBearingFromBase = isTurn(textnorm.Normalize(m.Text))

	if m.ReplyToID != "" {
		root := m.ReplyRootID
		if root == "" {
			root = m.ReplyToID
		}
		ec.TrackKey = m.Source + ":" + root
		if parent, ok := byID[messageKey{m.Source, m.ReplyToID}]; ok {
			ec.ParentText = parent.Text
			anchor := r.extractor.Extract(parent.Text, ExtractionContext{
				Source:    parent.Source,
				Timestamp: parent.Timestamp,
				RawText:   parent.Text,
				IsTest:    parent.IsTestChannel,
			})
			if len(anchor) > 0 {
				p := anchor[0].point()
				ec.BasePoint = &p
			}
		}
		return ec
	}

	if ec.AllowBearingFromBase {
		if ref, ok := state.inherit(r.preferredRegion(m.Source)); ok {
			ec.TrackKey = ref.key
			p := ref.event.point()
			ec.BasePoint = &p
		}
	}
	return ec
}

func (r *Resolver) preferredRegion(source string) string {
	if rule, ok := r.extractor.gaz.SourceRule(source); ok {
		return rule.Region
	}
	return ""
}

// nearbyTexts collects up to ContextMax texts within ContextWindow of
// ordered[i], newest first.
func (r *Resolver) nearbyTexts(ordered []RawMessage, i int) []string {
	now := ordered[i].Timestamp
	var out []string
	for j := len(ordered) - 1; j >= 0 && len(out) < r.cfg.ContextMax; j-- {
		if j == i || ordered[j].Text == "" {
			continue
		}
		d := ordered[j].Timestamp.Sub(now)
		if d < 0 {
			d = -d
		}
		if d > r.cfg.ContextWindow {
			continue
		}
		out = append(out, ordered[j].Text)
	}
	return out
}
