package domain

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

const (
	minClusterWeight = 0.05
	maxConfidence    = 0.99
)

// MergeOptions configures Merge. Zero values select the defaults.
type MergeOptions struct {
	Window   time.Duration
	RadiusKm float64
	// Strict panics on events with non-finite coordinates instead of
	// dropping them. Enable in tests and development builds.
	Strict bool
	Logger *slog.Logger
}

// DefaultMergeOptions returns the production dedup window and radius.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{Window: 5 * time.Minute, RadiusKm: 5}
}

type cluster struct {
	typ     ThreatType
	isTest  bool
	center  GeoPoint
	ts      time.Time
	members []Event

	sumW, sumLat, sumLng float64
}

func (c *cluster) add(e Event) {
	w := math.Max(e.Confidence, minClusterWeight)
	c.members = append(c.members, e)
	c.sumW += w
	c.sumLat += e.Lat * w
	c.sumLng += e.Lng * w
	c.center = GeoPoint{Lat: c.sumLat / c.sumW, Lng: c.sumLng / c.sumW}
	if e.Timestamp.After(c.ts) {
		c.ts = e.Timestamp
	}
}

func (c *cluster) accepts(e Event, opts MergeOptions) bool {
	if e.Type != c.typ || e.IsTest != c.isTest {
		return false
	}
	dt := e.Timestamp.Sub(c.ts)
	if dt < 0 {
		dt = -dt
	}
	return dt <= opts.Window && haversineKm(c.center, e.point()) <= opts.RadiusKm
}

// Merge collapses near-duplicate events into canonical ones. Events are
// taken in (timestamp, id) order and appended to the first open cluster of
// the same type and test flag within the window and radius of its current
// centre. Clusters never merge with each other within a pass, but a centre
// can drift into range of an earlier cluster, so passes repeat over their
// own output until nothing merges. Merging the result again is a no-op.
func Merge(events []Event, opts MergeOptions) []Event {
	def := DefaultMergeOptions()
	if opts.Window <= 0 {
		opts.Window = def.Window
	}
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = def.RadiusKm
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sorted := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.finite() {
			if opts.Strict {
				panic(fmt.Sprintf("domain: event %s has non-finite coordinates (%v, %v)", e.ID, e.Lat, e.Lng))
			}
			logger.Error("dropping event with non-finite coordinates", "event_id", e.ID, "source", e.Source)
			continue
		}
		sorted = append(sorted, e)
	}
	sortEvents(sorted)

	out := clusterPass(sorted, opts)
	for n := len(sorted); len(out) < n; {
		n = len(out)
		out = clusterPass(out, opts)
	}
	return out
}

func clusterPass(sorted []Event, opts MergeOptions) []Event {
	var clusters []*cluster
	for _, e := range sorted {
		var target *cluster
		for _, c := range clusters {
			if c.accepts(e, opts) {
				target = c
				break
			}
		}
		if target == nil {
			target = &cluster{typ: e.Type, isTest: e.IsTest}
			clusters = append(clusters, target)
		}
		target.add(e)
	}

	out := make([]Event, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.finalize())
	}
	sortEvents(out)
	return out
}

// finalize collapses the cluster into one event carrying the fields of its
// most confident member.
func (c *cluster) finalize() Event {
	best := c.members[0]
	minID := best.ID
	var confSum float64
	evidence := 0
	var sources []string
	seen := make(map[string]bool)
	for _, m := range c.members {
		if m.Confidence > best.Confidence {
			best = m
		}
		if m.ID < minID {
			minID = m.ID
		}
		confSum += m.Confidence
		if m.EvidenceCount > 0 {
			evidence += m.EvidenceCount
		} else {
			evidence++
		}
		srcs := m.EvidenceSources
		if len(srcs) == 0 {
			srcs = []string{m.Source}
		}
		for _, s := range srcs {
			if !seen[s] {
				seen[s] = true
				sources = append(sources, s)
			}
		}
	}

	out := best
	out.ID = minID
	out.Lat = round4(c.center.Lat)
	out.Lng = round4(c.center.Lng)
	out.Timestamp = c.ts
	out.Confidence = math.Min(confSum/float64(len(c.members)), maxConfidence)
	out.EvidenceCount = evidence
	out.EvidenceSources = sources
	return out
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})
}
