package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id string, typ ThreatType, lat, lng, conf float64, offset time.Duration, source string) Event {
	return Event{ID: id, Type: typ, Lat: lat, Lng: lng, Confidence: conf, Timestamp: testTime.Add(offset), Source: source}
}

func TestMerge_TwoSourcesSamePlace(t *testing.T) {
	x := newTestExtractor()
	var events []Event
	events = append(events, x.Extract("БпЛА на Харків", testContext("alpha"))...)
	events = append(events, x.Extract("Шахед над Харків", testContext("beta"))...)
	require.Len(t, events, 2)

	merged := Merge(events, MergeOptions{Strict: true})

	require.Len(t, merged, 1)
	e := merged[0]
	assert.Equal(t, 2, e.EvidenceCount)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, e.EvidenceSources)
	assert.Equal(t, 49.98, e.Lat)
	assert.Equal(t, 36.25, e.Lng)
	assert.Equal(t, min(events[0].ID, events[1].ID), e.ID)
}

func TestMerge_KeepsApart(t *testing.T) {
	tests := []struct {
		name string
		b    Event
	}{
		{"different type", ev("b", ThreatKAB, 50, 30, 0.7, 0, "s")},
		{"too far", ev("b", ThreatShahed, 50.45, 30, 0.7, 0, "s")},
		{"outside window", ev("b", ThreatShahed, 50, 30, 0.7, 10*time.Minute, "s")},
		{"test flag differs", func() Event { e := ev("b", ThreatShahed, 50, 30, 0.7, 0, "s"); e.IsTest = true; return e }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ev("a", ThreatShahed, 50, 30, 0.7, 0, "s")
			assert.Len(t, Merge([]Event{a, tt.b}, MergeOptions{}), 2)
		})
	}
}

func TestMerge_WeightedCentroid(t *testing.T) {
	events := []Event{
		ev("a", ThreatShahed, 50, 30, 0.9, 0, "s1"),
		ev("b", ThreatShahed, 50.01, 30, 0.1, time.Minute, "s2"),
	}

	merged := Merge(events, MergeOptions{})

	require.Len(t, merged, 1)
	e := merged[0]
	assert.InDelta(t, 50.001, e.Lat, 1e-9)
	assert.Equal(t, 30.0, e.Lng)
	assert.Equal(t, "a", e.ID)
	assert.Equal(t, "s1", e.Source, "fields come from the most confident member")
	assert.InDelta(t, 0.5, e.Confidence, 1e-9)
	assert.Equal(t, testTime.Add(time.Minute), e.Timestamp)
}

func TestMerge_ConfidenceCapped(t *testing.T) {
	events := []Event{
		ev("a", ThreatShahed, 50, 30, 1.2, 0, "s1"),
		ev("b", ThreatShahed, 50, 30, 1.0, 0, "s2"),
	}

	merged := Merge(events, MergeOptions{})

	require.Len(t, merged, 1)
	assert.Equal(t, maxConfidence, merged[0].Confidence)
}

func TestMerge_EvidenceAccumulates(t *testing.T) {
	prior := ev("a", ThreatShahed, 50, 30, 0.7, 0, "s1")
	prior.EvidenceCount = 3
	prior.EvidenceSources = []string{"s1", "s2"}

	merged := Merge([]Event{prior, ev("b", ThreatShahed, 50, 30, 0.7, time.Minute, "s3")}, MergeOptions{})

	require.Len(t, merged, 1)
	assert.Equal(t, 4, merged[0].EvidenceCount)
	assert.Equal(t, []string{"s1", "s2", "s3"}, merged[0].EvidenceSources)
}

func TestMerge_Idempotent(t *testing.T) {
	events := []Event{
		ev("a", ThreatShahed, 50, 30, 0.7, 0, "s1"),
		ev("b", ThreatShahed, 50.01, 30.01, 0.6, time.Minute, "s2"),
		ev("c", ThreatShahed, 48.5, 35, 0.7, 0, "s1"),
		ev("d", ThreatMissile, 50, 30, 0.8, 0, "s3"),
	}

	once := Merge(events, MergeOptions{})
	twice := Merge(once, MergeOptions{})

	assert.Len(t, once, 3)
	assert.Equal(t, once, twice)
}

func TestMerge_Idempotent_CentroidDrift(t *testing.T) {
	// b starts 6 km from a. c pulls a's centre east until b is in range.
	events := []Event{
		ev("a", ThreatShahed, 49, 36, 0.5, 0, "s1"),
		ev("b", ThreatShahed, 49, 36.0822, 0.5, time.Minute, "s2"),
		ev("c", ThreatShahed, 49, 36.0548, 0.95, 2*time.Minute, "s3"),
	}

	once := Merge(events, MergeOptions{Strict: true})
	twice := Merge(once, MergeOptions{Strict: true})

	require.Len(t, once, 1)
	assert.Equal(t, "a", once[0].ID)
	assert.Equal(t, 3, once[0].EvidenceCount)
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, once[0].EvidenceSources)
	assert.Equal(t, once, twice)
}

func TestMerge_OrderIndependent(t *testing.T) {
	events := []Event{
		ev("a", ThreatShahed, 50, 30, 0.7, 0, "s1"),
		ev("b", ThreatShahed, 50.02, 30.01, 0.6, time.Minute, "s2"),
		ev("c", ThreatKAB, 48.5, 35, 0.7, 2*time.Minute, "s1"),
	}
	reversed := []Event{events[2], events[1], events[0]}

	assert.Equal(t, Merge(events, MergeOptions{}), Merge(reversed, MergeOptions{}))
}

func TestMerge_SortedOutput(t *testing.T) {
	events := []Event{
		ev("late", ThreatShahed, 48.5, 35, 0.7, 3*time.Minute, "s"),
		ev("early", ThreatShahed, 50, 30, 0.7, 0, "s"),
	}

	merged := Merge(events, MergeOptions{})

	require.Len(t, merged, 2)
	assert.Equal(t, "early", merged[0].ID)
	assert.Equal(t, "late", merged[1].ID)
}

func TestMerge_NonFinite(t *testing.T) {
	events := []Event{
		ev("a", ThreatShahed, 50, 30, 0.7, 0, "s"),
		ev("bad", ThreatShahed, math.NaN(), 30, 0.7, 0, "s"),
	}

	merged := Merge(events, MergeOptions{Logger: discardLogger()})
	require.Len(t, merged, 1)
	assert.Equal(t, "a", merged[0].ID)

	assert.Panics(t, func() {
		Merge(events, MergeOptions{Strict: true})
	})
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil, MergeOptions{}))
}
