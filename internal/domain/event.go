package domain

import (
	"math"
	"strings"
	"time"
)

// ThreatType is the closed set of airborne threat classes.
type ThreatType string

const (
	ThreatShahed   ThreatType = "shahed"
	ThreatRecon    ThreatType = "recon"
	ThreatMissile  ThreatType = "missile"
	ThreatKAB      ThreatType = "kab"
	ThreatAirplane ThreatType = "airplane"
)

// ParseThreatType maps a loose type name onto the closed set.
func ParseThreatType(s string) (ThreatType, bool) {
	t := ThreatType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ThreatShahed, ThreatRecon, ThreatMissile, ThreatKAB, ThreatAirplane:
		return t, true
	}
	return "", false
}

// RawMessage is one post delivered by an ingestion collaborator. It is
// immutable once delivered.
type RawMessage struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
	ReplyToID     string    `json:"reply_to_id,omitempty"`
	ReplyRootID   string    `json:"reply_root_id,omitempty"`
	IsTestChannel bool      `json:"is_test_channel,omitempty"`
}

// GeoPoint is a WGS-84 latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ExtractionContext carries the per-message metadata the Resolver derives
// before extraction.
type ExtractionContext struct {
	Source    string
	Timestamp time.Time
	RawText   string
	IsTest    bool

	// ContextTexts are nearby messages from the same batch. They influence
	// classification only, never location.
	ContextTexts []string
	// ParentText is the text of the message this one replies to.
	ParentText string

	BasePoint            *GeoPoint
	AllowBearingFromBase bool
	TrackKey             string

	// Presets used for operator test events.
	Type      ThreatType
	Direction *float64

	// FallbackPoint is a geocoder result used when the gazetteer finds nothing.
	FallbackPoint *GeocodingResult
}

// Event is a single classified, geolocated threat report.
type Event struct {
	ID              string     `json:"id"`
	Type            ThreatType `json:"type"`
	Lat             float64    `json:"lat"`
	Lng             float64    `json:"lng"`
	Direction       *float64   `json:"direction"`
	Source          string     `json:"source"`
	Timestamp       time.Time  `json:"timestamp"`
	Comment         string     `json:"comment"`
	IsTest          bool       `json:"is_test"`
	RegionID        string     `json:"region_id,omitempty"`
	RawText         string     `json:"raw_text"`
	Confidence      float64    `json:"confidence"`
	Label           string     `json:"label,omitempty"`
	EvidenceCount   int        `json:"evidence_count,omitempty"`
	EvidenceSources []string   `json:"evidence_sources,omitempty"`
}

func (e Event) point() GeoPoint { return GeoPoint{Lat: e.Lat, Lng: e.Lng} }

func (e Event) finite() bool {
	return !math.IsNaN(e.Lat) && !math.IsInf(e.Lat, 0) && !math.IsNaN(e.Lng) && !math.IsInf(e.Lng, 0)
}

// Batch is the output of one collaborator fetch. Sources that already
// deliver coordinates put them in Events instead of Messages.
type Batch struct {
	Source   string
	Messages []RawMessage
	Events   []Event
}

// TestEvent is an operator-entered note re-extracted on every cycle.
type TestEvent struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Direction *float64  `json:"direction"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the result of one refresh cycle as served to callers.
type Snapshot struct {
	Events    []Event         `json:"events"`
	Alarms    []string        `json:"alarms"`
	Districts []AlarmDistrict `json:"district_alarms"`
	FetchedAt time.Time       `json:"fetched_at"`
	Cached    bool            `json:"cached"`
}

// Bounds is the country box every emitted coordinate must fall inside.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// DefaultBounds covers Ukraine.
func DefaultBounds() Bounds {
	return Bounds{MinLat: 43, MaxLat: 53, MinLng: 21, MaxLng: 41}
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

func (b Bounds) zero() bool { return b == Bounds{} }
