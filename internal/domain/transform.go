package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

// seaProjection is how far along the sea-anchor → target vector an
// approaching aircraft is drawn.
const seaProjection = 0.35

// Reason explains why an extraction produced no events.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonDowned
	ReasonNoType
	ReasonNoLocation
	ReasonOutOfBounds
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonDowned:
		return "downed"
	case ReasonNoType:
		return "no_type"
	case ReasonNoLocation:
		return "no_location"
	case ReasonOutOfBounds:
		return "out_of_bounds"
	default:
		return "unknown"
	}
}

// ExtractorConfig tunes an Extractor. Zero values select the defaults.
type ExtractorConfig struct {
	Bounds        Bounds
	SourceWeights map[string]float64
	DefaultWeight float64
}

// Extractor turns one message into zero or more candidate events. It holds
// no mutable state and is safe for concurrent use.
type Extractor struct {
	gaz           *gazetteer.Gazetteer
	bounds        Bounds
	weights       map[string]float64
	defaultWeight float64
}

// NewExtractor builds an Extractor over the given gazetteer.
func NewExtractor(g *gazetteer.Gazetteer, cfg ExtractorConfig) *Extractor {
	x := &Extractor{
		gaz:           g,
		bounds:        cfg.Bounds,
		weights:       make(map[string]float64, len(cfg.SourceWeights)),
		defaultWeight: cfg.DefaultWeight,
	}
	if x.bounds.zero() {
		x.bounds = DefaultBounds()
	}
	if x.defaultWeight <= 0 {
		x.defaultWeight = 1
	}
	for k, v := range cfg.SourceWeights {
		x.weights[sourceKey(k)] = v
	}
	return x
}

// Bounds returns the country box the extractor enforces.
func (x *Extractor) Bounds() Bounds { return x.bounds }

// Extract returns the events found in text.
func (x *Extractor) Extract(text string, ec ExtractionContext) []Event {
	events, _ := x.ExtractDetailed(text, ec)
	return events
}

// ExtractDetailed is Extract plus the reason an empty result was returned.
func (x *Extractor) ExtractDetailed(text string, ec ExtractionContext) ([]Event, Reason) {
	rule, hasRule := x.gaz.SourceRule(ec.Source)
	exclusive := hasRule && rule.Mode == gazetteer.SourceExclusive

	own := textnorm.Normalize(text)
	parent := ""
	merged := own
	if !exclusive {
		parent = textnorm.Normalize(ec.ParentText)
		parts := []string{own, parent}
		for _, c := range ec.ContextTexts {
			parts = append(parts, textnorm.Normalize(c))
		}
		merged = joinNonEmpty(parts)
	}

	if isDowned(joinNonEmpty([]string{own, parent})) {
		return nil, ReasonDowned
	}

	var targets []target
	if t, ok := coordinateTarget(text, x.bounds); ok {
		targets = []target{t}
	} else {
		targets = locateTargets(x.gaz, own, merged)
	}

	typ, ok := ParseThreatType(string(ec.Type))
	if !ok {
		typ = classify(merged)
	}
	if typ == "" {
		hasCount := false
		for _, t := range targets {
			if t.count > 0 {
				hasCount = true
			}
		}
		switch {
		case len(targets) > 0 && (hasTrackContext(merged) || hasCount):
			typ = ThreatShahed
		case len(targets) > 0 && ec.IsTest:
			typ = ThreatShahed
		case len(targets) == 0 && ec.FallbackPoint == nil && (hasTrackContext(merged) || ec.IsTest):
			return nil, ReasonNoLocation
		case len(targets) == 0 && ec.FallbackPoint != nil:
			typ = ThreatShahed
		default:
			return nil, ReasonNoType
		}
	}

	if len(targets) == 0 && ec.FallbackPoint != nil {
		fp := ec.FallbackPoint
		targets = []target{{
			label:  fp.Label,
			point:  GeoPoint{Lat: fp.Lat, Lng: fp.Lng},
			basis:  basisGeocoded,
			region: x.regionIn(textnorm.Normalize(fp.Label)),
		}}
	}

	direction := resolveDirection(own, ec, targets)

	sea, hasSea := x.gaz.Sea(own)
	forceSea := typ == ThreatAirplane || textnorm.ContainsAny(own, gazetteer.AviationPhrases)
	if !hasSea {
		sea = x.gaz.DefaultSea()
	}
	useSea := (hasSea || forceSea) && !exclusive

	regionID := x.regionIn(own)
	if regionID == "" && hasRule && rule.Mode != gazetteer.SourcePreferred {
		regionID = rule.Region
	}

	switch {
	case exclusive:
		targets = x.collapseExclusive(rule.Region, targets)
	case len(targets) > 0 && useSea:
		for i, t := range targets {
			targets[i].point = GeoPoint{
				Lat: sea.Lat + (t.point.Lat-sea.Lat)*seaProjection,
				Lng: sea.Lng + (t.point.Lng-sea.Lng)*seaProjection,
			}
			targets[i].label = sea.Name + " → " + t.label
		}
	case len(targets) > 0:
	case useSea:
		targets = []target{{label: sea.Name, point: GeoPoint{Lat: sea.Lat, Lng: sea.Lng}, exact: true, basis: basisSea}}
	default:
		c, ok := x.gaz.Center(regionID)
		if !ok {
			return nil, ReasonNoLocation
		}
		targets = []target{{label: c.Name, point: GeoPoint{Lat: c.Lat, Lng: c.Lng}, region: c.ID, basis: basisCenter}}
	}

	ts := ec.Timestamp
	if ts.IsZero() {
		ts = clock.Now()
	}
	ts = ts.UTC()
	source := ec.Source
	if source == "" {
		source = "unknown"
	}
	rawText := ec.RawText
	if rawText == "" {
		rawText = text
	}
	isTest := ec.IsTest || mentionsTest(own)
	weight := x.weight(source)

	events := make([]Event, 0, len(targets))
	for i, t := range targets {
		seed := fmt.Sprintf("%s-%s-%d", ec.TrackKey, typ, i)
		if ec.TrackKey == "" {
			seed = fmt.Sprintf("%s-%d-%s-%s-%d", source, ts.UnixMilli(), typ, t.label, i)
		}
		p := t.point
		if !t.exact {
			p = jitter(p, seed)
		}
		if !x.bounds.Contains(p.Lat, p.Lng) {
			continue
		}

		region := t.region
		if exclusive {
			region = rule.Region
		}
		if region == "" {
			region = x.firstRegion(textnorm.Normalize(t.label), own, merged)
		}
		if region == "" {
			region = regionID
		}

		conf := t.basis
		if direction != nil {
			conf += 0.05
		}

		comment := fmt.Sprintf("Джерело: %s. Локація: %s.", source, t.label)
		if t.count > 1 {
			comment += " К-сть: " + strconv.Itoa(t.count) + "."
		}

		events = append(events, Event{
			ID:         eventID(typ, seed),
			Type:       typ,
			Lat:        p.Lat,
			Lng:        p.Lng,
			Direction:  copyFloat(direction),
			Source:     source,
			Timestamp:  ts,
			Comment:    comment,
			IsTest:     isTest,
			RegionID:   region,
			RawText:    rawText,
			Confidence: clampConfidence(conf * weight),
			Label:      t.label,
		})
	}
	if len(events) == 0 {
		return nil, ReasonOutOfBounds
	}
	return events, ReasonOK
}

// collapseExclusive reduces the targets of a single-region source to one
// point at the region centre. The label says whether any target actually
// fell inside the region.
func (x *Extractor) collapseExclusive(regionID string, targets []target) []target {
	c, ok := x.gaz.Center(regionID)
	if !ok {
		return targets
	}
	out := target{label: c.Name + " (загально)", point: GeoPoint{Lat: c.Lat, Lng: c.Lng}, region: regionID, basis: basisCenter}
	for _, t := range targets {
		r := t.region
		if r == "" {
			r = x.regionIn(textnorm.Normalize(t.label))
		}
		if r == regionID || x.gaz.ParentOf(r) == regionID {
			out.label = c.Name
			out.count = t.count
			break
		}
	}
	return []target{out}
}

// Adopt validates an event delivered ready-made by a feed and brings it to
// the same shape as an extracted one.
func (x *Extractor) Adopt(e Event) (Event, bool) {
	typ, ok := ParseThreatType(string(e.Type))
	if !ok || !e.finite() || !x.bounds.Contains(e.Lat, e.Lng) {
		return Event{}, false
	}
	e.Type = typ
	if e.Direction != nil {
		d := normalizeDegrees(*e.Direction)
		e.Direction = &d
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = clock.Now()
	}
	e.Timestamp = e.Timestamp.UTC()
	if e.ID == "" {
		e.ID = eventID(typ, fmt.Sprintf("%s-%d-%.4f-%.4f", e.Source, e.Timestamp.UnixMilli(), e.Lat, e.Lng))
	}
	if e.Confidence <= 0 {
		e.Confidence = clampConfidence(0.6 * x.weight(e.Source))
	}
	if e.RegionID == "" {
		e.RegionID = x.regionIn(textnorm.Normalize(e.Label))
	}
	return e, true
}

func (x *Extractor) regionIn(norm string) string {
	id, _ := x.gaz.RegionIn(norm)
	return id
}

func (x *Extractor) firstRegion(texts ...string) string {
	for _, t := range texts {
		if id := x.regionIn(t); id != "" {
			return id
		}
	}
	return ""
}

func (x *Extractor) weight(source string) float64 {
	if w, ok := x.weights[sourceKey(source)]; ok && w > 0 {
		return w
	}
	return x.defaultWeight
}

func sourceKey(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "@")
}

func clampConfidence(c float64) float64 {
	return math.Max(0.05, math.Min(0.95, c))
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func joinNonEmpty(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}
