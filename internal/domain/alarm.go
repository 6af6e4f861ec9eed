package domain

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

// AlarmStatus is the siren state announced by a message.
type AlarmStatus string

const (
	AlarmOn  AlarmStatus = "on"
	AlarmOff AlarmStatus = "off"
)

// minStemRunes guards the adjectival-stem heuristic against short stems that
// would match unrelated words.
const minStemRunes = 4

// AlarmDistrict is a raion-level alarm hint.
type AlarmDistrict struct {
	ID       string  `json:"id"`
	RegionID string  `json:"region_id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// AlarmSignal is a siren on/off announcement for regions and districts.
type AlarmSignal struct {
	Regions   []string        `json:"regions"`
	Districts []AlarmDistrict `json:"districts"`
	Status    AlarmStatus     `json:"status"`
}

// AlarmExtractor detects siren announcements in message text.
type AlarmExtractor struct {
	gaz *gazetteer.Gazetteer
}

// NewAlarmExtractor creates an AlarmExtractor over the gazetteer's region and
// district tables.
func NewAlarmExtractor(g *gazetteer.Gazetteer) *AlarmExtractor {
	return &AlarmExtractor{gaz: g}
}

// Signal returns the alarm signal in text, or nil when the text carries no
// alarm vocabulary or names no region.
func (a *AlarmExtractor) Signal(text string) *AlarmSignal {
	norm := textnorm.Normalize(text)
	on := textnorm.ContainsAny(norm, gazetteer.AlarmOnWords)
	off := textnorm.ContainsAny(norm, gazetteer.AlarmClearWords)
	if !on && !off {
		return nil
	}

	seen := make(map[string]bool)
	var regions []string
	for _, r := range a.gaz.Regions() {
		if a.regionMatches(norm, r) {
			seen[r.ID] = true
			regions = append(regions, r.ID)
		}
	}

	var districts []AlarmDistrict
	for _, d := range a.gaz.Districts() {
		if !textnorm.ContainsAny(norm, d.Keys) {
			continue
		}
		districts = append(districts, AlarmDistrict{ID: d.ID, RegionID: d.RegionID, Name: d.Name, Lat: d.Lat, Lng: d.Lng})
		if !seen[d.RegionID] {
			seen[d.RegionID] = true
			regions = append(regions, d.RegionID)
		}
	}

	if len(regions) == 0 {
		return nil
	}
	status := AlarmOn
	if off {
		status = AlarmOff
	}
	return &AlarmSignal{Regions: regions, Districts: districts, Status: status}
}

func (a *AlarmExtractor) regionMatches(norm string, r gazetteer.Region) bool {
	for _, k := range r.Keys {
		if gazetteer.MatchRegionKey(norm, k) {
			return true
		}
		if stem, ok := adjectivalStem(k); ok && strings.Contains(norm, stem) {
			return true
		}
	}
	return false
}

// adjectivalStem strips the nominative feminine ending so "харківська" also
// matches "харківській" and "харківської".
func adjectivalStem(key string) (string, bool) {
	var stem string
	switch {
	case strings.HasSuffix(key, "ська"):
		stem = strings.TrimSuffix(key, "а")
	case strings.HasSuffix(key, "ская"):
		stem = strings.TrimSuffix(key, "ая")
	default:
		return "", false
	}
	return stem, utf8.RuneCountInString(stem) >= minStemRunes
}

// AlarmState is the persistent set of regions and districts under alarm.
// Forced regions stay on regardless of "off" signals. It is safe for
// concurrent use.
type AlarmState struct {
	mu        sync.Mutex
	forced    map[string]bool
	active    map[string]bool
	districts map[string]AlarmDistrict
}

// AlarmSnapshot is the serializable form of AlarmState. Forced regions are
// configuration and are not included.
type AlarmSnapshot struct {
	Regions   []string        `json:"regions"`
	Districts []AlarmDistrict `json:"districts"`
}

// NewAlarmState creates an empty state with the given always-on regions.
func NewAlarmState(forced []string) *AlarmState {
	s := &AlarmState{
		forced:    make(map[string]bool, len(forced)),
		active:    make(map[string]bool),
		districts: make(map[string]AlarmDistrict),
	}
	for _, id := range forced {
		if id = strings.TrimSpace(id); id != "" {
			s.forced[id] = true
		}
	}
	return s
}

// Apply folds one signal into the state.
func (s *AlarmState) Apply(sig AlarmSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range sig.Regions {
		if sig.Status == AlarmOff {
			delete(s.active, id)
		} else {
			s.active[id] = true
		}
	}
	for _, d := range sig.Districts {
		if sig.Status == AlarmOff {
			delete(s.districts, d.ID)
		} else {
			s.districts[d.ID] = d
		}
	}
}

// Regions returns the sorted union of active and forced region ids.
func (s *AlarmState) Regions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.active)+len(s.forced))
	for id := range s.forced {
		out = append(out, id)
	}
	for id := range s.active {
		if !s.forced[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Districts returns the active districts sorted by id.
func (s *AlarmState) Districts() []AlarmDistrict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.districtsLocked()
}

func (s *AlarmState) districtsLocked() []AlarmDistrict {
	out := make([]AlarmDistrict, 0, len(s.districts))
	for _, d := range s.districts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Export returns the signal-driven part of the state for persistence.
func (s *AlarmState) Export() AlarmSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	regions := make([]string, 0, len(s.active))
	for id := range s.active {
		regions = append(regions, id)
	}
	sort.Strings(regions)
	return AlarmSnapshot{Regions: regions, Districts: s.districtsLocked()}
}

// Restore replaces the signal-driven part of the state.
func (s *AlarmState) Restore(snap AlarmSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = make(map[string]bool, len(snap.Regions))
	for _, id := range snap.Regions {
		s.active[id] = true
	}
	s.districts = make(map[string]AlarmDistrict, len(snap.Districts))
	for _, d := range snap.Districts {
		s.districts[d.ID] = d
	}
}
