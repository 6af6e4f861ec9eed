// Package gazetteer holds the static place, region and vocabulary tables the
// extraction engine resolves free text against, plus the indexed lookup built
// over them once at startup.
package gazetteer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
	"gopkg.in/yaml.v3"
)

// Place is a named point with the spellings that refer to it. A place with
// Context only counts when one of the context words also appears.
type Place struct {
	Name    string   `yaml:"name" json:"name"`
	Keys    []string `yaml:"keys" json:"keys"`
	Context []string `yaml:"context,omitempty" json:"context,omitempty"`
	Lat     float64  `yaml:"lat" json:"lat"`
	Lng     float64  `yaml:"lng" json:"lng"`
	Region  string   `yaml:"region,omitempty" json:"region,omitempty"`
}

// Contextual reports whether the place needs a disambiguating context word.
func (p Place) Contextual() bool { return len(p.Context) > 0 }

// Region is an oblast (or a city with oblast status) used for alarm signals.
type Region struct {
	ID     string   `yaml:"id"`
	Keys   []string `yaml:"keys"`
	Parent string   `yaml:"parent,omitempty"`
}

// RegionCenter is the fallback point for an oblast mentioned without a town.
type RegionCenter struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// District is a raion-level alarm hint.
type District struct {
	ID       string   `yaml:"id" json:"id"`
	RegionID string   `yaml:"region_id" json:"region_id"`
	Name     string   `yaml:"name" json:"name"`
	Keys     []string `yaml:"keys" json:"keys"`
	Lat      float64  `yaml:"lat" json:"lat"`
	Lng      float64  `yaml:"lng" json:"lng"`
}

// Sea is an approach anchor for aviation and maritime reports.
type Sea struct {
	Name string   `yaml:"name"`
	Keys []string `yaml:"keys"`
	Lat  float64  `yaml:"lat"`
	Lng  float64  `yaml:"lng"`
}

// SourceMode controls how strongly a source is tied to its region.
type SourceMode int

const (
	// SourcePreferred only steers track inheritance for course-change messages.
	SourcePreferred SourceMode = iota
	// SourceDefault also supplies the region when the text names none.
	SourceDefault
	// SourceExclusive forces every event from the source into the region.
	SourceExclusive
)

func (m SourceMode) String() string {
	switch m {
	case SourceDefault:
		return "default"
	case SourceExclusive:
		return "exclusive"
	default:
		return "preferred"
	}
}

// UnmarshalYAML accepts the mode by name.
func (m *SourceMode) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "", "preferred":
		*m = SourcePreferred
	case "default":
		*m = SourceDefault
	case "exclusive":
		*m = SourceExclusive
	default:
		return fmt.Errorf("unknown source mode %q", value.Value)
	}
	return nil
}

// SourceRule binds channels whose id contains Match to a region.
type SourceRule struct {
	Match  string     `yaml:"match"`
	Region string     `yaml:"region"`
	Mode   SourceMode `yaml:"mode"`
}

// Tables is the raw data a Gazetteer is built from.
type Tables struct {
	Places    []Place        `yaml:"places"`
	Regions   []Region       `yaml:"regions"`
	Centers   []RegionCenter `yaml:"centers"`
	Districts []District     `yaml:"districts"`
	Seas      []Sea          `yaml:"seas"`
	Sources   []SourceRule   `yaml:"source_rules"`
}

// Append adds extra's entries after the receiver's.
func (t *Tables) Append(extra Tables) {
	t.Places = append(t.Places, extra.Places...)
	t.Regions = append(t.Regions, extra.Regions...)
	t.Centers = append(t.Centers, extra.Centers...)
	t.Districts = append(t.Districts, extra.Districts...)
	t.Seas = append(t.Seas, extra.Seas...)
	t.Sources = append(t.Sources, extra.Sources...)
}

// Match is one occurrence of a place key in normalized text. Start and End
// are byte offsets.
type Match struct {
	Place int
	Key   string
	Start int
	End   int
}

type keyRef struct {
	key   string
	place int
}

// Gazetteer is an immutable, indexed view over Tables. It is safe for
// concurrent use.
type Gazetteer struct {
	places    []Place
	regions   []Region
	regionIdx map[string]int
	centers   map[string]RegionCenter
	districts []District
	seas      []Sea
	sources   []SourceRule

	// index buckets place keys by their first two runes. One-rune keys are
	// bucketed under that rune.
	index map[string][]keyRef
}

// Default builds a Gazetteer from the built-in tables.
func Default() *Gazetteer {
	return New(DefaultTables())
}

// New normalizes every key in t and builds the lookup index.
func New(t Tables) *Gazetteer {
	g := &Gazetteer{
		regionIdx: make(map[string]int, len(t.Regions)),
		centers:   make(map[string]RegionCenter, len(t.Centers)),
		index:     make(map[string][]keyRef),
	}

	for _, p := range clonePlaces(t.Places) {
		p.Keys = normalizeAll(p.Keys)
		p.Context = normalizeAll(p.Context)
		if len(p.Keys) == 0 {
			continue
		}
		if p.Name == "" {
			p.Name = p.Keys[0]
		}
		idx := len(g.places)
		g.places = append(g.places, p)
		for _, k := range p.Keys {
			b := bigram(k)
			g.index[b] = append(g.index[b], keyRef{key: k, place: idx})
		}
	}

	for _, r := range t.Regions {
		r.Keys = normalizeAll(r.Keys)
		if existing, ok := g.regionIdx[r.ID]; ok {
			g.regions[existing].Keys = append(g.regions[existing].Keys, r.Keys...)
			continue
		}
		g.regionIdx[r.ID] = len(g.regions)
		g.regions = append(g.regions, r)
	}

	for _, c := range t.Centers {
		g.centers[c.ID] = c
	}

	seen := make(map[string]bool, len(t.Districts))
	for _, d := range t.Districts {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		d.Keys = normalizeAll(d.Keys)
		g.districts = append(g.districts, d)
	}

	for _, s := range t.Seas {
		s.Keys = normalizeAll(s.Keys)
		g.seas = append(g.seas, s)
	}

	for _, s := range t.Sources {
		s.Match = normalizeSource(s.Match)
		if s.Match != "" {
			g.sources = append(g.sources, s)
		}
	}
	return g
}

// Place returns the place at index i as reported by Locate.
func (g *Gazetteer) Place(i int) Place { return g.places[i] }

// Places returns all places in table order.
func (g *Gazetteer) Places() []Place { return g.places }

// Locate reports every occurrence of every place key found in norm, ordered
// by position and, at equal positions, longest key first.
func (g *Gazetteer) Locate(norm string) []Match {
	var out []Match
	for i := 0; i < len(norm); {
		_, size := utf8.DecodeRuneInString(norm[i:])
		buckets := [][]keyRef{g.index[bigram(norm[i:])]}
		if size < len(norm)-i {
			buckets = append(buckets, g.index[norm[i:i+size]])
		}
		for _, bucket := range buckets {
			for _, ref := range bucket {
				if !strings.HasPrefix(norm[i:], ref.key) {
					continue
				}
				out = append(out, Match{Place: ref.place, Key: ref.key, Start: i, End: i + len(ref.key)})
			}
		}
		i += size
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Start != out[b].Start {
			return out[a].Start < out[b].Start
		}
		return out[a].End > out[b].End
	})
	return out
}

// Regions returns the alarm regions in table order.
func (g *Gazetteer) Regions() []Region { return g.regions }

// RegionIn returns the first region, in table order, with a key present in norm.
func (g *Gazetteer) RegionIn(norm string) (string, bool) {
	if norm == "" {
		return "", false
	}
	for _, r := range g.regions {
		for _, k := range r.Keys {
			if MatchRegionKey(norm, k) {
				return r.ID, true
			}
		}
	}
	return "", false
}

// MatchRegionKey matches short region keys ("арк") as whole tokens and the
// rest as substrings.
func MatchRegionKey(norm, key string) bool {
	if key == "" {
		return false
	}
	if utf8.RuneCountInString(key) <= 3 {
		return textnorm.ContainsWord(norm, key)
	}
	return strings.Contains(norm, key)
}

// ParentOf returns the enclosing region of id, or id itself.
func (g *Gazetteer) ParentOf(id string) string {
	if i, ok := g.regionIdx[id]; ok && g.regions[i].Parent != "" {
		return g.regions[i].Parent
	}
	return id
}

// Center returns the fallback point for a region.
func (g *Gazetteer) Center(id string) (RegionCenter, bool) {
	c, ok := g.centers[id]
	return c, ok
}

// Districts returns the raion hints in table order.
func (g *Gazetteer) Districts() []District { return g.districts }

// Sea returns the sea named in norm. A bare sea word resolves to the default
// sea; ok is false when the text does not mention the sea at all.
func (g *Gazetteer) Sea(norm string) (Sea, bool) {
	for _, s := range g.seas {
		if textnorm.ContainsAny(norm, s.Keys) {
			return s, true
		}
	}
	for _, w := range SeaWords {
		if textnorm.ContainsWord(norm, w) {
			return g.DefaultSea(), true
		}
	}
	return Sea{}, false
}

// DefaultSea is the anchor used for unnamed sea mentions and aviation.
func (g *Gazetteer) DefaultSea() Sea {
	if len(g.seas) == 0 {
		return Sea{}
	}
	return g.seas[0]
}

// SourceRule returns the first rule whose Match is contained in source.
func (g *Gazetteer) SourceRule(source string) (SourceRule, bool) {
	src := normalizeSource(source)
	if src == "" {
		return SourceRule{}, false
	}
	for _, r := range g.sources {
		if strings.Contains(src, r.Match) {
			return r, true
		}
	}
	return SourceRule{}, false
}

func normalizeSource(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "@")
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := textnorm.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func bigram(s string) string {
	_, first := utf8.DecodeRuneInString(s)
	if first >= len(s) {
		return s
	}
	_, second := utf8.DecodeRuneInString(s[first:])
	return s[:first+second]
}
