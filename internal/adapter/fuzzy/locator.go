// Package fuzzy resolves inflected or misspelled place names against the
// gazetteer by edit distance.
package fuzzy

import (
	"context"
	"strings"
	"unicode/utf8"

	lev "github.com/agnivade/levenshtein"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

const (
	provider = "fuzzy"

	// minKeyRunes keeps short keys out of the index; they match too much.
	minKeyRunes = 4
	// sharedPrefix is how many leading runes a candidate must share with a key.
	sharedPrefix = 3
)

type indexedKey struct {
	key   string
	runes int
	place int
}

// Locator implements domain.Geocoder over the gazetteer's place keys. It is
// read-only after construction and safe for concurrent use.
type Locator struct {
	gaz     *gazetteer.Gazetteer
	keys    []indexedKey
	metrics *observability.Metrics
}

// NewLocator indexes every non-contextual place key of g.
func NewLocator(g *gazetteer.Gazetteer, metrics *observability.Metrics) *Locator {
	l := &Locator{gaz: g, metrics: metrics}
	for i, p := range g.Places() {
		if p.Contextual() {
			continue
		}
		for _, k := range p.Keys {
			k = textnorm.Normalize(k)
			n := utf8.RuneCountInString(k)
			if n < minKeyRunes {
				continue
			}
			l.keys = append(l.keys, indexedKey{key: k, runes: n, place: i})
		}
	}
	return l
}

// Geocode returns the closest place within the allowed edit distance. A
// zero result with a nil error means nothing was close enough.
func (l *Locator) Geocode(_ context.Context, query string) (domain.GeocodingResult, error) {
	best, ok := l.match(textnorm.Normalize(query))
	if !ok {
		l.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
		return domain.GeocodingResult{}, nil
	}
	l.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()
	p := l.gaz.Place(best.place)
	return domain.GeocodingResult{Lat: p.Lat, Lng: p.Lng, Label: p.Name, Provider: provider}, nil
}

// match tries the whole phrase and then every word. The lowest distance
// wins; ties go to the longer key, then to gazetteer order.
func (l *Locator) match(norm string) (indexedKey, bool) {
	candidates := []string{norm}
	if words := strings.Fields(norm); len(words) > 1 {
		candidates = append(candidates, words...)
	}

	var (
		best     indexedKey
		bestDist = -1
	)
	for _, c := range candidates {
		n := utf8.RuneCountInString(c)
		if n < minKeyRunes {
			continue
		}
		for _, k := range l.keys {
			if !samePrefix(c, k.key, sharedPrefix) {
				continue
			}
			limit := maxDistance(k.runes)
			if abs(n-k.runes) > limit {
				continue
			}
			d := lev.ComputeDistance(c, k.key)
			if d > limit {
				continue
			}
			if bestDist < 0 || d < bestDist || (d == bestDist && k.runes > best.runes) {
				best, bestDist = k, d
			}
		}
	}
	return best, bestDist >= 0
}

// maxDistance allows one edit for short names and two for longer ones, which
// covers the common case endings ("одеси", "харкова").
func maxDistance(runes int) int {
	if runes <= 5 {
		return 1
	}
	return 2
}

func samePrefix(a, b string, n int) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < n || len(rb) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
