package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

const (
	maxTargets = 6

	// countWindow is how many runes before a place name are searched for an
	// item count ("3 шахеди повз ...").
	countWindow = 30
)

// Confidence bases by how a point was resolved.
const (
	basisCoordinates = 0.85
	basisGazetteer   = 0.70
	basisGeocoded    = 0.50
	basisCenter      = 0.40
	basisSea         = 0.35
)

var (
	// coordRe matches an explicit "lat, lng" pair. Decimal commas are accepted.
	coordRe = regexp.MustCompile(`(-?\d{1,2}[.,]\d+)(?:\s*[,;]\s*|\s+)(-?\d{1,3}[.,]\d+)`)

	// countRe matches a count immediately before a place name, optionally
	// followed by a unit, one noun and a preposition.
	countRe = regexp.MustCompile(`(\+?\d{1,2})\s*(?:x|шт|од|штук)?\s*(?:\p{L}+\s+)?(?:повз|біля|поблизу|над|у напрямку|в направлении|в районі|в р-ні|в р-не|курс на|в сторону|по|через)?\s*$`)
)

// target is one resolved location before it becomes an Event.
type target struct {
	label  string
	point  GeoPoint
	exact  bool
	count  int
	region string
	basis  float64
}

// coordinateTarget returns the first explicit coordinate pair inside bounds.
func coordinateTarget(text string, bounds Bounds) (target, bool) {
	for _, m := range coordRe.FindAllStringSubmatch(text, -1) {
		lat, err1 := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		lng, err2 := strconv.ParseFloat(strings.Replace(m[2], ",", ".", 1), 64)
		if err1 != nil || err2 != nil || !bounds.Contains(lat, lng) {
			continue
		}
		return target{
			label: fmt.Sprintf("%.4f, %.4f", lat, lng),
			point: GeoPoint{Lat: lat, Lng: lng},
			exact: true,
			basis: basisCoordinates,
		}, true
	}
	return target{}, false
}

type placeHit struct {
	match gazetteer.Match
	place gazetteer.Place
	count int
}

// locateTargets resolves place names in the message's own text. merged is
// only consulted for the context words that disambiguate homonyms.
func locateTargets(g *gazetteer.Gazetteer, own, merged string) []target {
	var hits []placeHit
	for _, m := range g.Locate(own) {
		p := g.Place(m.Place)
		if p.Contextual() && !textnorm.ContainsAny(merged, p.Context) {
			continue
		}
		hits = append(hits, placeHit{match: m, place: p})
	}
	hits = dropShadowed(hits)

	order := make([]string, 0, len(hits))
	byLabel := make(map[string]placeHit, len(hits))
	for _, h := range hits {
		h.count = countBefore(own, h.match.Start)
		prev, seen := byLabel[h.place.Name]
		switch {
		case !seen:
			order = append(order, h.place.Name)
			byLabel[h.place.Name] = h
		case prev.count == 0 && h.count > 0:
			byLabel[h.place.Name] = h
		}
	}

	if len(order) > maxTargets {
		order = order[:maxTargets]
	}
	out := make([]target, 0, len(order))
	for _, label := range order {
		h := byLabel[label]
		out = append(out, target{
			label:  h.place.Name,
			point:  GeoPoint{Lat: h.place.Lat, Lng: h.place.Lng},
			exact:  true,
			count:  h.count,
			region: h.place.Region,
			basis:  basisGazetteer,
		})
	}
	return out
}

// dropShadowed removes hits whose span lies inside a longer hit ("одеса"
// inside "нова одеса") and contextual hits that share a span with a plain one.
func dropShadowed(hits []placeHit) []placeHit {
	out := hits[:0:0]
	for i, h := range hits {
		shadowed := false
		for j, o := range hits {
			if i == j || o.match.Start > h.match.Start || o.match.End < h.match.End {
				continue
			}
			longer := o.match.End-o.match.Start > h.match.End-h.match.Start
			sameSpan := o.match.Start == h.match.Start && o.match.End == h.match.End
			if longer || (sameSpan && h.place.Contextual() && !o.place.Contextual()) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			out = append(out, h)
		}
	}
	return out
}

// countBefore looks for an item count in the runes preceding byte offset end.
func countBefore(norm string, end int) int {
	start := end
	for n := 0; n < countWindow && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(norm[:start])
		start -= size
	}
	m := countRe.FindStringSubmatch(norm[start:end])
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(m[1], "+"))
	if err != nil {
		return 0
	}
	return n
}
