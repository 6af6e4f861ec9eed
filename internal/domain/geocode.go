package domain

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

const maxPlaceCandidates = 4

var (
	placeCandidateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:^|\s)(?:в районі|в районе|в р-ні|в р-не|в|у|над|біля|поблизу|через|до|на)\s+([a-zа-яіїєґ' -]{3,40})`),
		regexp.MustCompile(`(?:район|область|обл|місто|город)\s+([a-zа-яіїєґ' -]{3,40})`),
	}
	candidateJunkRe = regexp.MustCompile(`[^\p{L}\p{N}\s'-]`)

	candidateStopWords = map[string]bool{
		"район": true, "область": true, "обл": true, "курс": true,
		"напрямок": true, "направление": true, "летить": true, "летят": true,
		"рухається": true, "движется": true, "шахед": true, "бпла": true,
		"дрон": true, "ракета": true, "каб": true,
	}
)

// PlaceCandidates pulls up to four short place phrases out of a message for
// an external geocoder: the words after a locative preposition, with threat
// and motion words removed.
func PlaceCandidates(text string) []string {
	norm := textnorm.Normalize(text)
	seen := make(map[string]bool)
	var out []string
	for _, re := range placeCandidateRes {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			c := cleanupCandidate(m[1])
			if utf8.RuneCountInString(c) < 3 || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(out) > maxPlaceCandidates {
		out = out[:maxPlaceCandidates]
	}
	return out
}

func cleanupCandidate(raw string) string {
	raw = candidateJunkRe.ReplaceAllString(raw, " ")
	var words []string
	for _, w := range strings.Fields(raw) {
		if candidateStopWords[w] {
			continue
		}
		words = append(words, w)
		if len(words) == 3 {
			break
		}
	}
	return strings.Join(words, " ")
}

// GeocodeMessage tries each place candidate of text against geocoder and
// returns the first in-bounds hit. Geocoder failures are logged and treated
// as a miss.
func GeocodeMessage(ctx context.Context, geocoder Geocoder, text string, bounds Bounds, logger *slog.Logger) (GeocodingResult, bool) {
	if geocoder == nil {
		return GeocodingResult{}, false
	}
	for _, q := range PlaceCandidates(text) {
		result, err := geocoder.Geocode(ctx, q)
		if err != nil {
			logger.Warn("geocoding failed", "query", q, "error", err)
			continue
		}
		if !result.Found() || !bounds.Contains(result.Lat, result.Lng) {
			continue
		}
		if result.Label == "" {
			result.Label = q
		}
		return result, true
	}
	return GeocodingResult{}, false
}
