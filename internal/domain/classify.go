package domain

import (
	"strings"

	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/textnorm"
)

// classifyRule is one step of the ordered classification table. Rules are
// evaluated top to bottom against normalized text; the first match wins.
type classifyRule struct {
	name  string
	match func(norm string) bool
	typ   ThreatType
}

var classifyRules = []classifyRule{
	// "йде на Ізюмський район" carries no keyword but always means a drone.
	{name: "heading to district", match: headingToDistrict, typ: ThreatShahed},
	// Must precede the substring rules: "каб" hides inside "кабінет".
	{name: "kab token", match: hasKABToken, typ: ThreatKAB},
	{name: "recon", match: anyOf(gazetteer.ReconKeywords), typ: ThreatRecon},
	{name: "shahed", match: isShahed, typ: ThreatShahed},
	{name: "missile", match: anyOf(gazetteer.MissileKeywords), typ: ThreatMissile},
	{name: "aviation", match: anyOf(gazetteer.AviationPhrases), typ: ThreatAirplane},
}

// classify returns the threat type named by norm, or "" when no rule fires.
func classify(norm string) ThreatType {
	for _, r := range classifyRules {
		if r.match(norm) {
			return r.typ
		}
	}
	return ""
}

func headingToDistrict(norm string) bool {
	return strings.Contains(norm, "йде на") &&
		(strings.Contains(norm, "район") || strings.Contains(norm, "р-н"))
}

func hasKABToken(norm string) bool {
	for _, tok := range gazetteer.KABTokens {
		for _, suffix := range gazetteer.KABSuffixes {
			if textnorm.ContainsWord(norm, tok+suffix) {
				return true
			}
		}
	}
	return false
}

func isShahed(norm string) bool {
	if textnorm.ContainsAny(norm, gazetteer.ShahedKeywords) {
		return true
	}
	for _, p := range gazetteer.ShahedPrefixes {
		if textnorm.HasWordPrefix(norm, p) {
			return true
		}
	}
	return false
}

func anyOf(keys []string) func(string) bool {
	return func(norm string) bool { return textnorm.ContainsAny(norm, keys) }
}

func isDowned(norm string) bool {
	return textnorm.ContainsAny(norm, gazetteer.DownedWords)
}

func hasTrackContext(norm string) bool {
	return textnorm.ContainsAny(norm, gazetteer.TrackContextWords)
}

func isTurn(norm string) bool {
	return textnorm.ContainsAny(norm, gazetteer.TurnWords)
}

func mentionsTest(norm string) bool {
	for _, w := range gazetteer.TestWords {
		if textnorm.HasWordPrefix(norm, w) {
			return true
		}
	}
	return false
}
