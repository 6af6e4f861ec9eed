package domain

import (
	"regexp"
	"strconv"
)

var (
	degreeRe  = regexp.MustCompile(`(\d{1,3})\s*(?:°|град|deg)`)
	headingRe = regexp.MustCompile(`(?:напрям\p{L}{0,3}|направлени\p{L}{0,2}|heading)\s*(\d{1,3})(?:\D|$)`)
)

type compassRule struct {
	re  *regexp.Regexp
	deg float64
}

// compassWord wraps alternatives in letter boundaries so "северодонецк"
// never reads as "север".
func compassWord(alts string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}])(?:` + alts + `)(?:[^\p{L}]|$)`)
}

// Diagonals come first: "північно-східний" also contains "схід".
var compassRules = []compassRule{
	{compassWord(`північн\p{L}{0,2}[\s-]*сх\p{L}{2,6}|северо[\s-]*восто\p{L}{1,5}|north[\s-]*east\p{L}{0,3}`), 45},
	{compassWord(`південн\p{L}{0,2}[\s-]*сх\p{L}{2,6}|юго[\s-]*восто\p{L}{1,5}|south[\s-]*east\p{L}{0,3}`), 135},
	{compassWord(`південн\p{L}{0,2}[\s-]*зах\p{L}{1,6}|юго[\s-]*запад\p{L}{0,3}|south[\s-]*west\p{L}{0,3}`), 225},
	{compassWord(`північн\p{L}{0,2}[\s-]*зах\p{L}{1,6}|северо[\s-]*запад\p{L}{0,3}|north[\s-]*west\p{L}{0,3}`), 315},
	{compassWord(`північ\p{L}{0,4}|север\p{L}{0,3}|north\p{L}{0,4}`), 0},
	{compassWord(`схід|сход\p{L}{0,2}|східн\p{L}{0,3}|восто\p{L}{1,4}|east\p{L}{0,4}`), 90},
	{compassWord(`південь|півдн\p{L}{0,3}|південн\p{L}{0,3}|юг\p{L}{0,2}|south\p{L}{0,4}`), 180},
	{compassWord(`захід|заход\p{L}{0,2}|західн\p{L}{0,3}|запад\p{L}{0,3}|west\p{L}{0,4}`), 270},
}

// parseDirection reads an explicit heading from normalized text: a degree
// literal first, then a compass phrase.
func parseDirection(norm string) (float64, bool) {
	for _, re := range []*regexp.Regexp{degreeRe, headingRe} {
		if m := re.FindStringSubmatch(norm); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return normalizeDegrees(float64(v)), true
			}
		}
	}
	for _, r := range compassRules {
		if r.re.MatchString(norm) {
			return r.deg, true
		}
	}
	return 0, false
}

// resolveDirection applies the precedence preset > literal > compass >
// bearing from the track's base point to the first target.
func resolveDirection(own string, ec ExtractionContext, targets []target) *float64 {
	if ec.Direction != nil {
		d := normalizeDegrees(*ec.Direction)
		return &d
	}
	if d, ok := parseDirection(own); ok {
		return &d
	}
	if ec.AllowBearingFromBase && ec.BasePoint != nil && len(targets) > 0 {
		d := bearingDeg(*ec.BasePoint, targets[0].point)
		return &d
	}
	return nil
}
