package domain

import "math"

const earthRadiusKm = 6371.0

func haversineKm(a, b GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// bearingDeg returns the initial great-circle bearing from one point to
// another, normalized to [0,360).
func bearingDeg(from, to GeoPoint) float64 {
	lat1 := toRad(from.Lat)
	lat2 := toRad(to.Lat)
	dLng := toRad(to.Lng - from.Lng)
	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return normalizeDegrees(toDeg(math.Atan2(y, x)))
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }
