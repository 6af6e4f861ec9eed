package domain

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// eventID produces a deterministic ID from the candidate seed. The same
// message re-extracted with the same context always maps to the same id, so
// downstream consumers can upsert idempotently.
func eventID(t ThreatType, seed string) string {
	hash := sha256.Sum256([]byte(seed))
	return string(t) + "-" + hex.EncodeToString(hash[:8])
}

// jitter offsets an approximate point by up to ±0.2° per axis. The offset is
// derived from the seed so repeated extraction lands on the same spot.
func jitter(p GeoPoint, seed string) GeoPoint {
	h := xxh3.Hash([]byte(seed))
	return GeoPoint{
		Lat: round4(p.Lat + offset(uint32(h))),
		Lng: round4(p.Lng + offset(uint32(h>>32))),
	}
}

func offset(n uint32) float64 {
	return (float64(n%1000)/1000 - 0.5) * 0.4
}
