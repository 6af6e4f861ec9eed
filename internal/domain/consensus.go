package domain

import "time"

// RefineOptions configures Refine. Zero values select the defaults.
type RefineOptions struct {
	Window   time.Duration
	RadiusKm float64
}

// DefaultRefineOptions returns the production consensus window and radius.
func DefaultRefineOptions() RefineOptions {
	return RefineOptions{Window: 6 * time.Minute, RadiusKm: 80}
}

// Refine moves each event to the mean position of itself and its same-type
// peers within the window and radius. Peers are found against the input
// positions, so the result does not depend on event order. Direction is
// left untouched.
func Refine(events []Event, opts RefineOptions) []Event {
	def := DefaultRefineOptions()
	if opts.Window <= 0 {
		opts.Window = def.Window
	}
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = def.RadiusKm
	}

	out := make([]Event, len(events))
	copy(out, events)
	for i, cur := range events {
		sumLat, sumLng, n := cur.Lat, cur.Lng, 1
		for j, peer := range events {
			if i == j || peer.Type != cur.Type {
				continue
			}
			dt := peer.Timestamp.Sub(cur.Timestamp)
			if dt < 0 {
				dt = -dt
			}
			if dt > opts.Window || haversineKm(cur.point(), peer.point()) > opts.RadiusKm {
				continue
			}
			sumLat += peer.Lat
			sumLng += peer.Lng
			n++
		}
		if n == 1 {
			continue
		}
		out[i].Lat = round4(sumLat / float64(n))
		out[i].Lng = round4(sumLng / float64(n))
	}
	return out
}
