package domain

import (
	"context"
	"errors"
)

// GeocodingResult contains location data returned by a geocoding provider.
// A zero result means the provider found nothing.
type GeocodingResult struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Label    string  `json:"label"`
	Provider string  `json:"provider"`
}

// Found reports whether the result carries a point.
func (r GeocodingResult) Found() bool {
	return r.Lat != 0 || r.Lng != 0
}

// Geocoder resolves a free-text place phrase to a point.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodingResult, error)
}

// ChainGeocoder asks each geocoder in turn and returns the first hit.
// Errors from earlier links are only returned if no later link succeeds.
type ChainGeocoder []Geocoder

func (c ChainGeocoder) Geocode(ctx context.Context, query string) (GeocodingResult, error) {
	var errs []error
	for _, g := range c {
		res, err := g.Geocode(ctx, query)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.Found() {
			return res, nil
		}
	}
	return GeocodingResult{}, errors.Join(errs...)
}
