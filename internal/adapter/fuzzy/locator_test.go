package fuzzy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
)

func newTestLocator() *Locator {
	return NewLocator(gazetteer.Default(), observability.NewMetricsForTesting())
}

func TestLocator_Geocode(t *testing.T) {
	l := newTestLocator()

	tests := []struct {
		query string
		want  string
	}{
		{"одеси", "Одеса"},
		{"харкова", "Харків"},
		{"Полтави", "Полтава"},
		{"селом полтави", "Полтава"},
		{"kharkov", "Харків"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := l.Geocode(context.Background(), tt.query)
			require.NoError(t, err)
			require.True(t, res.Found())
			assert.Equal(t, tt.want, res.Label)
			assert.Equal(t, "fuzzy", res.Provider)
		})
	}
}

func TestLocator_Geocode_NoMatch(t *testing.T) {
	l := newTestLocator()

	for _, q := range []string{"лондон", "zzz", "", "ха"} {
		res, err := l.Geocode(context.Background(), q)
		require.NoError(t, err)
		assert.False(t, res.Found(), q)
	}
}

func TestLocator_ExactKeyWins(t *testing.T) {
	l := newTestLocator()

	res, err := l.Geocode(context.Background(), "одеса")
	require.NoError(t, err)
	assert.Equal(t, "Одеса", res.Label)
	assert.Equal(t, 46.48, res.Lat)
	assert.Equal(t, 30.72, res.Lng)
}

func TestLocator_SkipsContextualPlaces(t *testing.T) {
	g := gazetteer.New(gazetteer.Tables{Places: []gazetteer.Place{
		{Name: "Веселе", Keys: []string{"веселе"}, Context: []string{"харківщин"}, Lat: 50.1, Lng: 36.9},
	}})
	l := NewLocator(g, observability.NewMetricsForTesting())

	res, err := l.Geocode(context.Background(), "веселого")
	require.NoError(t, err)
	assert.False(t, res.Found())
}

func TestLocator_InChain(t *testing.T) {
	chain := domain.ChainGeocoder{newTestLocator()}

	res, err := chain.Geocode(context.Background(), "сум")
	require.NoError(t, err)
	assert.False(t, res.Found(), "too short to match safely")

	res, err = chain.Geocode(context.Background(), "сумы")
	require.NoError(t, err)
	assert.Equal(t, "Суми", res.Label)
}

func TestMaxDistance(t *testing.T) {
	assert.Equal(t, 1, maxDistance(4))
	assert.Equal(t, 1, maxDistance(5))
	assert.Equal(t, 2, maxDistance(6))
}
