package locations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "malaga", Normalize("  Málaga "))
	assert.Equal(t, "munchen", Normalize("MÜNCHEN"))
	assert.Equal(t, "new york", Normalize("New   York"))
	assert.Equal(t, "", Normalize("  "))
}

func TestDirectorySearchPrefersExactMatches(t *testing.T) {
	dir, err := DefaultDirectory()
	require.NoError(t, err)

	got, err := dir.Search(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "city:paris-fr", got[0].ID)
	assert.Equal(t, "city:paris-us", got[1].ID)
	assert.Equal(t, "Paris, Texas, United States", got[1].DisplayName)

	prefix, err := dir.Search(context.Background(), "ams")
	require.NoError(t, err)
	require.NotEmpty(t, prefix)
	assert.Equal(t, models.LocationAirport, prefix[0].Type)
	assert.Equal(t, "AMS", prefix[0].IATA)

	partial, err := dir.Search(context.Background(), "amster")
	require.NoError(t, err)
	require.NotEmpty(t, partial)
	assert.Equal(t, "city:amsterdam-nl", partial[0].ID)
}

func TestDirectoryNearestAirportsWithinRadius(t *testing.T) {
	dir, err := DefaultDirectory()
	require.NoError(t, err)

	nice, err := dir.City(context.Background(), "city:nice-fr")
	require.NoError(t, err)

	airports, err := dir.NearestAirports(context.Background(), *nice, 5)
	require.NoError(t, err)
	require.Len(t, airports, 1)
	assert.Equal(t, "NCE", airports[0].IATA)
	assert.Less(t, airports[0].DistanceKm, 10.0)

	london, err := dir.City(context.Background(), "city:london-gb")
	require.NoError(t, err)
	airports, err = dir.NearestAirports(context.Background(), *london, 0)
	require.NoError(t, err)
	require.Len(t, airports, DefaultAirportLimit)
	assert.Equal(t, "LCY", airports[0].IATA)
	for _, a := range airports {
		assert.LessOrEqual(t, a.DistanceKm, MaxAirportDistanceKm)
	}
}

func TestDirectoryTopCities(t *testing.T) {
	dir, err := DefaultDirectory()
	require.NoError(t, err)

	cities, err := dir.TopCities(context.Background(), "it", 2)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Rome", cities[0].Name)
	assert.Equal(t, "Milan", cities[1].Name)

	_, err = dir.TopCities(context.Background(), "XX", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewDirectorySourceRejectsDanglingCountry(t *testing.T) {
	_, err := NewDirectorySource([]byte(`{"countries":[],"cities":[{"id":"city:x","name":"X","country_code":"ZZ"}]}`))
	assert.Error(t, err)
}
