// Package locations turns free-text places into searchable airports. A
// country asks the user to pick a city, a city with several nearby airports
// asks the user to pick an airport, and anything else resolves directly.
package locations

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

const (
	// MaxAirportDistanceKm bounds which airports count as serving a city.
	MaxAirportDistanceKm = 150.0
	DefaultAirportLimit  = 3
	DefaultCityLimit     = 8
)

var ErrNotFound = errors.New("location not found")

// Source is a location lookup backend.
type Source interface {
	// Search returns countries, cities and airports matching query, most
	// relevant first.
	Search(ctx context.Context, query string) ([]models.Location, error)
	Airport(ctx context.Context, iata string) (*models.Airport, error)
	City(ctx context.Context, id string) (*models.Location, error)
	// NearestAirports returns up to limit airports within
	// MaxAirportDistanceKm of city, nearest first.
	NearestAirports(ctx context.Context, city models.Location, limit int) ([]models.Airport, error)
	TopCities(ctx context.Context, countryCode string, limit int) ([]models.Location, error)
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds case, accents and inner whitespace so "  Málaga " and
// "malaga" compare equal.
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
