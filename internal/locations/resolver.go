package locations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

var ErrResolutionFailed = errors.New("location could not be resolved")

type DisambiguationType string

const (
	ChooseCity    DisambiguationType = "choose-city"
	ChooseAirport DisambiguationType = "choose-airport"
)

// Hint biases resolution between equally named places.
type Hint struct {
	CountryCode string
}

// Disambiguation asks the user to narrow a country down to a city, or a
// city down to one of its airports.
type Disambiguation struct {
	Type        DisambiguationType `json:"type"`
	Query       string             `json:"query"`
	Country     *models.Location   `json:"country,omitempty"`
	City        *models.Location   `json:"city,omitempty"`
	Cities      []models.Location  `json:"cities,omitempty"`
	Airports    []models.Airport   `json:"airports,omitempty"`
	Recommended *models.Airport    `json:"recommended,omitempty"`
}

// Resolution carries exactly one of Location or Disambiguation.
type Resolution struct {
	Location       *models.Location `json:"location,omitempty"`
	Disambiguation *Disambiguation  `json:"disambiguation,omitempty"`
}

var (
	bareIATA   = regexp.MustCompile(`^[A-Z]{3}$`)
	parenIATA  = regexp.MustCompile(`\(([A-Za-z]{3})\)\s*$`)
	parenStrip = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

type Resolver struct {
	source       Source
	log          *logger.Logger
	airportLimit int
	cityLimit    int
}

func NewResolver(source Source, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		source:       source,
		log:          log,
		airportLimit: DefaultAirportLimit,
		cityLimit:    DefaultCityLimit,
	}
}

// Resolve maps free text to an airport location or a disambiguation step.
// Every failure wraps ErrResolutionFailed.
func (r *Resolver) Resolve(ctx context.Context, text string, hint Hint) (*Resolution, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrResolutionFailed)
	}

	if code := iataCode(query); code != "" {
		airport, err := r.source.Airport(ctx, code)
		switch {
		case err == nil:
			loc := airport.Location()
			return &Resolution{Location: &loc}, nil
		case !errors.Is(err, ErrNotFound):
			return nil, r.fail(query, err)
		}
		query = strings.TrimSpace(parenStrip.ReplaceAllString(query, ""))
		if query == "" {
			return nil, fmt.Errorf("%w: unknown airport %s", ErrResolutionFailed, code)
		}
	}

	matches, err := r.source.Search(ctx, query)
	if err != nil {
		return nil, r.fail(query, err)
	}

	var cities, airports []models.Location
	for i := range matches {
		m := matches[i]
		switch m.Type {
		case models.LocationCountry:
			return r.chooseCity(ctx, query, m)
		case models.LocationCity:
			cities = append(cities, m)
		case models.LocationAirport:
			airports = append(airports, m)
		}
	}

	if len(cities) > 0 {
		preferCountry(cities, hint.CountryCode)
		return r.cityResolution(ctx, query, cities[0])
	}
	if len(airports) > 0 {
		preferCountry(airports, hint.CountryCode)
		return &Resolution{Location: &airports[0]}, nil
	}
	return nil, fmt.Errorf("%w: no match for %q", ErrResolutionFailed, query)
}

// ResolveCity continues after the user picked a city from a choose-city
// step.
func (r *Resolver) ResolveCity(ctx context.Context, cityID string) (*Resolution, error) {
	city, err := r.source.City(ctx, cityID)
	if err != nil {
		return nil, r.fail(cityID, err)
	}
	return r.cityResolution(ctx, city.Name, *city)
}

// ResolveAirport finalizes a choose-airport step.
func (r *Resolver) ResolveAirport(ctx context.Context, iata string) (*models.Location, error) {
	airport, err := r.source.Airport(ctx, iata)
	if err != nil {
		return nil, r.fail(iata, err)
	}
	loc := airport.Location()
	return &loc, nil
}

func (r *Resolver) chooseCity(ctx context.Context, query string, country models.Location) (*Resolution, error) {
	cities, err := r.source.TopCities(ctx, country.CountryCode, r.cityLimit)
	if err != nil {
		return nil, r.fail(query, err)
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: no cities known for %s", ErrResolutionFailed, country.Name)
	}
	return &Resolution{Disambiguation: &Disambiguation{
		Type:    ChooseCity,
		Query:   query,
		Country: &country,
		Cities:  cities,
	}}, nil
}

func (r *Resolver) cityResolution(ctx context.Context, query string, city models.Location) (*Resolution, error) {
	airports, err := r.source.NearestAirports(ctx, city, r.airportLimit)
	if err != nil {
		return nil, r.fail(query, err)
	}

	switch len(airports) {
	case 0:
		return nil, fmt.Errorf("%w: no airport near %s", ErrResolutionFailed, city.DisplayName)
	case 1:
		loc := airports[0].Location()
		return &Resolution{Location: &loc}, nil
	}

	recommended := airports[0]
	return &Resolution{Disambiguation: &Disambiguation{
		Type:        ChooseAirport,
		Query:       query,
		City:        &city,
		Airports:    airports,
		Recommended: &recommended,
	}}, nil
}

func (r *Resolver) fail(query string, err error) error {
	if !errors.Is(err, ErrNotFound) {
		r.log.Warn("location lookup failed", "query", query, "error", err)
	}
	return fmt.Errorf("%w: %s: %w", ErrResolutionFailed, query, err)
}

// iataCode extracts an airport code from "CDG" or "Paris (CDG)".
func iataCode(text string) string {
	if bareIATA.MatchString(text) {
		return text
	}
	if m := parenIATA.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

func preferCountry(locs []models.Location, countryCode string) {
	if countryCode == "" {
		return
	}
	sort.SliceStable(locs, func(i, j int) bool {
		return strings.EqualFold(locs[i].CountryCode, countryCode) &&
			!strings.EqualFold(locs[j].CountryCode, countryCode)
	})
}
