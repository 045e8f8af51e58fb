package locations

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/geo"
)

//go:embed data/directory.json
var directoryData []byte

type countryRecord struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
}

type cityRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CountryCode string   `json:"country_code"`
	Region      string   `json:"region"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Timezone    string   `json:"timezone"`
	Rank        int      `json:"rank"`
	Aliases     []string `json:"aliases"`
}

type airportRecord struct {
	IATA        string  `json:"iata"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	CountryCode string  `json:"country_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Timezone    string  `json:"timezone"`
}

type directoryFile struct {
	Countries []countryRecord `json:"countries"`
	Cities    []cityRecord    `json:"cities"`
	Airports  []airportRecord `json:"airports"`
}

// DirectorySource answers lookups from the bundled dataset.
type DirectorySource struct {
	countries map[string]countryRecord
	cities    []cityRecord
	cityByID  map[string]cityRecord
	airports  map[string]airportRecord
	order     []string
}

var (
	defaultDirectory     *DirectorySource
	defaultDirectoryErr  error
	defaultDirectoryOnce sync.Once
)

// DefaultDirectory parses the bundled dataset once and shares it.
func DefaultDirectory() (*DirectorySource, error) {
	defaultDirectoryOnce.Do(func() {
		defaultDirectory, defaultDirectoryErr = NewDirectorySource(directoryData)
	})
	return defaultDirectory, defaultDirectoryErr
}

func NewDirectorySource(data []byte) (*DirectorySource, error) {
	var file directoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse location directory: %w", err)
	}

	d := &DirectorySource{
		countries: make(map[string]countryRecord, len(file.Countries)),
		cityByID:  make(map[string]cityRecord, len(file.Cities)),
		airports:  make(map[string]airportRecord, len(file.Airports)),
	}
	for _, c := range file.Countries {
		d.countries[strings.ToUpper(c.Code)] = c
	}
	for _, c := range file.Cities {
		if _, ok := d.countries[c.CountryCode]; !ok {
			return nil, fmt.Errorf("city %s references unknown country %s", c.ID, c.CountryCode)
		}
		d.cityByID[c.ID] = c
	}
	d.cities = append(d.cities, file.Cities...)
	sort.SliceStable(d.cities, func(i, j int) bool { return d.cities[i].Rank < d.cities[j].Rank })

	for _, a := range file.Airports {
		code := strings.ToUpper(a.IATA)
		d.airports[code] = a
		d.order = append(d.order, code)
	}
	sort.Strings(d.order)
	return d, nil
}

func (d *DirectorySource) Search(ctx context.Context, query string) ([]models.Location, error) {
	q := Normalize(query)
	if q == "" {
		return nil, nil
	}

	if exact := d.match(q, func(name string) bool { return name == q }); len(exact) > 0 {
		return exact, nil
	}
	if len(q) < 2 {
		return nil, nil
	}
	return d.match(q, func(name string) bool { return strings.HasPrefix(name, q) }), nil
}

// match returns countries, then cities by rank, then airports, whose name
// or alias satisfies ok.
func (d *DirectorySource) match(q string, ok func(name string) bool) []models.Location {
	anyName := func(name string, aliases []string) bool {
		if ok(Normalize(name)) {
			return true
		}
		for _, a := range aliases {
			if ok(Normalize(a)) {
				return true
			}
		}
		return false
	}

	var out []models.Location

	codes := make([]string, 0, len(d.countries))
	for code := range d.countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		c := d.countries[code]
		if anyName(c.Name, c.Aliases) {
			out = append(out, d.countryLocation(c))
		}
	}

	for _, c := range d.cities {
		if anyName(c.Name, c.Aliases) {
			out = append(out, d.cityLocation(c))
		}
	}

	for _, code := range d.order {
		a := d.airports[code]
		if ok(strings.ToLower(code)) || anyName(a.Name, nil) {
			out = append(out, d.airport(a, 0).Location())
		}
	}
	return out
}

func (d *DirectorySource) Airport(ctx context.Context, iata string) (*models.Airport, error) {
	a, ok := d.airports[strings.ToUpper(strings.TrimSpace(iata))]
	if !ok {
		return nil, ErrNotFound
	}
	airport := d.airport(a, 0)
	return &airport, nil
}

func (d *DirectorySource) City(ctx context.Context, id string) (*models.Location, error) {
	c, ok := d.cityByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	loc := d.cityLocation(c)
	return &loc, nil
}

func (d *DirectorySource) NearestAirports(ctx context.Context, city models.Location, limit int) ([]models.Airport, error) {
	if limit <= 0 {
		limit = DefaultAirportLimit
	}
	from := geo.Coordinates{Lat: city.Lat, Lng: city.Lng}
	if !from.IsValid() {
		return nil, fmt.Errorf("invalid coordinates for %s", city.ID)
	}

	var out []models.Airport
	for _, code := range d.order {
		a := d.airports[code]
		km := geo.DistanceKm(from, geo.Coordinates{Lat: a.Lat, Lng: a.Lng})
		if km <= MaxAirportDistanceKm {
			out = append(out, d.airport(a, km))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *DirectorySource) TopCities(ctx context.Context, countryCode string, limit int) ([]models.Location, error) {
	code := strings.ToUpper(countryCode)
	if _, ok := d.countries[code]; !ok {
		return nil, ErrNotFound
	}
	if limit <= 0 {
		limit = DefaultCityLimit
	}

	var out []models.Location
	for _, c := range d.cities {
		if c.CountryCode != code {
			continue
		}
		out = append(out, d.cityLocation(c))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (d *DirectorySource) countryLocation(c countryRecord) models.Location {
	return models.Location{
		ID:          "country:" + c.Code,
		Name:        c.Name,
		Type:        models.LocationCountry,
		CountryCode: c.Code,
		CountryName: c.Name,
		Lat:         c.Lat,
		Lng:         c.Lng,
		DisplayName: c.Name,
	}
}

func (d *DirectorySource) cityLocation(c cityRecord) models.Location {
	country := d.countries[c.CountryCode]
	display := c.Name + ", " + country.Name
	if c.Region != "" {
		display = c.Name + ", " + c.Region + ", " + country.Name
	}
	return models.Location{
		ID:          c.ID,
		Name:        c.Name,
		Type:        models.LocationCity,
		CountryCode: c.CountryCode,
		CountryName: country.Name,
		Lat:         c.Lat,
		Lng:         c.Lng,
		DisplayName: display,
		Timezone:    c.Timezone,
	}
}

func (d *DirectorySource) airport(a airportRecord, km float64) models.Airport {
	return models.Airport{
		IATA:        strings.ToUpper(a.IATA),
		Name:        a.Name,
		CityName:    a.City,
		CountryCode: a.CountryCode,
		CountryName: d.countries[a.CountryCode].Name,
		DistanceKm:  roundKm(km),
		Lat:         a.Lat,
		Lng:         a.Lng,
		Timezone:    a.Timezone,
	}
}

func roundKm(km float64) float64 {
	return float64(int(km*10+0.5)) / 10
}
