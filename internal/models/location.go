package models

type LocationType string

const (
	LocationCity    LocationType = "city"
	LocationAirport LocationType = "airport"
	LocationCountry LocationType = "country"
)

type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        LocationType `json:"type"`
	CountryCode string       `json:"country_code"`
	CountryName string       `json:"country_name"`
	IATA        string       `json:"iata,omitempty"`
	Lat         float64      `json:"lat"`
	Lng         float64      `json:"lng"`
	DisplayName string       `json:"display_name"`
	Timezone    string       `json:"timezone,omitempty"`
}

// IsAirport reports whether the location can be used directly as a search
// endpoint.
func (l *Location) IsAirport() bool {
	return l != nil && l.Type == LocationAirport && l.IATA != ""
}

type Airport struct {
	IATA        string  `json:"iata"`
	Name        string  `json:"name"`
	CityName    string  `json:"city_name,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	CountryName string  `json:"country_name,omitempty"`
	DistanceKm  float64 `json:"distance_km"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Timezone    string  `json:"timezone,omitempty"`
}

func (a Airport) Location() Location {
	display := a.Name + " (" + a.IATA + ")"
	if a.CityName != "" {
		display = a.CityName + " - " + display
	}
	return Location{
		ID:          "airport:" + a.IATA,
		Name:        a.Name,
		Type:        LocationAirport,
		CountryCode: a.CountryCode,
		CountryName: a.CountryName,
		IATA:        a.IATA,
		Lat:         a.Lat,
		Lng:         a.Lng,
		DisplayName: display,
		Timezone:    a.Timezone,
	}
}
