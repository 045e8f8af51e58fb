package models

import (
	"fmt"
	"strings"
)

type SearchFilters struct {
	PriceMin         *float64 `json:"price_min,omitempty"`
	PriceMax         *float64 `json:"price_max,omitempty"`
	MaxStops         *int     `json:"max_stops,omitempty"`
	Airlines         []string `json:"airlines,omitempty"`
	DepartureTimeMin *string  `json:"departure_time_min,omitempty"`
	DepartureTimeMax *string  `json:"departure_time_max,omitempty"`
	ArrivalTimeMin   *string  `json:"arrival_time_min,omitempty"`
	ArrivalTimeMax   *string  `json:"arrival_time_max,omitempty"`
	MaxDuration      *int     `json:"max_duration,omitempty"`
}

type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children,omitempty"`
	Infants  int `json:"infants,omitempty"`
}

// Travelers is the headcount used when pricing a combined selection.
func (p Passengers) Travelers() int {
	return p.Adults + p.Children + p.Infants
}

var cabinClasses = map[string]bool{
	"economy":         true,
	"premium_economy": true,
	"business":        true,
	"first":           true,
}

type SearchRequest struct {
	TripType   TripType       `json:"trip_type"`
	Legs       []FlightLeg    `json:"legs"`
	Passengers Passengers     `json:"passengers"`
	CabinClass string         `json:"cabin_class"`
	Currency   string         `json:"currency,omitempty"`
	Locale     string         `json:"locale,omitempty"`
	Filters    *SearchFilters `json:"filters,omitempty"`
	SortBy     string         `json:"sort_by,omitempty"`
	SortOrder  string         `json:"sort_order,omitempty"`
}

// Validate fills defaults and checks the trip shape. It does not resolve
// anything: legs must arrive with airport-level locations already attached.
func (r *SearchRequest) Validate() error {
	if r.TripType == "" {
		switch {
		case len(r.Legs) > 1:
			r.TripType = TripMultiDestination
		case len(r.Legs) == 1 && r.Legs[0].ReturnDate != "":
			r.TripType = TripRoundTrip
		default:
			r.TripType = TripOneWay
		}
	}
	if !r.TripType.Valid() {
		return ErrInvalidTripType
	}
	if len(r.Legs) == 0 {
		return ErrMissingLegs
	}
	if !r.TripType.LegCountValid(len(r.Legs)) {
		return ErrLegCount
	}

	if r.Passengers.Adults <= 0 {
		r.Passengers.Adults = 1
	}
	if r.Passengers.Children < 0 || r.Passengers.Infants < 0 {
		return ErrInvalidPassengers
	}
	if r.Passengers.Infants > r.Passengers.Adults {
		return ErrInvalidPassengers
	}

	r.CabinClass = strings.ToLower(strings.TrimSpace(r.CabinClass))
	if r.CabinClass == "" {
		r.CabinClass = "economy"
	}
	if !cabinClasses[r.CabinClass] {
		return ErrInvalidCabinClass
	}
	if r.Currency == "" {
		r.Currency = "EUR"
	}
	r.Currency = strings.ToUpper(r.Currency)
	if r.Locale == "" {
		r.Locale = "en"
	}
	if r.SortBy == "" {
		r.SortBy = "price"
	}
	if r.SortOrder == "" {
		r.SortOrder = "asc"
	}

	roundTrip := r.TripType == TripRoundTrip
	for i, leg := range r.Legs {
		if !leg.IsSearchReady(roundTrip) {
			return &LegNotReadyError{Index: i}
		}
		dep, err := ParseDate(leg.Date)
		if err != nil {
			return ErrInvalidDate
		}
		if roundTrip {
			ret, err := ParseDate(leg.ReturnDate)
			if err != nil {
				return ErrInvalidDate
			}
			if ret.Before(dep) {
				return ErrReturnBeforeDeparture
			}
		} else if leg.ReturnDate != "" {
			return ErrUnexpectedReturnDate
		}
	}
	return nil
}

// LegQueries builds one backend query per leg, in leg order.
func (r SearchRequest) LegQueries() []LegQuery {
	queries := make([]LegQuery, len(r.Legs))
	for i, leg := range r.Legs {
		queries[i] = LegQuery{
			Origin:        leg.Origin(),
			Destination:   leg.Destination(),
			DepartureDate: leg.Date,
			ReturnDate:    leg.ReturnDate,
			Passengers:    r.Passengers,
			CabinClass:    r.CabinClass,
			Currency:      r.Currency,
			Locale:        r.Locale,
		}
	}
	return queries
}

// LegQuery is what a provider receives for a single leg.
type LegQuery struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate string     `json:"departure_date"`
	ReturnDate    string     `json:"return_date,omitempty"`
	Passengers    Passengers `json:"passengers"`
	CabinClass    string     `json:"cabin_class"`
	Currency      string     `json:"currency"`
	Locale        string     `json:"locale"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrInvalidTripType       ValidationError = "trip_type must be one_way, round_trip or multi_destination"
	ErrMissingLegs           ValidationError = "at least one leg is required"
	ErrLegCount              ValidationError = "leg count does not match trip_type"
	ErrInvalidPassengers     ValidationError = "passenger counts are invalid"
	ErrInvalidCabinClass     ValidationError = "cabin_class must be economy, premium_economy, business or first"
	ErrInvalidDate           ValidationError = "dates must use YYYY-MM-DD"
	ErrReturnBeforeDeparture ValidationError = "return_date is before date"
	ErrUnexpectedReturnDate  ValidationError = "return_date is only allowed on round trips"
)

// LegNotReadyError reports a leg whose endpoints are not resolved to
// airports or whose dates are missing.
type LegNotReadyError struct {
	Index int
}

func (e *LegNotReadyError) Error() string {
	return fmt.Sprintf("leg %d is not search-ready: both ends must be airports and dates must be set", e.Index)
}
