package models

import (
	"strings"
	"time"
)

type TripType string

const (
	TripOneWay           TripType = "one_way"
	TripRoundTrip        TripType = "round_trip"
	TripMultiDestination TripType = "multi_destination"
)

const (
	MinMultiDestinationLegs = 2
	MaxMultiDestinationLegs = 4
)

const DateLayout = "2006-01-02"

func (t TripType) Valid() bool {
	switch t {
	case TripOneWay, TripRoundTrip, TripMultiDestination:
		return true
	}
	return false
}

// LegCountValid reports whether n legs is an acceptable shape for the trip
// type.
func (t TripType) LegCountValid(n int) bool {
	switch t {
	case TripOneWay, TripRoundTrip:
		return n == 1
	case TripMultiDestination:
		return n >= MinMultiDestinationLegs && n <= MaxMultiDestinationLegs
	}
	return false
}

// FlightLeg is one origin/destination/date triple. From and To hold what
// the user typed; the resolved records live in FromLocation and ToLocation.
type FlightLeg struct {
	ID           string    `json:"id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Date         string    `json:"date,omitempty"`
	ReturnDate   string    `json:"return_date,omitempty"`
	FromLocation *Location `json:"from_location,omitempty"`
	ToLocation   *Location `json:"to_location,omitempty"`
}

// IsSearchReady is true only when both ends resolved to airports and the
// required dates are present.
func (l FlightLeg) IsSearchReady(roundTrip bool) bool {
	if !l.FromLocation.IsAirport() || !l.ToLocation.IsAirport() {
		return false
	}
	if strings.TrimSpace(l.Date) == "" {
		return false
	}
	if roundTrip && strings.TrimSpace(l.ReturnDate) == "" {
		return false
	}
	return true
}

func (l FlightLeg) Origin() string {
	if l.FromLocation == nil {
		return ""
	}
	return strings.ToUpper(l.FromLocation.IATA)
}

func (l FlightLeg) Destination() string {
	if l.ToLocation == nil {
		return ""
	}
	return strings.ToUpper(l.ToLocation.IATA)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
