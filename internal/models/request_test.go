package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func airport(code string) *Location {
	return &Location{ID: "airport:" + code, Name: code, Type: LocationAirport, IATA: code}
}

func readyLeg(from, to, date string) FlightLeg {
	return FlightLeg{From: from, To: to, Date: date, FromLocation: airport(from), ToLocation: airport(to)}
}

func TestSearchRequestValidateDefaults(t *testing.T) {
	req := SearchRequest{Legs: []FlightLeg{readyLeg("CDG", "NCE", "2026-11-02")}}

	require.NoError(t, req.Validate())
	assert.Equal(t, TripOneWay, req.TripType)
	assert.Equal(t, 1, req.Passengers.Adults)
	assert.Equal(t, "economy", req.CabinClass)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, "price", req.SortBy)
	assert.Equal(t, "asc", req.SortOrder)
}

func TestSearchRequestInfersTripType(t *testing.T) {
	round := readyLeg("CDG", "NCE", "2026-11-02")
	round.ReturnDate = "2026-11-09"
	req := SearchRequest{Legs: []FlightLeg{round}}
	require.NoError(t, req.Validate())
	assert.Equal(t, TripRoundTrip, req.TripType)

	multi := SearchRequest{Legs: []FlightLeg{
		readyLeg("CDG", "FCO", "2026-11-02"),
		readyLeg("FCO", "ATH", "2026-11-06"),
	}}
	require.NoError(t, multi.Validate())
	assert.Equal(t, TripMultiDestination, multi.TripType)
}

func TestSearchRequestValidateErrors(t *testing.T) {
	leg := readyLeg("CDG", "NCE", "2026-11-02")
	five := []FlightLeg{leg, leg, leg, leg, leg}

	unresolved := leg
	unresolved.ToLocation = &Location{Type: LocationCity, Name: "Nice"}

	missingReturn := leg

	backwards := leg
	backwards.ReturnDate = "2026-10-30"

	tests := []struct {
		name string
		req  SearchRequest
		want error
	}{
		{"no legs", SearchRequest{}, ErrMissingLegs},
		{"bad trip type", SearchRequest{TripType: "helicopter", Legs: []FlightLeg{leg}}, ErrInvalidTripType},
		{"one way with two legs", SearchRequest{TripType: TripOneWay, Legs: []FlightLeg{leg, leg}}, ErrLegCount},
		{"multi with one leg", SearchRequest{TripType: TripMultiDestination, Legs: []FlightLeg{leg}}, ErrLegCount},
		{"multi with five legs", SearchRequest{TripType: TripMultiDestination, Legs: five}, ErrLegCount},
		{"bad cabin", SearchRequest{Legs: []FlightLeg{leg}, CabinClass: "cargo"}, ErrInvalidCabinClass},
		{"round trip without return", SearchRequest{TripType: TripRoundTrip, Legs: []FlightLeg{missingReturn}}, &LegNotReadyError{Index: 0}},
		{"return before departure", SearchRequest{TripType: TripRoundTrip, Legs: []FlightLeg{backwards}}, ErrReturnBeforeDeparture},
		{"city instead of airport", SearchRequest{Legs: []FlightLeg{unresolved}}, &LegNotReadyError{Index: 0}},
		{"bad date", SearchRequest{Legs: []FlightLeg{readyLeg("CDG", "NCE", "02/11/2026")}}, ErrInvalidDate},
		{"too many infants", SearchRequest{Legs: []FlightLeg{leg}, Passengers: Passengers{Adults: 1, Infants: 2}}, ErrInvalidPassengers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)

			var notReady *LegNotReadyError
			if want, ok := tt.want.(*LegNotReadyError); ok {
				require.True(t, errors.As(err, &notReady))
				assert.Equal(t, want.Index, notReady.Index)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLegQueries(t *testing.T) {
	req := SearchRequest{
		TripType:   TripMultiDestination,
		Legs:       []FlightLeg{readyLeg("cdg", "fco", "2026-11-02"), readyLeg("FCO", "ATH", "2026-11-06")},
		Passengers: Passengers{Adults: 2, Children: 1},
	}
	require.NoError(t, req.Validate())

	queries := req.LegQueries()
	require.Len(t, queries, 2)
	assert.Equal(t, "CDG", queries[0].Origin)
	assert.Equal(t, "FCO", queries[0].Destination)
	assert.Equal(t, "ATH", queries[1].Destination)
	assert.Equal(t, 3, queries[1].Passengers.Travelers())
}
