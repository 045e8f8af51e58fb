package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, "")
	id := srv.createSession(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view sessionView
	decode(t, rec, &view)
	assert.Equal(t, id, view.ID)
	assert.True(t, view.Preferences.NeedsOnboarding)
	assert.Equal(t, "trip_type", view.Questionnaire.Step)
	assert.False(t, view.Trip.Ready)

	rec = srv.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", errorCode(t, rec))
}

func TestTripSelection(t *testing.T) {
	srv := newTestServer(t, "")
	id := srv.createSession(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/trip", tripRequest{
		TripType: models.TripMultiDestination,
		Legs: []models.FlightLeg{
			leg("CDG", "FCO", "2031-06-01", ""),
			leg("FCO", "ATH", "2031-06-04", ""),
		},
		Passengers: models.Passengers{Adults: 2},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var planned tripView
	decode(t, rec, &planned)
	assert.True(t, planned.Ready)
	require.Len(t, planned.Legs, 2)
	assert.NotEmpty(t, planned.Legs[0].ID)

	rec = srv.do(t, http.MethodPost, "/api/v1/flights/search", map[string]string{"session_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.SearchResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Legs, 2)
	assert.Equal(t, planned.Legs[0].ID, resp.Legs[0].LegID)

	first := resp.Legs[0].Offers[0]
	second := resp.Legs[1].Offers[0]

	rec = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/trip/selection", selectionRequest{Leg: 0, OfferID: first.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var afterFirst tripView
	decode(t, rec, &afterFirst)
	assert.False(t, afterFirst.Complete)
	assert.Nil(t, afterFirst.Total)
	assert.Equal(t, 1, afterFirst.Selection.Viewing)

	rec = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/trip/selection", selectionRequest{Leg: 1, OfferID: second.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var done tripView
	decode(t, rec, &done)
	assert.True(t, done.Complete)
	require.NotNil(t, done.Total)
	assert.Equal(t, (first.Price.Amount+second.Price.Amount)*2, done.Total.Amount)
	assert.Equal(t, 2, done.Total.Travelers)

	t.Run("unknown offer", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/trip/selection", selectionRequest{Leg: 0, OfferID: "nope"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "offer_not_found", errorCode(t, rec))
	})

	t.Run("viewing out of range", func(t *testing.T) {
		rec := srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/trip/viewing", viewingRequest{Leg: 5})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "leg_out_of_range", errorCode(t, rec))
	})

	t.Run("clear selection", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, "/api/v1/sessions/"+id+"/trip/selection/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var v tripView
		decode(t, rec, &v)
		assert.False(t, v.Complete)
	})

	t.Run("replacing legs drops results", func(t *testing.T) {
		rec := srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/trip", tripRequest{
			TripType: models.TripOneWay,
			Legs:     []models.FlightLeg{leg("CDG", "NCE", "2031-06-01", "")},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/trip/selection", selectionRequest{Leg: 0, OfferID: first.ID})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTrip_InvalidLegCount(t *testing.T) {
	srv := newTestServer(t, "")
	id := srv.createSession(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/trip", tripRequest{
		TripType: models.TripMultiDestination,
		Legs:     []models.FlightLeg{leg("CDG", "FCO", "2031-06-01", "")},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}
