package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/locations"
)

func resolve(t *testing.T, srv *testServer, q string) locations.Resolution {
	t.Helper()
	rec := srv.do(t, http.MethodGet, "/api/v1/locations/resolve?q="+url.QueryEscape(q), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res locations.Resolution
	decode(t, rec, &res)
	return res
}

func TestResolve_CountryThenCityThenAirport(t *testing.T) {
	srv := newTestServer(t, "")

	res := resolve(t, srv, "France")
	require.NotNil(t, res.Disambiguation)
	assert.Equal(t, locations.ChooseCity, res.Disambiguation.Type)
	require.NotEmpty(t, res.Disambiguation.Cities)
	paris := res.Disambiguation.Cities[0]
	assert.Equal(t, "Paris", paris.Name)

	rec := srv.do(t, http.MethodGet, "/api/v1/locations/cities/"+paris.ID+"/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var next locations.Resolution
	decode(t, rec, &next)
	require.NotNil(t, next.Disambiguation)
	assert.Equal(t, locations.ChooseAirport, next.Disambiguation.Type)
	require.NotNil(t, next.Disambiguation.Recommended)

	rec = srv.do(t, http.MethodGet, "/api/v1/locations/airports/"+next.Disambiguation.Recommended.IATA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var final locations.Resolution
	decode(t, rec, &final)
	require.NotNil(t, final.Location)
	assert.True(t, final.Location.IsAirport())
}

func TestResolve_SingleAirportCity(t *testing.T) {
	srv := newTestServer(t, "")

	res := resolve(t, srv, "Nice")
	require.NotNil(t, res.Location)
	assert.Nil(t, res.Disambiguation)
	assert.Equal(t, "NCE", res.Location.IATA)
}

func TestResolve_Hint(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/v1/locations/resolve?q=Paris&hint=us", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res locations.Resolution
	decode(t, rec, &res)
	require.NotNil(t, res.Location)
	assert.Equal(t, "PRX", res.Location.IATA)
}

func TestResolve_Errors(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/v1/locations/resolve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/locations/resolve?q=Atlantis", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "resolution_failed", errorCode(t, rec))

	rec = srv.do(t, http.MethodGet, "/api/v1/locations/airports/ZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "location_not_found", errorCode(t, rec))
}

func TestDefaultOrigin_NoLookupConfigured(t *testing.T) {
	srv := newTestServer(t, "")

	rec := srv.do(t, http.MethodGet, "/api/v1/locations/default-origin", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
