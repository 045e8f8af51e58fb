package locations

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/httpclient"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
)

// HTTPSource queries a remote location service:
//
//	GET /search?q=                         {"results": [Location]}
//	GET /airports/{iata}                   Airport
//	GET /cities/{id}                       Location
//	GET /airports/nearest?lat=&lng=&...    {"airports": [Airport]}
//	GET /countries/{code}/cities?limit=    {"cities": [Location]}
//
// A 404 maps to ErrNotFound.
type HTTPSource struct {
	baseURL string
	client  *httpclient.Client
	limiter *ratelimit.BackendLimiter
}

func NewHTTPSource(baseURL string, client *httpclient.Client, limiter *ratelimit.BackendLimiter) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: limiter,
	}
}

func (s *HTTPSource) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := s.limiter.Wait(ctx, ratelimit.BackendLocations); err != nil {
		return err
	}
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	err := s.client.DoJSON(ctx, http.MethodGet, u, nil, out)
	if httpclient.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *HTTPSource) Search(ctx context.Context, query string) ([]models.Location, error) {
	var resp struct {
		Results []models.Location `json:"results"`
	}
	if err := s.get(ctx, "/search", url.Values{"q": {query}}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (s *HTTPSource) Airport(ctx context.Context, iata string) (*models.Airport, error) {
	var airport models.Airport
	if err := s.get(ctx, "/airports/"+url.PathEscape(strings.ToUpper(iata)), nil, &airport); err != nil {
		return nil, err
	}
	if airport.IATA == "" {
		return nil, ErrNotFound
	}
	return &airport, nil
}

func (s *HTTPSource) City(ctx context.Context, id string) (*models.Location, error) {
	var city models.Location
	if err := s.get(ctx, "/cities/"+url.PathEscape(id), nil, &city); err != nil {
		return nil, err
	}
	if city.ID == "" {
		return nil, ErrNotFound
	}
	return &city, nil
}

func (s *HTTPSource) NearestAirports(ctx context.Context, city models.Location, limit int) ([]models.Airport, error) {
	if limit <= 0 {
		limit = DefaultAirportLimit
	}
	q := url.Values{
		"lat":       {strconv.FormatFloat(city.Lat, 'f', 4, 64)},
		"lng":       {strconv.FormatFloat(city.Lng, 'f', 4, 64)},
		"radius_km": {strconv.FormatFloat(MaxAirportDistanceKm, 'f', 0, 64)},
		"limit":     {strconv.Itoa(limit)},
	}
	var resp struct {
		Airports []models.Airport `json:"airports"`
	}
	if err := s.get(ctx, "/airports/nearest", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Airports) > limit {
		resp.Airports = resp.Airports[:limit]
	}
	return resp.Airports, nil
}

func (s *HTTPSource) TopCities(ctx context.Context, countryCode string, limit int) ([]models.Location, error) {
	if limit <= 0 {
		limit = DefaultCityLimit
	}
	var resp struct {
		Cities []models.Location `json:"cities"`
	}
	path := "/countries/" + url.PathEscape(strings.ToUpper(countryCode)) + "/cities"
	if err := s.get(ctx, path, url.Values{"limit": {strconv.Itoa(limit)}}, &resp); err != nil {
		return nil, err
	}
	return resp.Cities, nil
}
