package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/httpclient"
	"github.com/dharmasatrya/tripplanner/internal/models"
)

// HTTPProvider talks to the external flight-search backend:
// POST {endpoint} with a JSON query, answered by {flights, count}.
//
// Each leg query is sent exactly once. A failed call is answered by the
// aggregator's placeholder fallback, so the provider keeps its own client
// with retries switched off.
type HTTPProvider struct {
	name     string
	endpoint string
	client   *httpclient.Client
}

func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   httpclient.New(httpclient.Config{Timeout: timeout, RetryMax: 0}),
	}
}

func (p *HTTPProvider) Name() string {
	return p.name
}

func (p *HTTPProvider) Search(ctx context.Context, q models.LegQuery) ([]models.FlightOffer, error) {
	var resp wireResponse
	if err := p.client.DoJSON(ctx, http.MethodPost, p.endpoint, newSearchPayload(q), &resp); err != nil {
		return nil, NewProviderError(p.name, err)
	}

	results := make([]models.FlightOffer, 0, len(resp.Flights))
	for _, f := range resp.Flights {
		if f.Currency == "" {
			f.Currency = q.Currency
		}
		if f.CabinClass == "" {
			f.CabinClass = q.CabinClass
		}
		offer, err := normalizeOffer(p.name, f)
		if err != nil {
			continue
		}
		results = append(results, offer)
	}

	if len(results) == 0 {
		return nil, NewProviderError(p.name, ErrNoResults)
	}
	return results, nil
}
