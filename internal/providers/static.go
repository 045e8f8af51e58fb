package providers

import (
	"context"
	_ "embed"
	"encoding/json"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/timezone"
)

//go:embed data/flights.json
var fixtureData []byte

// Fixture timestamps are anchored on this day and moved onto the requested
// date at search time.
const fixtureDay = 1

// StaticProvider serves the bundled fixture schedule. It stands in for the
// flight-search backend when none is configured.
type StaticProvider struct {
	flights    []wireOffer
	maxLatency time.Duration
}

func NewStaticProvider(maxLatency time.Duration) (*StaticProvider, error) {
	var resp wireResponse
	if err := json.Unmarshal(fixtureData, &resp); err != nil {
		return nil, err
	}
	return &StaticProvider{flights: resp.Flights, maxLatency: maxLatency}, nil
}

func (p *StaticProvider) Name() string {
	return "static"
}

func (p *StaticProvider) Search(ctx context.Context, q models.LegQuery) ([]models.FlightOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.maxLatency > 0 {
		delay := time.Duration(rand.Int63n(int64(p.maxLatency)))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	depDate, err := models.ParseDate(q.DepartureDate)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	var returns []wireOffer
	if q.ReturnDate != "" {
		retDate, err := models.ParseDate(q.ReturnDate)
		if err != nil {
			return nil, NewProviderError(p.Name(), err)
		}
		returns = p.match(q.Destination, q.Origin, q.CabinClass, retDate)
		if len(returns) == 0 {
			return nil, NewProviderError(p.Name(), ErrNoResults)
		}
		sort.Slice(returns, func(i, j int) bool { return returns[i].Price < returns[j].Price })
	}

	var results []models.FlightOffer
	for _, f := range p.match(q.Origin, q.Destination, q.CabinClass, depDate) {
		if len(returns) > 0 {
			ret := returns[0]
			f.ID += "+" + ret.ID
			f.Price += ret.Price
			f.Inbound = ret.Outbound
		}
		f.Currency = q.Currency

		offer, err := normalizeOffer(p.Name(), f)
		if err != nil {
			continue
		}
		results = append(results, offer)
	}

	if len(results) == 0 {
		return nil, NewProviderError(p.Name(), ErrNoResults)
	}
	return results, nil
}

func (p *StaticProvider) match(origin, destination, cabin string, date time.Time) []wireOffer {
	var out []wireOffer
	for _, f := range p.flights {
		if len(f.Outbound) == 0 {
			continue
		}
		first, last := f.Outbound[0], f.Outbound[len(f.Outbound)-1]
		if !strings.EqualFold(first.From, origin) || !strings.EqualFold(last.To, destination) {
			continue
		}
		if !strings.EqualFold(f.CabinClass, cabin) {
			continue
		}

		shifted := make([]wireSegment, len(f.Outbound))
		ok := true
		for i, s := range f.Outbound {
			dep, err1 := shiftTimestamp(s.DepartAt, s.FromTimezone, date)
			arr, err2 := shiftTimestamp(s.ArriveAt, s.ToTimezone, date)
			if err1 != nil || err2 != nil {
				ok = false
				break
			}
			s.DepartAt, s.ArriveAt = dep, arr
			shifted[i] = s
		}
		if !ok {
			continue
		}
		f.Outbound = shifted
		out = append(out, f)
	}
	return out
}

func shiftTimestamp(ts, tz string, date time.Time) (string, error) {
	t, err := timezone.ParseTimeWithOffset(ts, tz)
	if err != nil {
		return "", err
	}
	dayOffset := t.Day() - fixtureDay
	shifted := time.Date(date.Year(), date.Month(), date.Day()+dayOffset, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	return shifted.Format(time.RFC3339), nil
}
