// Package trip holds a session's trip under construction: its legs and the
// offer chosen for each of them.
package trip

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

var (
	ErrLegOutOfRange       = errors.New("leg index out of range")
	ErrSelectionIncomplete = errors.New("not every leg has a selected offer")
	ErrMixedCurrencies     = errors.New("selected offers use different currencies")
)

type Plan struct {
	Type       models.TripType    `json:"type"`
	Legs       []models.FlightLeg `json:"legs"`
	Passengers models.Passengers  `json:"passengers"`
	CabinClass string             `json:"cabin_class,omitempty"`
	Selection  Selection          `json:"selection"`
}

func NewPlan() *Plan {
	return &Plan{
		Type:       models.TripOneWay,
		Passengers: models.Passengers{Adults: 1},
	}
}

// SetLegs replaces the legs, giving each an ID if it has none, and resets
// the selection.
func (p *Plan) SetLegs(tripType models.TripType, legs []models.FlightLeg) error {
	if !tripType.Valid() {
		return models.ErrInvalidTripType
	}
	if !tripType.LegCountValid(len(legs)) {
		return models.ErrLegCount
	}

	out := make([]models.FlightLeg, len(legs))
	for i, leg := range legs {
		if leg.ID == "" {
			leg.ID = uuid.NewString()
		}
		out[i] = leg
	}
	p.Type = tripType
	p.Legs = out
	p.Selection = NewSelection(len(out))
	return nil
}

// Ready reports whether every leg can be searched.
func (p *Plan) Ready() bool {
	if len(p.Legs) == 0 {
		return false
	}
	for _, leg := range p.Legs {
		if !leg.IsSearchReady(p.Type == models.TripRoundTrip) {
			return false
		}
	}
	return true
}

func (p *Plan) SearchRequest() models.SearchRequest {
	legs := make([]models.FlightLeg, len(p.Legs))
	copy(legs, p.Legs)
	return models.SearchRequest{
		TripType:   p.Type,
		Legs:       legs,
		Passengers: p.Passengers,
		CabinClass: p.CabinClass,
	}
}

// Selection tracks one chosen offer per leg and which leg the user is
// looking at.
type Selection struct {
	Offers  []*models.FlightOffer `json:"offers"`
	Viewing int                   `json:"viewing"`
}

func NewSelection(legs int) Selection {
	return Selection{Offers: make([]*models.FlightOffer, legs)}
}

// Select records offer for leg and moves the view to the next unselected
// leg after it, if any.
func (s *Selection) Select(leg int, offer models.FlightOffer) error {
	if leg < 0 || leg >= len(s.Offers) {
		return fmt.Errorf("%w: %d", ErrLegOutOfRange, leg)
	}
	s.Offers[leg] = &offer

	for i := leg + 1; i < len(s.Offers); i++ {
		if s.Offers[i] == nil {
			s.Viewing = i
			break
		}
	}
	return nil
}

func (s *Selection) Clear(leg int) error {
	if leg < 0 || leg >= len(s.Offers) {
		return fmt.Errorf("%w: %d", ErrLegOutOfRange, leg)
	}
	s.Offers[leg] = nil
	return nil
}

func (s *Selection) View(leg int) error {
	if leg < 0 || leg >= len(s.Offers) {
		return fmt.Errorf("%w: %d", ErrLegOutOfRange, leg)
	}
	s.Viewing = leg
	return nil
}

func (s *Selection) Complete() bool {
	if len(s.Offers) == 0 {
		return false
	}
	for _, o := range s.Offers {
		if o == nil {
			return false
		}
	}
	return true
}

// Total is the sum of the selected prices multiplied by travelers.
func (s *Selection) Total(travelers int) (models.Price, error) {
	if !s.Complete() {
		return models.Price{}, ErrSelectionIncomplete
	}
	if travelers < 1 {
		travelers = 1
	}

	code := s.Offers[0].Price.Currency
	sum := 0.0
	for _, o := range s.Offers {
		if o.Price.Currency != code {
			return models.Price{}, fmt.Errorf("%w: %s and %s", ErrMixedCurrencies, code, o.Price.Currency)
		}
		sum += o.Price.Amount
	}
	amount := math.Round(sum*float64(travelers)*100) / 100

	return models.Price{
		Amount:    amount,
		Currency:  code,
		Formatted: currency.Format(amount, code),
	}, nil
}
