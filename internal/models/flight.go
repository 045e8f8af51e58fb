package models

import "time"

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type FlightPoint struct {
	Airport  string    `json:"airport"`
	City     string    `json:"city,omitempty"`
	Terminal *string   `json:"terminal,omitempty"`
	Time     time.Time `json:"time"`
	Timezone string    `json:"timezone,omitempty"`
}

type Duration struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	TotalMinutes int `json:"total_minutes"`
}

func NewDuration(totalMinutes int) Duration {
	return Duration{
		Hours:        totalMinutes / 60,
		Minutes:      totalMinutes % 60,
		TotalMinutes: totalMinutes,
	}
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type Baggage struct {
	CabinKg   float64 `json:"cabin_kg"`
	CheckedKg float64 `json:"checked_kg"`
}

type Segment struct {
	Airline         Airline     `json:"airline"`
	FlightNumber    string      `json:"flight_number"`
	Departure       FlightPoint `json:"departure"`
	Arrival         FlightPoint `json:"arrival"`
	DurationMinutes int         `json:"duration_minutes"`
	Aircraft        *string     `json:"aircraft,omitempty"`
}

// FlightOffer is a bookable itinerary for one leg. Inbound is set for round
// trips. Offers synthesized locally when the backend fails carry
// IsPlaceholder.
type FlightOffer struct {
	ID             string    `json:"id"`
	Provider       string    `json:"provider"`
	Price          Price     `json:"price"`
	Outbound       []Segment `json:"outbound"`
	Inbound        []Segment `json:"inbound,omitempty"`
	Stops          int       `json:"stops"`
	TotalDuration  Duration  `json:"total_duration"`
	CabinClass     string    `json:"cabin_class"`
	AvailableSeats int       `json:"available_seats,omitempty"`
	Baggage        *Baggage  `json:"baggage,omitempty"`
	BestValueScore float64   `json:"best_value_score,omitempty"`
	IsPlaceholder  bool      `json:"is_placeholder"`
}

func (o FlightOffer) DepartureTime() time.Time {
	if len(o.Outbound) == 0 {
		return time.Time{}
	}
	return o.Outbound[0].Departure.Time
}

func (o FlightOffer) ArrivalTime() time.Time {
	if len(o.Outbound) == 0 {
		return time.Time{}
	}
	return o.Outbound[len(o.Outbound)-1].Arrival.Time
}

// Airline returns the carrier of the first outbound segment.
func (o FlightOffer) Airline() Airline {
	if len(o.Outbound) == 0 {
		return Airline{}
	}
	return o.Outbound[0].Airline
}
