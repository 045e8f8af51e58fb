package providers

import (
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/timezone"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

// Wire format shared by the flight-search backend and the bundled fixtures.

type searchPayload struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	Infants       int    `json:"infants"`
	CabinClass    string `json:"cabin_class"`
	Currency      string `json:"currency"`
	Locale        string `json:"locale"`
}

func newSearchPayload(q models.LegQuery) searchPayload {
	return searchPayload{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.DepartureDate,
		ReturnDate:    q.ReturnDate,
		Adults:        q.Passengers.Adults,
		Children:      q.Passengers.Children,
		Infants:       q.Passengers.Infants,
		CabinClass:    q.CabinClass,
		Currency:      q.Currency,
		Locale:        q.Locale,
	}
}

type wireResponse struct {
	Flights []wireOffer `json:"flights"`
	Count   int         `json:"count"`
}

type wireOffer struct {
	ID            string        `json:"id"`
	Price         float64       `json:"price"`
	Currency      string        `json:"currency"`
	Outbound      []wireSegment `json:"outbound"`
	Inbound       []wireSegment `json:"inbound,omitempty"`
	Stops         *int          `json:"stops,omitempty"`
	TotalDuration int           `json:"total_duration"`
	CabinClass    string        `json:"cabin_class"`
	SeatsLeft     int           `json:"seats_left"`
	Baggage       *wireBaggage  `json:"baggage,omitempty"`
}

type wireSegment struct {
	CarrierCode  string `json:"carrier_code"`
	CarrierName  string `json:"carrier_name"`
	FlightNumber string `json:"flight_number"`
	From         string `json:"from"`
	FromCity     string `json:"from_city"`
	FromTimezone string `json:"from_timezone"`
	FromTerminal string `json:"from_terminal"`
	To           string `json:"to"`
	ToCity       string `json:"to_city"`
	ToTimezone   string `json:"to_timezone"`
	ToTerminal   string `json:"to_terminal"`
	DepartAt     string `json:"depart_at"`
	ArriveAt     string `json:"arrive_at"`
	Duration     int    `json:"duration_minutes"`
	Aircraft     string `json:"aircraft"`
}

type wireBaggage struct {
	CarryOn int `json:"carry_on"`
	Checked int `json:"checked"`
}

func normalizeOffer(provider string, f wireOffer) (models.FlightOffer, error) {
	outbound, err := normalizeSegments(f.Outbound)
	if err != nil {
		return models.FlightOffer{}, err
	}
	if len(outbound) == 0 {
		return models.FlightOffer{}, ErrNoResults
	}
	inbound, err := normalizeSegments(f.Inbound)
	if err != nil {
		return models.FlightOffer{}, err
	}

	stops := len(outbound) - 1
	if f.Stops != nil {
		stops = *f.Stops
	}

	total := f.TotalDuration
	if total == 0 {
		total = int(outbound[len(outbound)-1].Arrival.Time.Sub(outbound[0].Departure.Time).Minutes())
	}

	var baggage *models.Baggage
	if f.Baggage != nil {
		baggage = &models.Baggage{
			CabinKg:   float64(f.Baggage.CarryOn),
			CheckedKg: float64(f.Baggage.Checked),
		}
	}

	return models.FlightOffer{
		ID:       f.ID,
		Provider: provider,
		Price: models.Price{
			Amount:    f.Price,
			Currency:  f.Currency,
			Formatted: currency.Format(f.Price, f.Currency),
		},
		Outbound:       outbound,
		Inbound:        inbound,
		Stops:          stops,
		TotalDuration:  models.NewDuration(total),
		CabinClass:     f.CabinClass,
		AvailableSeats: f.SeatsLeft,
		Baggage:        baggage,
	}, nil
}

func normalizeSegments(in []wireSegment) ([]models.Segment, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]models.Segment, 0, len(in))
	for _, s := range in {
		depTime, err := timezone.ParseTimeWithOffset(s.DepartAt, s.FromTimezone)
		if err != nil {
			return nil, err
		}
		arrTime, err := timezone.ParseTimeWithOffset(s.ArriveAt, s.ToTimezone)
		if err != nil {
			return nil, err
		}
		if s.FromTimezone != "" {
			depTime = timezone.In(depTime, s.FromTimezone)
		}
		if s.ToTimezone != "" {
			arrTime = timezone.In(arrTime, s.ToTimezone)
		}

		duration := s.Duration
		if duration == 0 {
			duration = int(arrTime.Sub(depTime).Minutes())
		}

		out = append(out, models.Segment{
			Airline:      models.Airline{Code: s.CarrierCode, Name: s.CarrierName},
			FlightNumber: s.FlightNumber,
			Departure: models.FlightPoint{
				Airport:  s.From,
				City:     s.FromCity,
				Terminal: optional(s.FromTerminal),
				Time:     depTime,
				Timezone: s.FromTimezone,
			},
			Arrival: models.FlightPoint{
				Airport:  s.To,
				City:     s.ToCity,
				Terminal: optional(s.ToTerminal),
				Time:     arrTime,
				Timezone: s.ToTimezone,
			},
			DurationMinutes: duration,
			Aircraft:        optional(s.Aircraft),
		})
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
