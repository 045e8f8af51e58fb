package providers

import (
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/currency"
)

const (
	PlaceholderProviderName = "placeholder"
	DefaultPlaceholderCount = 5
)

var placeholderAirlines = []models.Airline{
	{Code: "AF", Name: "Air France"},
	{Code: "LH", Name: "Lufthansa"},
	{Code: "BA", Name: "British Airways"},
	{Code: "KL", Name: "KLM"},
	{Code: "IB", Name: "Iberia"},
	{Code: "AZ", Name: "ITA Airways"},
	{Code: "U2", Name: "easyJet"},
	{Code: "TP", Name: "TAP Air Portugal"},
}

var placeholderHubs = []string{"AMS", "FRA", "MUC", "MAD", "ZRH", "LIS"}

var cabinMultiplier = map[string]float64{
	"economy":         1,
	"premium_economy": 1.6,
	"business":        3.2,
	"first":           5,
}

// PlaceholderGenerator synthesizes offers for legs whose backend search
// failed or came back empty. The shape is fixed (count offers, ascending
// price); prices, carriers and times are random.
type PlaceholderGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	count int
}

// NewPlaceholderGenerator seeds from the clock when seed is zero.
func NewPlaceholderGenerator(count int, seed int64) *PlaceholderGenerator {
	if count <= 0 {
		count = DefaultPlaceholderCount
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PlaceholderGenerator{
		rng:   rand.New(rand.NewSource(seed)),
		count: count,
	}
}

func (g *PlaceholderGenerator) Generate(q models.LegQuery) []models.FlightOffer {
	g.mu.Lock()
	defer g.mu.Unlock()

	depDate, err := models.ParseDate(q.DepartureDate)
	if err != nil {
		depDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	var retDate time.Time
	if q.ReturnDate != "" {
		if d, err := models.ParseDate(q.ReturnDate); err == nil {
			retDate = d
		}
	}

	multiplier := cabinMultiplier[q.CabinClass]
	if multiplier == 0 {
		multiplier = 1
	}

	offers := make([]models.FlightOffer, g.count)
	for i := range offers {
		airline := placeholderAirlines[g.rng.Intn(len(placeholderAirlines))]
		outbound, stops := g.itinerary(airline, q.Origin, q.Destination, depDate)
		price := (60 + g.rng.Float64()*540) * multiplier

		var inbound []models.Segment
		if !retDate.IsZero() {
			inbound, _ = g.itinerary(airline, q.Destination, q.Origin, retDate)
			price += (60 + g.rng.Float64()*540) * multiplier
		}
		price = float64(int(price*100)) / 100

		total := int(outbound[len(outbound)-1].Arrival.Time.Sub(outbound[0].Departure.Time).Minutes())

		offers[i] = models.FlightOffer{
			ID:       "ph-" + uuid.NewString(),
			Provider: PlaceholderProviderName,
			Price: models.Price{
				Amount:    price,
				Currency:  q.Currency,
				Formatted: currency.Format(price, q.Currency),
			},
			Outbound:       outbound,
			Inbound:        inbound,
			Stops:          stops,
			TotalDuration:  models.NewDuration(total),
			CabinClass:     q.CabinClass,
			AvailableSeats: 1 + g.rng.Intn(9),
			IsPlaceholder:  true,
		}
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price.Amount < offers[j].Price.Amount
	})
	return offers
}

func (g *PlaceholderGenerator) itinerary(airline models.Airline, from, to string, date time.Time) ([]models.Segment, int) {
	stops := 0
	switch r := g.rng.Intn(10); {
	case r >= 9:
		stops = 2
	case r >= 6:
		stops = 1
	}

	route := []string{from}
	for len(route) < stops+1 {
		hub := placeholderHubs[g.rng.Intn(len(placeholderHubs))]
		if hub != from && hub != to && hub != route[len(route)-1] {
			route = append(route, hub)
		}
	}
	route = append(route, to)

	departure := time.Date(date.Year(), date.Month(), date.Day(), 6+g.rng.Intn(16), 5*g.rng.Intn(12), 0, 0, time.UTC)
	segments := make([]models.Segment, 0, len(route)-1)
	for i := 0; i+1 < len(route); i++ {
		minutes := 55 + g.rng.Intn(300)
		arrival := departure.Add(time.Duration(minutes) * time.Minute)
		segments = append(segments, models.Segment{
			Airline:      airline,
			FlightNumber: airline.Code + strconv.Itoa(100+g.rng.Intn(8900)),
			Departure: models.FlightPoint{
				Airport: route[i],
				Time:    departure,
			},
			Arrival: models.FlightPoint{
				Airport: route[i+1],
				Time:    arrival,
			},
			DurationMinutes: minutes,
		})
		departure = arrival.Add(time.Duration(45+g.rng.Intn(120)) * time.Minute)
	}
	return segments, stops
}
