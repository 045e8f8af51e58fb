package ranking

import (
	"math"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

// Weights of the best-value score. Lower scores are better.
const (
	PriceWeight    = 0.5
	DurationWeight = 0.3
	StopsWeight    = 0.2

	stopPenalty = 15
)

// journey is what the score compares. For round trips both directions
// count, so a cheap outbound paired with a slow return is not favoured.
type journey struct {
	price   float64
	minutes int
	stops   int
}

func journeyOf(o models.FlightOffer) journey {
	j := journey{
		price:   o.Price.Amount,
		minutes: o.TotalDuration.TotalMinutes,
		stops:   o.Stops,
	}
	if len(o.Inbound) > 0 {
		j.minutes += directionMinutes(o.Inbound)
		j.stops += len(o.Inbound) - 1
	}
	return j
}

// directionMinutes is door-to-door time from first departure to last
// arrival, falling back to summed segment durations when times are missing.
func directionMinutes(segments []models.Segment) int {
	first, last := segments[0], segments[len(segments)-1]
	if !first.Departure.Time.IsZero() && !last.Arrival.Time.IsZero() {
		if d := last.Arrival.Time.Sub(first.Departure.Time); d > 0 {
			return int(d.Minutes())
		}
	}
	total := 0
	for _, s := range segments {
		total += s.DurationMinutes
	}
	return total
}

// CalculateScores returns a copy of offers with BestValueScore set. Price
// and travel time are scored relative to the worst offer in the set.
func CalculateScores(offers []models.FlightOffer) []models.FlightOffer {
	if len(offers) == 0 {
		return offers
	}

	journeys := make([]journey, len(offers))
	var worst journey
	for i, o := range offers {
		j := journeyOf(o)
		journeys[i] = j
		worst.price = math.Max(worst.price, j.price)
		if j.minutes > worst.minutes {
			worst.minutes = j.minutes
		}
	}

	result := make([]models.FlightOffer, len(offers))
	for i, o := range offers {
		result[i] = o
		result[i].BestValueScore = score(journeys[i], worst)
	}
	return result
}

// CalculateBestValue scores a single offer against the given maxima.
func CalculateBestValue(offer models.FlightOffer, maxPrice float64, maxMinutes int) float64 {
	return score(journeyOf(offer), journey{price: maxPrice, minutes: maxMinutes})
}

func score(j, worst journey) float64 {
	var priceScore, durationScore float64
	if worst.price > 0 {
		priceScore = j.price / worst.price * 100
	}
	if worst.minutes > 0 {
		durationScore = float64(j.minutes) / float64(worst.minutes) * 100
	}
	stopsScore := float64(j.stops * stopPenalty)

	s := priceScore*PriceWeight + durationScore*DurationWeight + stopsScore*StopsWeight
	return math.Round(s*100) / 100
}
