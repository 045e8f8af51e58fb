package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/ranking"
)

// Apply filters and orders one leg's offers. Unknown sort keys fall back to
// price ascending.
func Apply(offers []models.FlightOffer, filters *models.SearchFilters, sortBy, sortOrder string) []models.FlightOffer {
	filtered := applyFilters(offers, filters)

	if sortBy == "best_value" {
		filtered = ranking.CalculateScores(filtered)
	}

	return applySort(filtered, sortBy, sortOrder)
}

func applyFilters(offers []models.FlightOffer, filters *models.SearchFilters) []models.FlightOffer {
	if filters == nil {
		return offers
	}

	result := make([]models.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if matchesFilters(o, filters) {
			result = append(result, o)
		}
	}
	return result
}

func matchesFilters(o models.FlightOffer, filters *models.SearchFilters) bool {
	if filters.PriceMin != nil && o.Price.Amount < *filters.PriceMin {
		return false
	}
	if filters.PriceMax != nil && o.Price.Amount > *filters.PriceMax {
		return false
	}

	if filters.MaxStops != nil && o.Stops > *filters.MaxStops {
		return false
	}

	if len(filters.Airlines) > 0 {
		code := o.Airline().Code
		found := false
		for _, airline := range filters.Airlines {
			if strings.EqualFold(code, airline) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !withinWindow(o.DepartureTime(), filters.DepartureTimeMin, filters.DepartureTimeMax) {
		return false
	}
	if !withinWindow(o.ArrivalTime(), filters.ArrivalTimeMin, filters.ArrivalTimeMax) {
		return false
	}

	if filters.MaxDuration != nil && o.TotalDuration.TotalMinutes > *filters.MaxDuration {
		return false
	}

	return true
}

// withinWindow compares the local wall-clock time of t against HH:MM
// bounds. Unparseable bounds are ignored.
func withinWindow(t time.Time, min, max *string) bool {
	minutes := t.Hour()*60 + t.Minute()
	if min != nil {
		if bound, err := parseTimeOfDay(*min); err == nil && minutes < bound {
			return false
		}
	}
	if max != nil {
		if bound, err := parseTimeOfDay(*max); err == nil && minutes > bound {
			return false
		}
	}
	return true
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func applySort(offers []models.FlightOffer, sortBy, sortOrder string) []models.FlightOffer {
	if len(offers) == 0 {
		return offers
	}

	desc := strings.ToLower(sortOrder) == "desc"
	var less func(a, b models.FlightOffer) bool

	switch strings.ToLower(sortBy) {
	case "duration":
		less = func(a, b models.FlightOffer) bool {
			return a.TotalDuration.TotalMinutes < b.TotalDuration.TotalMinutes
		}
	case "departure":
		less = func(a, b models.FlightOffer) bool { return a.DepartureTime().Before(b.DepartureTime()) }
	case "arrival":
		less = func(a, b models.FlightOffer) bool { return a.ArrivalTime().Before(b.ArrivalTime()) }
	case "best_value":
		less = func(a, b models.FlightOffer) bool { return a.BestValueScore < b.BestValueScore }
	case "stops":
		less = func(a, b models.FlightOffer) bool { return a.Stops < b.Stops }
	case "price":
		less = func(a, b models.FlightOffer) bool { return a.Price.Amount < b.Price.Amount }
	default:
		desc = false
		less = func(a, b models.FlightOffer) bool { return a.Price.Amount < b.Price.Amount }
	}

	sort.SliceStable(offers, func(i, j int) bool {
		if desc {
			return less(offers[j], offers[i])
		}
		return less(offers[i], offers[j])
	})
	return offers
}
