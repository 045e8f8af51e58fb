package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

func ptr[T any](v T) *T { return &v }

func offer(id, carrier string, price float64, depart string, minutes, stops int) models.FlightOffer {
	dep, _ := time.Parse("15:04", depart)
	dep = time.Date(2026, 6, 10, dep.Hour(), dep.Minute(), 0, 0, time.UTC)
	return models.FlightOffer{
		ID:    id,
		Price: models.Price{Amount: price, Currency: "EUR"},
		Outbound: []models.Segment{{
			Airline:   models.Airline{Code: carrier},
			Departure: models.FlightPoint{Airport: "CDG", Time: dep},
			Arrival:   models.FlightPoint{Airport: "NCE", Time: dep.Add(time.Duration(minutes) * time.Minute)},
		}},
		Stops:         stops,
		TotalDuration: models.NewDuration(minutes),
	}
}

func sample() []models.FlightOffer {
	return []models.FlightOffer{
		offer("af-morning", "AF", 120, "07:15", 85, 0),
		offer("u2-noon", "U2", 64, "12:30", 90, 0),
		offer("lh-evening", "LH", 150, "18:00", 240, 1),
	}
}

func ids(offers []models.FlightOffer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters *models.SearchFilters
		want    []string
	}{
		{name: "nil filters", filters: nil, want: []string{"u2-noon", "af-morning", "lh-evening"}},
		{name: "max price", filters: &models.SearchFilters{PriceMax: ptr(130.0)}, want: []string{"u2-noon", "af-morning"}},
		{name: "direct only", filters: &models.SearchFilters{MaxStops: ptr(0)}, want: []string{"u2-noon", "af-morning"}},
		{name: "airline case-insensitive", filters: &models.SearchFilters{Airlines: []string{"af"}}, want: []string{"af-morning"}},
		{name: "departure window", filters: &models.SearchFilters{DepartureTimeMin: ptr("10:00"), DepartureTimeMax: ptr("19:00")}, want: []string{"u2-noon", "lh-evening"}},
		{name: "arrival before noon", filters: &models.SearchFilters{ArrivalTimeMax: ptr("12:00")}, want: []string{"af-morning"}},
		{name: "bad time bound ignored", filters: &models.SearchFilters{DepartureTimeMin: ptr("soon")}, want: []string{"u2-noon", "af-morning", "lh-evening"}},
		{name: "max duration", filters: &models.SearchFilters{MaxDuration: ptr(100)}, want: []string{"u2-noon", "af-morning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sample(), tt.filters, "price", "asc")
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		sortBy, order string
		want          []string
	}{
		{"price", "desc", []string{"lh-evening", "af-morning", "u2-noon"}},
		{"duration", "asc", []string{"af-morning", "u2-noon", "lh-evening"}},
		{"departure", "desc", []string{"lh-evening", "u2-noon", "af-morning"}},
		{"stops", "desc", []string{"lh-evening", "af-morning", "u2-noon"}},
		{"unknown", "desc", []string{"u2-noon", "af-morning", "lh-evening"}},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy+"_"+tt.order, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sample(), nil, tt.sortBy, tt.order)))
		})
	}
}

func TestApplyBestValueScores(t *testing.T) {
	got := Apply(sample(), nil, "best_value", "asc")
	require.Len(t, got, 3)
	for _, o := range got {
		assert.Positive(t, o.BestValueScore)
	}
	assert.Equal(t, "lh-evening", got[2].ID)
}
