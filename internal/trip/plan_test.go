package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

func priced(id string, amount float64, code string) models.FlightOffer {
	return models.FlightOffer{ID: id, Price: models.Price{Amount: amount, Currency: code}}
}

func TestSelectAdvancesToNextUnselectedLeg(t *testing.T) {
	s := NewSelection(4)

	require.NoError(t, s.Select(0, priced("a", 100, "EUR")))
	assert.Equal(t, 1, s.Viewing)

	require.NoError(t, s.Select(2, priced("c", 100, "EUR")))
	assert.Equal(t, 3, s.Viewing)

	// Nothing unselected after leg 3: the view stays put.
	require.NoError(t, s.Select(3, priced("d", 100, "EUR")))
	assert.Equal(t, 3, s.Viewing)

	require.NoError(t, s.View(1))
	require.NoError(t, s.Select(1, priced("b", 100, "EUR")))
	assert.Equal(t, 1, s.Viewing)
	assert.True(t, s.Complete())
}

func TestSelectSkipsAlreadySelectedLegs(t *testing.T) {
	s := NewSelection(3)
	require.NoError(t, s.Select(1, priced("b", 10, "EUR")))
	assert.Equal(t, 2, s.Viewing)

	require.NoError(t, s.View(0))
	require.NoError(t, s.Select(0, priced("a", 10, "EUR")))
	assert.Equal(t, 2, s.Viewing)
}

func TestSelectionOutOfRange(t *testing.T) {
	s := NewSelection(2)
	assert.ErrorIs(t, s.Select(2, priced("x", 1, "EUR")), ErrLegOutOfRange)
	assert.ErrorIs(t, s.Select(-1, priced("x", 1, "EUR")), ErrLegOutOfRange)
	assert.ErrorIs(t, s.View(5), ErrLegOutOfRange)
	assert.ErrorIs(t, s.Clear(9), ErrLegOutOfRange)
}

func TestTotal(t *testing.T) {
	s := NewSelection(3)
	_, err := s.Total(2)
	assert.ErrorIs(t, err, ErrSelectionIncomplete)

	require.NoError(t, s.Select(0, priced("a", 120.10, "EUR")))
	require.NoError(t, s.Select(1, priced("b", 80.25, "EUR")))
	require.NoError(t, s.Select(2, priced("c", 99.65, "EUR")))

	total, err := s.Total(2)
	require.NoError(t, err)
	assert.InDelta(t, 600.0, total.Amount, 0.001)
	assert.Equal(t, "EUR", total.Currency)
	assert.Equal(t, "EUR 600.00", total.Formatted)

	require.NoError(t, s.Clear(1))
	_, err = s.Total(1)
	assert.ErrorIs(t, err, ErrSelectionIncomplete)

	require.NoError(t, s.Select(1, priced("b", 80, "USD")))
	_, err = s.Total(1)
	assert.ErrorIs(t, err, ErrMixedCurrencies)
}

func TestPlanSetLegs(t *testing.T) {
	p := NewPlan()

	err := p.SetLegs(models.TripMultiDestination, []models.FlightLeg{{From: "CDG", To: "FCO"}})
	assert.ErrorIs(t, err, models.ErrLegCount)

	legs := []models.FlightLeg{
		{From: "CDG", To: "FCO", Date: "2026-06-10"},
		{ID: "keep", From: "FCO", To: "ATH", Date: "2026-06-14"},
	}
	require.NoError(t, p.SetLegs(models.TripMultiDestination, legs))
	require.Len(t, p.Legs, 2)
	assert.NotEmpty(t, p.Legs[0].ID)
	assert.Equal(t, "keep", p.Legs[1].ID)
	assert.Len(t, p.Selection.Offers, 2)
	assert.False(t, p.Ready())

	cdg := models.Airport{IATA: "CDG"}.Location()
	fco := models.Airport{IATA: "FCO"}.Location()
	ath := models.Airport{IATA: "ATH"}.Location()
	p.Legs[0].FromLocation, p.Legs[0].ToLocation = &cdg, &fco
	p.Legs[1].FromLocation, p.Legs[1].ToLocation = &fco, &ath
	assert.True(t, p.Ready())

	req := p.SearchRequest()
	require.NoError(t, req.Validate())
	assert.Equal(t, models.TripMultiDestination, req.TripType)
}
